package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresOption configures the PostgresStore.
type PostgresOption func(*pgxpool.Config)

// WithPoolSize overrides the maximum number of pooled connections.
func WithPoolSize(n int) PostgresOption {
	return func(c *pgxpool.Config) {
		if n > 0 {
			c.MaxConns = int32(n) //nolint:gosec // bounded by config validation
		}
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, opts ...PostgresOption) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return classifyPG("pinging database", s.pool.Ping(ctx))
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// UpsertProduct inserts a product or updates its metadata. The last
// snapshot is never touched here; see UpdateSnapshot.
func (s *PostgresStore) UpsertProduct(ctx context.Context, p *domain.TrackedProduct) error {
	args := pgx.NamedArgs{
		"id":            string(p.ID),
		"name":          p.Name,
		"region":        p.Region,
		"track_release": p.TrackRelease,
	}
	err := s.pool.QueryRow(ctx, queryUpsertProduct, args).Scan(&p.CreatedAt, &p.UpdatedAt)
	return classifyPG("upserting product", err)
}

// GetProduct retrieves a product by id.
func (s *PostgresStore) GetProduct(ctx context.Context, id domain.ProductID) (*domain.TrackedProduct, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, queryGetProduct, string(id)))
	if err != nil {
		return nil, classifyPG("getting product", err)
	}
	return p, nil
}

// ListProducts returns all tracked products ordered by name.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.TrackedProduct, error) {
	rows, err := s.pool.Query(ctx, queryListProducts)
	if err != nil {
		return nil, classifyPG("listing products", err)
	}
	defer rows.Close()

	var products []domain.TrackedProduct
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, classifyPG("scanning product", err)
		}
		products = append(products, *p)
	}
	return products, classifyPG("iterating products", rows.Err())
}

// UpdateSnapshot replaces the last-known snapshot of a product.
func (s *PostgresStore) UpdateSnapshot(ctx context.Context, id domain.ProductID, snap domain.Snapshot) error {
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, queryUpdateSnapshot, string(id), raw)
	if err != nil {
		return classifyPG("updating snapshot", err)
	}
	if tag.RowsAffected() == 0 {
		return newError(NotFound, "updating snapshot", fmt.Errorf("product %s", id))
	}
	return nil
}

// DeleteProduct removes a product; subscriptions cascade.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id domain.ProductID) error {
	_, err := s.pool.Exec(ctx, queryDeleteProduct, string(id))
	return classifyPG("deleting product", err)
}

// CreateSubscription inserts a subscription or updates its discount threshold.
func (s *PostgresStore) CreateSubscription(ctx context.Context, sub *domain.Subscription) (bool, error) {
	args := pgx.NamedArgs{
		"product_id":   string(sub.ProductID),
		"group_id":     sub.Destination.GroupID,
		"channel_id":   sub.Destination.ChannelID,
		"min_discount": sub.MinDiscount,
	}
	var inserted bool
	err := s.pool.QueryRow(ctx, queryUpsertSubscription, args).Scan(&sub.CreatedAt, &inserted)
	if err != nil {
		return false, classifyPG("creating subscription", err)
	}
	return inserted, nil
}

// DeleteSubscription removes one subscription, reporting whether it existed.
func (s *PostgresStore) DeleteSubscription(
	ctx context.Context,
	id domain.ProductID,
	dest domain.Destination,
) (bool, error) {
	tag, err := s.pool.Exec(ctx, queryDeleteSubscription, string(id), dest.GroupID, dest.ChannelID)
	if err != nil {
		return false, classifyPG("deleting subscription", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteGroupSubscriptions removes every subscription of a subscriber group.
func (s *PostgresStore) DeleteGroupSubscriptions(ctx context.Context, groupID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, queryDeleteGroupSubscriptions, groupID)
	if err != nil {
		return 0, classifyPG("deleting group subscriptions", err)
	}
	return tag.RowsAffected(), nil
}

// ListSubscriptions returns every subscription.
func (s *PostgresStore) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	rows, err := s.pool.Query(ctx, queryListSubscriptions)
	if err != nil {
		return nil, classifyPG("listing subscriptions", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		var id string
		if err := rows.Scan(
			&id, &sub.Destination.GroupID, &sub.Destination.ChannelID,
			&sub.MinDiscount, &sub.CreatedAt,
		); err != nil {
			return nil, classifyPG("scanning subscription", err)
		}
		sub.ProductID = domain.ProductID(id)
		subs = append(subs, sub)
	}
	return subs, classifyPG("iterating subscriptions", rows.Err())
}

// SetGroupThreshold stores the default discount threshold of a group.
func (s *PostgresStore) SetGroupThreshold(ctx context.Context, groupID string, minDiscount int) error {
	if _, err := s.pool.Exec(ctx, queryUpsertGroupThreshold, groupID, minDiscount); err != nil {
		return classifyPG("setting group threshold", err)
	}
	return nil
}

// ListGroupThresholds returns every stored group threshold keyed by group id.
func (s *PostgresStore) ListGroupThresholds(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, queryListGroupThresholds)
	if err != nil {
		return nil, classifyPG("listing group thresholds", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var group string
		var pct int
		if err := rows.Scan(&group, &pct); err != nil {
			return nil, classifyPG("scanning group threshold", err)
		}
		out[group] = pct
	}
	return out, classifyPG("iterating group thresholds", rows.Err())
}

// InsertDeliveryFailure records a failed delivery and prunes old entries.
func (s *PostgresStore) InsertDeliveryFailure(ctx context.Context, f *domain.DeliveryFailure) error {
	args := pgx.NamedArgs{
		"product_id": string(f.ProductID),
		"group_id":   f.Destination.GroupID,
		"channel_id": f.Destination.ChannelID,
		"kinds":      encodeKinds(f.Kinds),
		"attempts":   f.Attempts,
		"error":      f.Error,
	}
	if err := s.pool.QueryRow(ctx, queryInsertDeliveryFailure, args).Scan(&f.ID, &f.FailedAt); err != nil {
		return classifyPG("inserting delivery failure", err)
	}
	_, err := s.pool.Exec(ctx, queryPruneDeliveryFailures, maxDeliveryFailures)
	return classifyPG("pruning delivery failures", err)
}

// ListDeliveryFailures returns the most recent delivery failures.
func (s *PostgresStore) ListDeliveryFailures(ctx context.Context, limit int) ([]domain.DeliveryFailure, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, queryListDeliveryFailures, limit)
	if err != nil {
		return nil, classifyPG("listing delivery failures", err)
	}
	defer rows.Close()

	var out []domain.DeliveryFailure
	for rows.Next() {
		var f domain.DeliveryFailure
		var id, kinds string
		if err := rows.Scan(
			&f.ID, &id, &f.Destination.GroupID, &f.Destination.ChannelID,
			&kinds, &f.Attempts, &f.Error, &f.FailedAt,
		); err != nil {
			return nil, classifyPG("scanning delivery failure", err)
		}
		f.ProductID = domain.ProductID(id)
		f.Kinds = decodeKinds(kinds)
		out = append(out, f)
	}
	return out, classifyPG("iterating delivery failures", rows.Err())
}

func scanProduct(row pgx.Row) (*domain.TrackedProduct, error) {
	var p domain.TrackedProduct
	var id string
	var raw []byte
	if err := row.Scan(&id, &p.Name, &p.Region, &p.TrackRelease, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	snap, err := decodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	p.ID = domain.ProductID(id)
	p.LastSnapshot = snap
	return &p, nil
}

// classifyPG maps pgx errors onto store error kinds. Server-reported errors
// are classified by SQLSTATE; anything else failed before or during the
// round trip and is treated as Unavailable.
func classifyPG(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return newError(NotFound, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505", pgErr.Code == "23503", pgErr.Code == "23514":
			return newError(Conflict, op, err)
		case pgErr.Code == "40001", pgErr.Code == "40P01", pgErr.Code == "57P01",
			strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"):
			return newError(Unavailable, op, err)
		default:
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return newError(Unavailable, op, err)
}

var _ Store = (*PostgresStore)(nil)
