package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// SQLiteStore implements Store on a single SQLite file through the pure-Go
// modernc.org/sqlite driver. It suits single-node deployments.
type SQLiteStore struct {
	db      *sql.DB
	nowFunc func() time.Time
}

// SQLiteOption configures the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithSQLiteNowFunc overrides the time source for row timestamps.
func WithSQLiteNowFunc(f func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) {
		s.nowFunc = f
	}
}

// NewSQLiteStore opens (creating if needed) the SQLite database at path.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &SQLiteStore{db: db, nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return classifySQLite("pinging database", s.db.PingContext(ctx))
}

// Migrate applies pending SQL schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, "migrations/sqlite", sqliteMigrations{db: s.db})
}

func (s *SQLiteStore) now() time.Time {
	return s.nowFunc().UTC()
}

// UpsertProduct inserts a product or updates its metadata.
func (s *SQLiteStore) UpsertProduct(ctx context.Context, p *domain.TrackedProduct) error {
	now := formatTime(s.now())
	var created, updated string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, region, track_release, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = CASE WHEN excluded.name = '' THEN products.name ELSE excluded.name END,
			region = excluded.region,
			track_release = excluded.track_release,
			updated_at = excluded.updated_at
		RETURNING created_at, updated_at`,
		string(p.ID), p.Name, p.Region, p.TrackRelease, now, now,
	).Scan(&created, &updated)
	if err != nil {
		return classifySQLite("upserting product", err)
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return nil
}

// GetProduct retrieves a product by id.
func (s *SQLiteStore) GetProduct(ctx context.Context, id domain.ProductID) (*domain.TrackedProduct, error) {
	p, err := scanSQLiteProduct(s.db.QueryRowContext(ctx, `
		SELECT id, name, region, track_release, last_snapshot, created_at, updated_at
		FROM products WHERE id = ?`, string(id)))
	if err != nil {
		return nil, classifySQLite("getting product", err)
	}
	return p, nil
}

// ListProducts returns all tracked products ordered by name.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]domain.TrackedProduct, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, region, track_release, last_snapshot, created_at, updated_at
		FROM products ORDER BY name, id`)
	if err != nil {
		return nil, classifySQLite("listing products", err)
	}
	defer rows.Close()

	var products []domain.TrackedProduct
	for rows.Next() {
		p, err := scanSQLiteProduct(rows)
		if err != nil {
			return nil, classifySQLite("scanning product", err)
		}
		products = append(products, *p)
	}
	return products, classifySQLite("iterating products", rows.Err())
}

// UpdateSnapshot replaces the last-known snapshot of a product.
func (s *SQLiteStore) UpdateSnapshot(ctx context.Context, id domain.ProductID, snap domain.Snapshot) error {
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET last_snapshot = ?, updated_at = ? WHERE id = ?`,
		raw, formatTime(s.now()), string(id),
	)
	if err != nil {
		return classifySQLite("updating snapshot", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return newError(NotFound, "updating snapshot", fmt.Errorf("product %s", id))
	}
	return nil
}

// DeleteProduct removes a product; subscriptions cascade.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, id domain.ProductID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, string(id))
	return classifySQLite("deleting product", err)
}

// CreateSubscription inserts a subscription or updates its discount threshold.
func (s *SQLiteStore) CreateSubscription(ctx context.Context, sub *domain.Subscription) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, classifySQLite("creating subscription", err)
	}
	defer func() { _ = tx.Rollback() }()

	var created string
	err = tx.QueryRowContext(ctx, `
		SELECT created_at FROM subscriptions
		WHERE product_id = ? AND group_id = ? AND channel_id = ?`,
		string(sub.ProductID), sub.Destination.GroupID, sub.Destination.ChannelID,
	).Scan(&created)

	inserted := false
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = formatTime(s.now())
		_, err = tx.ExecContext(ctx, `
			INSERT INTO subscriptions (product_id, group_id, channel_id, min_discount, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			string(sub.ProductID), sub.Destination.GroupID, sub.Destination.ChannelID,
			sub.MinDiscount, created,
		)
		inserted = true
	case err == nil:
		_, err = tx.ExecContext(ctx, `
			UPDATE subscriptions SET min_discount = ?
			WHERE product_id = ? AND group_id = ? AND channel_id = ?`,
			sub.MinDiscount, string(sub.ProductID), sub.Destination.GroupID, sub.Destination.ChannelID,
		)
	}
	if err != nil {
		return false, classifySQLite("creating subscription", err)
	}
	if err := tx.Commit(); err != nil {
		return false, classifySQLite("committing subscription", err)
	}

	sub.CreatedAt = parseTime(created)
	return inserted, nil
}

// DeleteSubscription removes one subscription, reporting whether it existed.
func (s *SQLiteStore) DeleteSubscription(
	ctx context.Context,
	id domain.ProductID,
	dest domain.Destination,
) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM subscriptions WHERE product_id = ? AND group_id = ? AND channel_id = ?`,
		string(id), dest.GroupID, dest.ChannelID,
	)
	if err != nil {
		return false, classifySQLite("deleting subscription", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteGroupSubscriptions removes every subscription of a subscriber group.
func (s *SQLiteStore) DeleteGroupSubscriptions(ctx context.Context, groupID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE group_id = ?`, groupID)
	if err != nil {
		return 0, classifySQLite("deleting group subscriptions", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ListSubscriptions returns every subscription.
func (s *SQLiteStore) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, group_id, channel_id, min_discount, created_at
		FROM subscriptions ORDER BY product_id, group_id, channel_id`)
	if err != nil {
		return nil, classifySQLite("listing subscriptions", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		var id, created string
		if err := rows.Scan(
			&id, &sub.Destination.GroupID, &sub.Destination.ChannelID, &sub.MinDiscount, &created,
		); err != nil {
			return nil, classifySQLite("scanning subscription", err)
		}
		sub.ProductID = domain.ProductID(id)
		sub.CreatedAt = parseTime(created)
		subs = append(subs, sub)
	}
	return subs, classifySQLite("iterating subscriptions", rows.Err())
}

// SetGroupThreshold stores the default discount threshold of a group.
func (s *SQLiteStore) SetGroupThreshold(ctx context.Context, groupID string, minDiscount int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_settings (group_id, min_discount, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (group_id) DO UPDATE SET
			min_discount = excluded.min_discount,
			updated_at = excluded.updated_at`,
		groupID, minDiscount, formatTime(s.now()),
	)
	if err != nil {
		return classifySQLite("setting group threshold", err)
	}
	return nil
}

// ListGroupThresholds returns every stored group threshold keyed by group id.
func (s *SQLiteStore) ListGroupThresholds(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT group_id, min_discount FROM group_settings`)
	if err != nil {
		return nil, classifySQLite("listing group thresholds", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var group string
		var pct int
		if err := rows.Scan(&group, &pct); err != nil {
			return nil, classifySQLite("scanning group threshold", err)
		}
		out[group] = pct
	}
	return out, classifySQLite("iterating group thresholds", rows.Err())
}

// InsertDeliveryFailure records a failed delivery and prunes old entries.
func (s *SQLiteStore) InsertDeliveryFailure(ctx context.Context, f *domain.DeliveryFailure) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO delivery_failures (product_id, group_id, channel_id, kinds, attempts, error, failed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(f.ProductID), f.Destination.GroupID, f.Destination.ChannelID,
		encodeKinds(f.Kinds), f.Attempts, f.Error, formatTime(now),
	)
	if err != nil {
		return classifySQLite("inserting delivery failure", err)
	}
	f.ID, _ = res.LastInsertId()
	f.FailedAt = now

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM delivery_failures
		WHERE id <= (SELECT id FROM delivery_failures ORDER BY id DESC LIMIT 1 OFFSET ?)`,
		maxDeliveryFailures,
	)
	return classifySQLite("pruning delivery failures", err)
}

// ListDeliveryFailures returns the most recent delivery failures.
func (s *SQLiteStore) ListDeliveryFailures(ctx context.Context, limit int) ([]domain.DeliveryFailure, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, group_id, channel_id, kinds, attempts, error, failed_at
		FROM delivery_failures ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, classifySQLite("listing delivery failures", err)
	}
	defer rows.Close()

	var out []domain.DeliveryFailure
	for rows.Next() {
		var f domain.DeliveryFailure
		var id, kinds, failed string
		if err := rows.Scan(
			&f.ID, &id, &f.Destination.GroupID, &f.Destination.ChannelID,
			&kinds, &f.Attempts, &f.Error, &failed,
		); err != nil {
			return nil, classifySQLite("scanning delivery failure", err)
		}
		f.ProductID = domain.ProductID(id)
		f.Kinds = decodeKinds(kinds)
		f.FailedAt = parseTime(failed)
		out = append(out, f)
	}
	return out, classifySQLite("iterating delivery failures", rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProduct(row rowScanner) (*domain.TrackedProduct, error) {
	var p domain.TrackedProduct
	var id, created, updated string
	var raw sql.NullString
	if err := row.Scan(&id, &p.Name, &p.Region, &p.TrackRelease, &raw, &created, &updated); err != nil {
		return nil, err
	}
	if raw.Valid {
		snap, err := decodeSnapshot([]byte(raw.String))
		if err != nil {
			return nil, err
		}
		p.LastSnapshot = snap
	}
	p.ID = domain.ProductID(id)
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// classifySQLite maps driver errors onto store error kinds by primary result code.
func classifySQLite(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return newError(NotFound, op, err)
	}

	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return newError(Conflict, op, err)
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR,
			sqlite3.SQLITE_FULL, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_READONLY:
			return newError(Unavailable, op, err)
		default:
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return newError(Unavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ Store = (*SQLiteStore)(nil)
