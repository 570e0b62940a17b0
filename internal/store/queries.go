package store

// SQL query constants organized by entity.
// All PostgreSQL SQL lives here; PostgresStore methods reference these constants.

// Product queries.
const (
	queryUpsertProduct = `
		INSERT INTO products (id, name, region, track_release, created_at, updated_at)
		VALUES (@id, @name, @region, @track_release, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name = '' THEN products.name ELSE EXCLUDED.name END,
			region = EXCLUDED.region,
			track_release = EXCLUDED.track_release,
			updated_at = now()
		RETURNING created_at, updated_at`

	queryGetProduct = `
		SELECT id, name, region, track_release, last_snapshot, created_at, updated_at
		FROM products
		WHERE id = $1`

	queryListProducts = `
		SELECT id, name, region, track_release, last_snapshot, created_at, updated_at
		FROM products
		ORDER BY name, id`

	queryUpdateSnapshot = `
		UPDATE products SET last_snapshot = $2, updated_at = now()
		WHERE id = $1`

	queryDeleteProduct = `DELETE FROM products WHERE id = $1`
)

// Subscription queries.
const (
	queryUpsertSubscription = `
		INSERT INTO subscriptions (product_id, group_id, channel_id, min_discount, created_at)
		VALUES (@product_id, @group_id, @channel_id, @min_discount, now())
		ON CONFLICT (product_id, group_id, channel_id) DO UPDATE SET
			min_discount = EXCLUDED.min_discount
		RETURNING created_at, (xmax = 0) AS inserted`

	queryDeleteSubscription = `
		DELETE FROM subscriptions
		WHERE product_id = $1 AND group_id = $2 AND channel_id = $3`

	queryDeleteGroupSubscriptions = `DELETE FROM subscriptions WHERE group_id = $1`

	queryListSubscriptions = `
		SELECT product_id, group_id, channel_id, min_discount, created_at
		FROM subscriptions
		ORDER BY product_id, group_id, channel_id`
)

// Group settings queries.
const (
	queryUpsertGroupThreshold = `
		INSERT INTO group_settings (group_id, min_discount, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (group_id) DO UPDATE SET
			min_discount = EXCLUDED.min_discount,
			updated_at = now()`

	queryListGroupThresholds = `SELECT group_id, min_discount FROM group_settings`
)

// Delivery failure queries.
const (
	queryInsertDeliveryFailure = `
		INSERT INTO delivery_failures (product_id, group_id, channel_id, kinds, attempts, error, failed_at)
		VALUES (@product_id, @group_id, @channel_id, @kinds, @attempts, @error, now())
		RETURNING id, failed_at`

	queryPruneDeliveryFailures = `
		DELETE FROM delivery_failures
		WHERE id <= (SELECT id FROM delivery_failures ORDER BY id DESC OFFSET $1 LIMIT 1)`

	queryListDeliveryFailures = `
		SELECT id, product_id, group_id, channel_id, kinds, attempts, error, failed_at
		FROM delivery_failures
		ORDER BY id DESC
		LIMIT $1`
)
