package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/nextplate/billing/internal/domain/price"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/postgres"
)

type priceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPriceRepository(db *postgres.DB, logger *logger.Logger) price.Repository {
	return &priceRepository{db: db, logger: logger}
}

func (r *priceRepository) Upsert(ctx context.Context, p *price.Price) (bool, error) {
	query := `
		INSERT INTO subscription_prices (
			id,
			stripe_price_id,
			product_id,
			currency,
			unit_amount,
			recurring_interval,
			recurring_interval_count,
			trial_period_days,
			active,
			metadata,
			created_at,
			updated_at
		) VALUES (
			:id,
			:stripe_price_id,
			:product_id,
			:currency,
			:unit_amount,
			:recurring_interval,
			:recurring_interval_count,
			:trial_period_days,
			:active,
			:metadata,
			:created_at,
			:updated_at
		)
		ON CONFLICT (stripe_price_id) DO UPDATE SET
			product_id = EXCLUDED.product_id,
			currency = EXCLUDED.currency,
			unit_amount = EXCLUDED.unit_amount,
			recurring_interval = EXCLUDED.recurring_interval,
			recurring_interval_count = EXCLUDED.recurring_interval_count,
			trial_period_days = EXCLUDED.trial_period_days,
			active = EXCLUDED.active,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS created
	`

	rows, err := r.db.NamedQueryContext(ctx, query, p)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to upsert price").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var created bool
	if rows.Next() {
		if err := rows.Scan(&created); err != nil {
			return false, ierr.WithError(err).
				WithHint("Failed to scan upsert result").
				Mark(ierr.ErrDatabase)
		}
	}

	return created, nil
}

func (r *priceRepository) GetByStripeID(ctx context.Context, stripePriceID string) (*price.Price, error) {
	query := `
		SELECT * FROM subscription_prices
		WHERE stripe_price_id = :stripe_price_id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"stripe_price_id": stripePriceID,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get price").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("price not found").
			WithHintf("No price mirrored for stripe price %s", stripePriceID).
			Mark(ierr.ErrNotFound)
	}

	var p price.Price
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan price").
			Mark(ierr.ErrDatabase)
	}

	return &p, nil
}

func (r *priceRepository) List(ctx context.Context) ([]*price.Price, error) {
	query := `SELECT * FROM subscription_prices ORDER BY created_at DESC`

	var prices []*price.Price
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &prices, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list prices").
			Mark(ierr.ErrDatabase)
	}

	return prices, nil
}

func (r *priceRepository) DeactivateMissing(ctx context.Context, presentIDs []string) (int, error) {
	var (
		query string
		args  []interface{}
		err   error
	)

	if len(presentIDs) == 0 {
		query = `UPDATE subscription_prices SET active = false, updated_at = now() WHERE active = true`
	} else {
		query, args, err = sqlx.In(
			`UPDATE subscription_prices SET active = false, updated_at = now()
			 WHERE active = true AND stripe_price_id NOT IN (?)`,
			presentIDs,
		)
		if err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to build deactivation query").
				Mark(ierr.ErrDatabase)
		}
		query = r.db.Rebind(query)
	}

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to deactivate stale prices").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to read affected rows").
			Mark(ierr.ErrDatabase)
	}

	return int(affected), nil
}
