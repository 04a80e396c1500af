package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/nextplate/billing/internal/domain/product"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/postgres"
)

type productRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return &productRepository{db: db, logger: logger}
}

func (r *productRepository) Upsert(ctx context.Context, p *product.Product) (bool, error) {
	query := `
		INSERT INTO subscription_products (
			id,
			stripe_product_id,
			name,
			description,
			active,
			metadata,
			created_at,
			updated_at
		) VALUES (
			:id,
			:stripe_product_id,
			:name,
			:description,
			:active,
			:metadata,
			:created_at,
			:updated_at
		)
		ON CONFLICT (stripe_product_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			active = EXCLUDED.active,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS created
	`

	rows, err := r.db.NamedQueryContext(ctx, query, p)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to upsert product").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	// xmax = 0 only for freshly inserted rows
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

func (r *productRepository) GetByStripeID(ctx context.Context, stripeProductID string) (*product.Product, error) {
	query := `
		SELECT * FROM subscription_products
		WHERE stripe_product_id = :stripe_product_id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"stripe_product_id": stripeProductID,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get product").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("product not found").
			WithHintf("No product mirrored for stripe product %s", stripeProductID).
			Mark(ierr.ErrNotFound)
	}

	var p product.Product
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan product").
			Mark(ierr.ErrDatabase)
	}

	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]*product.Product, error) {
	query := `SELECT * FROM subscription_products ORDER BY created_at DESC`

	var products []*product.Product
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &products, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list products").
			Mark(ierr.ErrDatabase)
	}

	return products, nil
}

func (r *productRepository) DeactivateMissing(ctx context.Context, presentIDs []string) (int, error) {
	var (
		query string
		args  []interface{}
		err   error
	)

	if len(presentIDs) == 0 {
		query = `UPDATE subscription_products SET active = false, updated_at = now() WHERE active = true`
	} else {
		query, args, err = sqlx.In(
			`UPDATE subscription_products SET active = false, updated_at = now()
			 WHERE active = true AND stripe_product_id NOT IN (?)`,
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
			WithHint("Failed to deactivate stale products").
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
