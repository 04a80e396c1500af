package postgres

import (
	"context"

	"github.com/nextplate/billing/internal/domain/subscription"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/postgres"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *subscription.Subscription) (string, error) {
	query := `
		INSERT INTO subscriptions (
			id,
			user_id,
			stripe_customer_id,
			stripe_subscription_id,
			price_id,
			status,
			current_period_start,
			current_period_end,
			cancel_at_period_end,
			canceled_at,
			created_at,
			updated_at
		) VALUES (
			:id,
			:user_id,
			:stripe_customer_id,
			:stripe_subscription_id,
			:price_id,
			:status,
			:current_period_start,
			:current_period_end,
			:cancel_at_period_end,
			:canceled_at,
			:created_at,
			:updated_at
		)
		ON CONFLICT (stripe_subscription_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			price_id = EXCLUDED.price_id,
			status = EXCLUDED.status,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			canceled_at = EXCLUDED.canceled_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, sub)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to upsert subscription").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	// The conflict branch keeps the existing row id, so read it back
	var localID string
	if rows.Next() {
		if err := rows.Scan(&localID); err != nil {
			return "", ierr.WithError(err).
				WithHint("Failed to scan upsert result").
				Mark(ierr.ErrDatabase)
		}
	}

	return localID, nil
}

func (r *subscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE stripe_subscription_id = :stripe_subscription_id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"stripe_subscription_id": stripeSubscriptionID,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("subscription not found").
			WithHintf("No subscription mirrored for stripe subscription %s", stripeSubscriptionID).
			Mark(ierr.ErrNotFound)
	}

	var sub subscription.Subscription
	if err := rows.StructScan(&sub); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan subscription").
			Mark(ierr.ErrDatabase)
	}

	return &sub, nil
}

func (r *subscriptionRepository) GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*subscription.Subscription, error) {
	query := `
		SELECT * FROM subscriptions
		WHERE stripe_customer_id = :stripe_customer_id
		ORDER BY created_at DESC
		LIMIT 1
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"stripe_customer_id": stripeCustomerID,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscription by customer").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("subscription not found").
			WithHintf("No subscription mirrored for stripe customer %s", stripeCustomerID).
			Mark(ierr.ErrNotFound)
	}

	var sub subscription.Subscription
	if err := rows.StructScan(&sub); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan subscription").
			Mark(ierr.ErrDatabase)
	}

	return &sub, nil
}

func (r *subscriptionRepository) UpsertItem(ctx context.Context, item *subscription.SubscriptionItem) error {
	query := `
		INSERT INTO subscription_items (
			id,
			subscription_id,
			stripe_item_id,
			stripe_price_id,
			quantity,
			created_at,
			updated_at
		) VALUES (
			:id,
			:subscription_id,
			:stripe_item_id,
			:stripe_price_id,
			:quantity,
			:created_at,
			:updated_at
		)
		ON CONFLICT (stripe_item_id) DO UPDATE SET
			subscription_id = EXCLUDED.subscription_id,
			stripe_price_id = EXCLUDED.stripe_price_id,
			quantity = EXCLUDED.quantity,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upsert subscription item").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *subscriptionRepository) ListItems(ctx context.Context, subscriptionID string) ([]*subscription.SubscriptionItem, error) {
	query := `
		SELECT * FROM subscription_items
		WHERE subscription_id = :subscription_id
		ORDER BY created_at ASC
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"subscription_id": subscriptionID,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list subscription items").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var items []*subscription.SubscriptionItem
	for rows.Next() {
		var item subscription.SubscriptionItem
		if err := rows.StructScan(&item); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan subscription item").
				Mark(ierr.ErrDatabase)
		}
		items = append(items, &item)
	}

	return items, nil
}
