package subscription

import (
	"context"
)

type Repository interface {
	// Upsert writes the subscription keyed on its stripe subscription id
	// and returns the canonical local row id (the existing row's id when
	// the subscription was already mirrored)
	Upsert(ctx context.Context, subscription *Subscription) (localID string, err error)

	// GetByStripeID retrieves a subscription by its provider identifier
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)

	// GetByStripeCustomerID retrieves any subscription owned by the given
	// provider customer. Used by the user resolver fallback chain.
	GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*Subscription, error)

	// UpsertItem writes a line item keyed on its stripe item id
	UpsertItem(ctx context.Context, item *SubscriptionItem) error

	// ListItems returns all line items of a local subscription
	ListItems(ctx context.Context, subscriptionID string) ([]*SubscriptionItem, error)
}
