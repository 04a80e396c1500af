package testutil

import (
	"context"

	"github.com/nextplate/billing/internal/domain/subscription"
	ierr "github.com/nextplate/billing/internal/errors"
)

// InMemorySubscriptionStore implements subscription.Repository. Subscriptions
// are keyed by the provider subscription id, items by the provider item id.
type InMemorySubscriptionStore struct {
	subs  *InMemoryStore[*subscription.Subscription]
	items *InMemoryStore[*subscription.SubscriptionItem]

	Writes int
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		subs:  NewInMemoryStore[*subscription.Subscription](),
		items: NewInMemoryStore[*subscription.SubscriptionItem](),
	}
}

func (s *InMemorySubscriptionStore) Upsert(ctx context.Context, sub *subscription.Subscription) (string, error) {
	s.Writes++

	existing, err := s.subs.Get(ctx, sub.StripeSubscriptionID)
	if err != nil {
		s.subs.Set(ctx, sub.StripeSubscriptionID, sub)
		return sub.ID, nil
	}

	updated := *sub
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	s.subs.Set(ctx, sub.StripeSubscriptionID, &updated)
	return existing.ID, nil
}

func (s *InMemorySubscriptionStore) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*subscription.Subscription, error) {
	sub, err := s.subs.Get(ctx, stripeSubscriptionID)
	if err != nil {
		return nil, ierr.NewError("subscription not found").
			WithHintf("No subscription mirrored for stripe subscription %s", stripeSubscriptionID).
			Mark(ierr.ErrNotFound)
	}
	return sub, nil
}

func (s *InMemorySubscriptionStore) GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*subscription.Subscription, error) {
	all, err := s.subs.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, sub := range all {
		if sub.StripeCustomerID == stripeCustomerID {
			return sub, nil
		}
	}
	return nil, ierr.NewError("subscription not found").
		WithHintf("No subscription mirrored for stripe customer %s", stripeCustomerID).
		Mark(ierr.ErrNotFound)
}

func (s *InMemorySubscriptionStore) UpsertItem(ctx context.Context, item *subscription.SubscriptionItem) error {
	s.Writes++

	existing, err := s.items.Get(ctx, item.StripeItemID)
	if err != nil {
		s.items.Set(ctx, item.StripeItemID, item)
		return nil
	}

	updated := *item
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	s.items.Set(ctx, item.StripeItemID, &updated)
	return nil
}

func (s *InMemorySubscriptionStore) ListItems(ctx context.Context, subscriptionID string) ([]*subscription.SubscriptionItem, error) {
	return s.items.List(ctx, subscriptionID,
		func(ctx context.Context, item *subscription.SubscriptionItem, filter interface{}) bool {
			return item.SubscriptionID == filter.(string)
		},
		func(i, j *subscription.SubscriptionItem) bool {
			return i.StripeItemID < j.StripeItemID
		},
	)
}

// CountSubscriptions returns the number of subscription rows in the store
func (s *InMemorySubscriptionStore) CountSubscriptions(ctx context.Context) int {
	count, _ := s.subs.Count(ctx, nil, nil)
	return count
}
