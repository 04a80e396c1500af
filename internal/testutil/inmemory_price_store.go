package testutil

import (
	"context"

	"github.com/nextplate/billing/internal/domain/price"
	ierr "github.com/nextplate/billing/internal/errors"
)

// InMemoryPriceStore implements price.Repository, keyed by the provider
// price id.
type InMemoryPriceStore struct {
	*InMemoryStore[*price.Price]

	Writes int
}

func NewInMemoryPriceStore() *InMemoryPriceStore {
	return &InMemoryPriceStore{
		InMemoryStore: NewInMemoryStore[*price.Price](),
	}
}

func (s *InMemoryPriceStore) Upsert(ctx context.Context, p *price.Price) (bool, error) {
	s.Writes++

	existing, err := s.Get(ctx, p.StripePriceID)
	if err != nil {
		s.Set(ctx, p.StripePriceID, p)
		return true, nil
	}

	updated := *p
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	s.Set(ctx, p.StripePriceID, &updated)
	return false, nil
}

func (s *InMemoryPriceStore) GetByStripeID(ctx context.Context, stripePriceID string) (*price.Price, error) {
	p, err := s.Get(ctx, stripePriceID)
	if err != nil {
		return nil, ierr.NewError("price not found").
			WithHintf("No price mirrored for stripe price %s", stripePriceID).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPriceStore) List(ctx context.Context) ([]*price.Price, error) {
	return s.InMemoryStore.List(ctx, nil, nil, func(i, j *price.Price) bool {
		return i.StripePriceID < j.StripePriceID
	})
}

func (s *InMemoryPriceStore) DeactivateMissing(ctx context.Context, presentIDs []string) (int, error) {
	present := make(map[string]bool, len(presentIDs))
	for _, id := range presentIDs {
		present[id] = true
	}

	all, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	deactivated := 0
	for _, p := range all {
		if p.Active && !present[p.StripePriceID] {
			p.Active = false
			s.Set(ctx, p.StripePriceID, p)
			deactivated++
		}
	}
	return deactivated, nil
}
