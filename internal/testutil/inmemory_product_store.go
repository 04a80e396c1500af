package testutil

import (
	"context"

	"github.com/nextplate/billing/internal/domain/product"
	ierr "github.com/nextplate/billing/internal/errors"
)

// InMemoryProductStore implements product.Repository, keyed by the provider
// product id the way the real table's unique index is.
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]

	// Writes counts upsert calls, useful for asserting side effect free paths
	Writes int
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

func (s *InMemoryProductStore) Upsert(ctx context.Context, p *product.Product) (bool, error) {
	s.Writes++

	existing, err := s.Get(ctx, p.StripeProductID)
	if err != nil {
		s.Set(ctx, p.StripeProductID, p)
		return true, nil
	}

	// Keep the original local row identity on update
	updated := *p
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	s.Set(ctx, p.StripeProductID, &updated)
	return false, nil
}

func (s *InMemoryProductStore) GetByStripeID(ctx context.Context, stripeProductID string) (*product.Product, error) {
	p, err := s.Get(ctx, stripeProductID)
	if err != nil {
		return nil, ierr.NewError("product not found").
			WithHintf("No product mirrored for stripe product %s", stripeProductID).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryProductStore) List(ctx context.Context) ([]*product.Product, error) {
	return s.InMemoryStore.List(ctx, nil, nil, func(i, j *product.Product) bool {
		return i.StripeProductID < j.StripeProductID
	})
}

func (s *InMemoryProductStore) DeactivateMissing(ctx context.Context, presentIDs []string) (int, error) {
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
		if p.Active && !present[p.StripeProductID] {
			p.Active = false
			s.Set(ctx, p.StripeProductID, p)
			deactivated++
		}
	}
	return deactivated, nil
}
