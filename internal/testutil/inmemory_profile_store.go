package testutil

import (
	"context"

	"github.com/nextplate/billing/internal/domain/profile"
	ierr "github.com/nextplate/billing/internal/errors"
)

// InMemoryProfileStore implements profile.Repository, keyed by the local
// user id.
type InMemoryProfileStore struct {
	*InMemoryStore[*profile.Profile]
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{
		InMemoryStore: NewInMemoryStore[*profile.Profile](),
	}
}

func (s *InMemoryProfileStore) Get(ctx context.Context, id string) (*profile.Profile, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("profile not found").
			WithHintf("No profile exists with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryProfileStore) GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*profile.Profile, error) {
	all, err := s.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.StripeCustomerID != nil && *p.StripeCustomerID == stripeCustomerID {
			return p, nil
		}
	}
	return nil, ierr.NewError("profile not found").
		WithHintf("No profile holds stripe customer %s", stripeCustomerID).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryProfileStore) UpdateStripeCustomerID(ctx context.Context, id string, stripeCustomerID string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	p.StripeCustomerID = &stripeCustomerID
	s.Set(ctx, id, p)
	return nil
}
