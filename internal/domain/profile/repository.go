package profile

import (
	"context"
)

type Repository interface {
	// Get retrieves a profile by local user id
	Get(ctx context.Context, id string) (*Profile, error)

	// GetByStripeCustomerID retrieves the profile holding the given provider
	// customer id. Used by the user resolver fallback chain.
	GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*Profile, error)

	// UpdateStripeCustomerID stores the provider customer id on an existing
	// profile
	UpdateStripeCustomerID(ctx context.Context, id string, stripeCustomerID string) error
}
