package price

import (
	"context"
)

type Repository interface {
	// Upsert writes the price keyed on its stripe price id and reports
	// whether a new row was created
	Upsert(ctx context.Context, price *Price) (created bool, err error)

	// GetByStripeID retrieves a price by its provider identifier
	GetByStripeID(ctx context.Context, stripePriceID string) (*Price, error)

	// List returns all mirrored prices
	List(ctx context.Context) ([]*Price, error)

	// DeactivateMissing flips active to false on every active row whose
	// stripe price id is not in presentIDs. Returns the number of rows
	// deactivated.
	DeactivateMissing(ctx context.Context, presentIDs []string) (int, error)
}
