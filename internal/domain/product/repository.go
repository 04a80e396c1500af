package product

import (
	"context"
)

type Repository interface {
	// Upsert writes the product keyed on its stripe product id and reports
	// whether a new row was created
	Upsert(ctx context.Context, product *Product) (created bool, err error)

	// GetByStripeID retrieves a product by its provider identifier
	GetByStripeID(ctx context.Context, stripeProductID string) (*Product, error)

	// List returns all mirrored products
	List(ctx context.Context) ([]*Product, error)

	// DeactivateMissing flips active to false on every active row whose
	// stripe product id is not in presentIDs. Returns the number of rows
	// deactivated.
	DeactivateMissing(ctx context.Context, presentIDs []string) (int, error)
}
