package product

import (
	"github.com/nextplate/billing/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// Product mirrors a sellable item from the payment provider. The provider is
// the source of truth; every sync pass overwrites local fields from the
// provider's current state.
type Product struct {
	// ID is the unique identifier for the product in our system
	ID string `db:"id" json:"id"`

	// StripeProductID is the provider-side identifier and the upsert key
	StripeProductID string `db:"stripe_product_id" json:"stripe_product_id"`

	// Name is the display name of the product
	Name string `db:"name" json:"name"`

	// Description is the provider-side product description
	Description string `db:"description" json:"description"`

	// Active mirrors the provider's active flag. Products absent from the
	// provider's listing are deactivated, never deleted.
	Active bool `db:"active" json:"active"`

	// Metadata holds the provider's free-form product metadata
	Metadata types.Metadata `db:"metadata" json:"metadata"`

	types.BaseModel
}

// FromStripe builds a local product from the provider's representation
func FromStripe(p *stripe.Product) *Product {
	metadata := make(types.Metadata, len(p.Metadata))
	for k, v := range p.Metadata {
		metadata[k] = v
	}

	return &Product{
		ID:              types.GenerateUUIDWithPrefix(types.UUIDPrefixProduct),
		StripeProductID: p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Active:          p.Active,
		Metadata:        metadata,
		BaseModel:       types.GetDefaultBaseModel(),
	}
}
