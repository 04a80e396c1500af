package profile

import (
	"github.com/nextplate/billing/internal/types"
)

// Profile is the local user record. The sync process only ever updates the
// stored provider customer id on existing rows; profiles are created by the
// auth flow, not by billing.
type Profile struct {
	// ID is the local user id
	ID string `db:"id" json:"id"`

	// Email is the user's email address
	Email string `db:"email" json:"email"`

	// StripeCustomerID is the provider customer this user maps to, once known
	StripeCustomerID *string `db:"stripe_customer_id" json:"stripe_customer_id"`

	types.BaseModel
}
