package price

import (
	"github.com/nextplate/billing/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// Price mirrors a billing price from the payment provider. A price always
// references a locally mirrored product; prices whose product is unknown are
// skipped by the sync, not written.
type Price struct {
	// ID is the unique identifier for the price in our system
	ID string `db:"id" json:"id"`

	// StripePriceID is the provider-side identifier and the upsert key
	StripePriceID string `db:"stripe_price_id" json:"stripe_price_id"`

	// ProductID references the local product row
	ProductID string `db:"product_id" json:"product_id"`

	// Currency is the lowercase 3 letter ISO currency code
	Currency string `db:"currency" json:"currency"`

	// UnitAmount is the price amount in the currency's minor unit
	UnitAmount int64 `db:"unit_amount" json:"unit_amount"`

	// Interval is the recurrence interval (day, week, month, year)
	Interval string `db:"recurring_interval" json:"interval"`

	// IntervalCount is the number of intervals between billings
	IntervalCount int64 `db:"recurring_interval_count" json:"interval_count"`

	// TrialPeriodDays is the provider-configured trial length, if any
	TrialPeriodDays *int64 `db:"trial_period_days" json:"trial_period_days"`

	// Active mirrors the provider's active flag
	Active bool `db:"active" json:"active"`

	// Metadata holds the provider's free-form price metadata
	Metadata types.Metadata `db:"metadata" json:"metadata"`

	types.BaseModel
}

// FromStripe builds a local price from the provider's representation.
// productID is the local product row id the price belongs to.
func FromStripe(p *stripe.Price, productID string) *Price {
	metadata := make(types.Metadata, len(p.Metadata))
	for k, v := range p.Metadata {
		metadata[k] = v
	}

	price := &Price{
		ID:            types.GenerateUUIDWithPrefix(types.UUIDPrefixPrice),
		StripePriceID: p.ID,
		ProductID:     productID,
		Currency:      string(p.Currency),
		UnitAmount:    p.UnitAmount,
		Active:        p.Active,
		Metadata:      metadata,
		BaseModel:     types.GetDefaultBaseModel(),
	}

	if p.Recurring != nil {
		price.Interval = string(p.Recurring.Interval)
		price.IntervalCount = p.Recurring.IntervalCount
		if p.Recurring.TrialPeriodDays > 0 {
			trialDays := p.Recurring.TrialPeriodDays
			price.TrialPeriodDays = &trialDays
		}
	}

	return price
}
