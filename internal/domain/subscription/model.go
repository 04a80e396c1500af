package subscription

import (
	"time"

	"github.com/nextplate/billing/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// Subscription mirrors a provider subscription. Exactly one local row exists
// per stripe subscription id; synchronization is an upsert keyed on that id.
type Subscription struct {
	// ID is the unique identifier for the subscription in our system
	ID string `db:"id" json:"id"`

	// UserID is the local user that owns the subscription
	UserID string `db:"user_id" json:"user_id"`

	// StripeCustomerID is the provider-side customer identifier
	StripeCustomerID string `db:"stripe_customer_id" json:"stripe_customer_id"`

	// StripeSubscriptionID is the provider-side identifier and the upsert key
	StripeSubscriptionID string `db:"stripe_subscription_id" json:"stripe_subscription_id"`

	// PriceID is the provider price id of the subscription's primary item
	PriceID string `db:"price_id" json:"price_id"`

	// Status is the provider-reported subscription status
	Status types.SubscriptionStatus `db:"status" json:"status"`

	// CurrentPeriodStart is the start of the period the subscription has
	// been invoiced for
	CurrentPeriodStart time.Time `db:"current_period_start" json:"current_period_start"`

	// CurrentPeriodEnd is the end of the period the subscription has been
	// invoiced for
	CurrentPeriodEnd time.Time `db:"current_period_end" json:"current_period_end"`

	// CancelAtPeriodEnd is whether the subscription will cancel at the end
	// of the current period
	CancelAtPeriodEnd bool `db:"cancel_at_period_end" json:"cancel_at_period_end"`

	// CanceledAt is the date the subscription was canceled, if it was
	CanceledAt *time.Time `db:"canceled_at" json:"canceled_at"`

	types.BaseModel
}

// SubscriptionItem is a line item of a subscription, upserted by its
// provider item id like its parent.
type SubscriptionItem struct {
	// ID is the unique identifier for the item in our system
	ID string `db:"id" json:"id"`

	// SubscriptionID references the local subscription row
	SubscriptionID string `db:"subscription_id" json:"subscription_id"`

	// StripeItemID is the provider-side identifier and the upsert key
	StripeItemID string `db:"stripe_item_id" json:"stripe_item_id"`

	// StripePriceID is the provider price the item bills
	StripePriceID string `db:"stripe_price_id" json:"stripe_price_id"`

	// Quantity is the billed quantity for the item
	Quantity int64 `db:"quantity" json:"quantity"`

	types.BaseModel
}

// FromStripe builds a local subscription from the provider's representation.
// userID is the resolved local owner. Period bounds live on the line items in
// the provider's API, so the subscription level bounds are the earliest item
// start and the latest item end.
func FromStripe(sub *stripe.Subscription, userID string) *Subscription {
	s := &Subscription{
		ID:                   types.GenerateUUIDWithPrefix(types.UUIDPrefixSubscription),
		UserID:               userID,
		StripeSubscriptionID: sub.ID,
		Status:               types.SubscriptionStatus(sub.Status),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		BaseModel:            types.GetDefaultBaseModel(),
	}

	if sub.Customer != nil {
		s.StripeCustomerID = sub.Customer.ID
	}

	if sub.CanceledAt > 0 {
		canceledAt := time.Unix(sub.CanceledAt, 0).UTC()
		s.CanceledAt = &canceledAt
	}

	if sub.Items != nil && len(sub.Items.Data) > 0 {
		first := sub.Items.Data[0]
		if first.Price != nil {
			s.PriceID = first.Price.ID
		}
		s.CurrentPeriodStart, s.CurrentPeriodEnd = periodBounds(sub.Items.Data)
	}

	return s
}

// ItemFromStripe builds a local line item from the provider's representation.
// subscriptionID is the local subscription row id.
func ItemFromStripe(item *stripe.SubscriptionItem, subscriptionID string) *SubscriptionItem {
	it := &SubscriptionItem{
		ID:             types.GenerateUUIDWithPrefix(types.UUIDPrefixSubscriptionItem),
		SubscriptionID: subscriptionID,
		StripeItemID:   item.ID,
		Quantity:       item.Quantity,
		BaseModel:      types.GetDefaultBaseModel(),
	}

	if item.Price != nil {
		it.StripePriceID = item.Price.ID
	}

	return it
}

func periodBounds(items []*stripe.SubscriptionItem) (start, end time.Time) {
	var minStart, maxEnd int64
	for _, item := range items {
		if item.CurrentPeriodStart > 0 && (minStart == 0 || item.CurrentPeriodStart < minStart) {
			minStart = item.CurrentPeriodStart
		}
		if item.CurrentPeriodEnd > maxEnd {
			maxEnd = item.CurrentPeriodEnd
		}
	}
	if minStart > 0 {
		start = time.Unix(minStart, 0).UTC()
	}
	if maxEnd > 0 {
		end = time.Unix(maxEnd, 0).UTC()
	}
	return start, end
}
