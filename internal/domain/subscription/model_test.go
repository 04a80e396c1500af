package subscription

import (
	"testing"
	"time"

	"github.com/nextplate/billing/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

func TestFromStripe(t *testing.T) {
	sub := &stripe.Subscription{
		ID:                "sub_123",
		Status:            stripe.SubscriptionStatusActive,
		Customer:          &stripe.Customer{ID: "cus_123"},
		CancelAtPeriodEnd: true,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					ID:                 "si_1",
					CurrentPeriodStart: 1700000000,
					CurrentPeriodEnd:   1702592000,
					Price:              &stripe.Price{ID: "price_1"},
				},
				{
					ID:                 "si_2",
					CurrentPeriodStart: 1700100000,
					CurrentPeriodEnd:   1703000000,
					Price:              &stripe.Price{ID: "price_2"},
				},
			},
		},
	}

	local := FromStripe(sub, "user_1")

	assert.Equal(t, "user_1", local.UserID)
	assert.Equal(t, "sub_123", local.StripeSubscriptionID)
	assert.Equal(t, "cus_123", local.StripeCustomerID)
	assert.Equal(t, types.SubscriptionStatusActive, local.Status)
	assert.True(t, local.CancelAtPeriodEnd)
	assert.Nil(t, local.CanceledAt)

	// Primary price comes from the first item
	assert.Equal(t, "price_1", local.PriceID)

	// Period bounds span all items
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), local.CurrentPeriodStart)
	assert.Equal(t, time.Unix(1703000000, 0).UTC(), local.CurrentPeriodEnd)
}

func TestFromStripeCanceled(t *testing.T) {
	sub := &stripe.Subscription{
		ID:         "sub_123",
		Status:     stripe.SubscriptionStatusCanceled,
		CanceledAt: 1701000000,
	}

	local := FromStripe(sub, "user_1")

	assert.Equal(t, types.SubscriptionStatusCanceled, local.Status)
	assert.NotNil(t, local.CanceledAt)
	assert.Equal(t, time.Unix(1701000000, 0).UTC(), *local.CanceledAt)
	assert.True(t, local.Status.IsTerminal())
	assert.True(t, local.CurrentPeriodStart.IsZero())
}

func TestItemFromStripe(t *testing.T) {
	item := &stripe.SubscriptionItem{
		ID:       "si_1",
		Quantity: 3,
		Price:    &stripe.Price{ID: "price_1"},
	}

	local := ItemFromStripe(item, "local_sub")

	assert.Equal(t, "local_sub", local.SubscriptionID)
	assert.Equal(t, "si_1", local.StripeItemID)
	assert.Equal(t, "price_1", local.StripePriceID)
	assert.Equal(t, int64(3), local.Quantity)
}
