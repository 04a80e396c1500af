package testutil

import (
	"context"

	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/stripe/stripe-go/v82"
)

// FakeProvider is an in-memory stand-in for the Stripe read API. Call
// counters let tests assert which resolution or sync paths were exercised.
type FakeProvider struct {
	Subscriptions map[string]*stripe.Subscription
	Customers     map[string]*stripe.Customer
	Products      []*stripe.Product
	Prices        []*stripe.Price

	GetSubscriptionCalls int
	GetCustomerCalls     int
	ListProductsCalls    int
	ListPricesCalls      int

	// GetCustomerErr, when set, is returned by every GetCustomer call
	GetCustomerErr error
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Subscriptions: make(map[string]*stripe.Subscription),
		Customers:     make(map[string]*stripe.Customer),
	}
}

func (f *FakeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	f.GetSubscriptionCalls++

	sub, ok := f.Subscriptions[subscriptionID]
	if !ok {
		return nil, ierr.NewError("subscription not found on provider").
			WithHintf("No such subscription: %s", subscriptionID).
			Mark(ierr.ErrNotFound)
	}
	return sub, nil
}

func (f *FakeProvider) GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	f.GetCustomerCalls++

	if f.GetCustomerErr != nil {
		return nil, f.GetCustomerErr
	}

	cust, ok := f.Customers[customerID]
	if !ok {
		return nil, ierr.NewError("customer not found on provider").
			WithHintf("No such customer: %s", customerID).
			Mark(ierr.ErrNotFound)
	}
	return cust, nil
}

func (f *FakeProvider) ListProducts(ctx context.Context) ([]*stripe.Product, error) {
	f.ListProductsCalls++
	return f.Products, nil
}

func (f *FakeProvider) ListPrices(ctx context.Context) ([]*stripe.Price, error) {
	f.ListPricesCalls++
	return f.Prices, nil
}
