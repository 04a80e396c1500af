package stripe

import (
	"context"

	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/stripe/stripe-go/v82"
)

// Provider is the read surface of the payment provider used by the sync
// services. Stripe remains the source of truth; nothing here mutates
// provider state.
type Provider interface {
	// GetSubscription retrieves a subscription with its customer, items and
	// item products expanded
	GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)

	// GetCustomer retrieves a customer by provider id
	GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error)

	// ListProducts returns every product, active and inactive
	ListProducts(ctx context.Context) ([]*stripe.Product, error)

	// ListPrices returns every price, active and inactive
	ListPrices(ctx context.Context) ([]*stripe.Price, error)
}

func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionRetrieveParams{
		Expand: []*string{
			stripe.String("customer"),
			stripe.String("items.data.price.product"),
			stripe.String("default_payment_method"),
		},
	}

	sub, err := c.api.V1Subscriptions.Retrieve(ctx, subscriptionID, params)
	if err != nil {
		c.logger.Errorw("failed to retrieve subscription from stripe",
			"error", err,
			"subscription_id", subscriptionID,
		)
		return nil, ierr.WithError(err).
			WithHint("Could not fetch subscription from Stripe").
			WithReportableDetails(map[string]interface{}{
				"subscription_id": subscriptionID,
			}).
			Mark(ierr.ErrSystem)
	}

	return sub, nil
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	cust, err := c.api.V1Customers.Retrieve(ctx, customerID, nil)
	if err != nil {
		c.logger.Errorw("failed to retrieve customer from stripe",
			"error", err,
			"customer_id", customerID,
		)
		return nil, ierr.WithError(err).
			WithHint("Could not fetch customer from Stripe").
			WithReportableDetails(map[string]interface{}{
				"customer_id": customerID,
			}).
			Mark(ierr.ErrSystem)
	}

	return cust, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]*stripe.Product, error) {
	params := &stripe.ProductListParams{}
	params.Limit = stripe.Int64(100)

	var products []*stripe.Product
	for product, err := range c.api.V1Products.List(ctx, params) {
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Could not list products from Stripe").
				Mark(ierr.ErrSystem)
		}
		if product == nil {
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

func (c *Client) ListPrices(ctx context.Context) ([]*stripe.Price, error) {
	params := &stripe.PriceListParams{}
	params.Limit = stripe.Int64(100)

	var prices []*stripe.Price
	for price, err := range c.api.V1Prices.List(ctx, params) {
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Could not list prices from Stripe").
				Mark(ierr.ErrSystem)
		}
		if price == nil {
			continue
		}
		prices = append(prices, price)
	}

	return prices, nil
}
