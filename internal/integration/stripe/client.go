package stripe

import (
	"github.com/nextplate/billing/internal/config"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/logger"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Client handles Stripe API client setup and webhook verification
type Client struct {
	api           *stripe.Client
	webhookSecret string
	logger        *logger.Logger
}

// NewClient creates a new Stripe client from the application configuration
func NewClient(cfg *config.Configuration, logger *logger.Logger) *Client {
	return &Client{
		api:           stripe.NewClient(cfg.Stripe.SecretKey, nil),
		webhookSecret: cfg.Stripe.WebhookSecret,
		logger:        logger,
	}
}

// HasWebhookSecret reports whether a webhook signing secret is configured.
// Without it every webhook delivery must be rejected.
func (c *Client) HasWebhookSecret() bool {
	return c.webhookSecret != ""
}

// ParseWebhookEvent verifies the Stripe-Signature header against the
// configured signing secret and returns the decoded event
func (c *Client) ParseWebhookEvent(payload []byte, signature string) (*stripe.Event, error) {
	if !c.HasWebhookSecret() {
		return nil, ierr.NewError("webhook secret not configured").
			WithHint("Set the Stripe webhook signing secret to accept webhook deliveries").
			Mark(ierr.ErrValidation)
	}

	if signature == "" {
		return nil, ierr.NewError("missing webhook signature").
			WithHint("Stripe-Signature header is required").
			Mark(ierr.ErrValidation)
	}

	options := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, options)
	if err != nil {
		c.logger.Warnw("webhook signature verification failed", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Webhook signature verification failed").
			Mark(ierr.ErrValidation)
	}

	return &event, nil
}
