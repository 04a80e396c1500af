package webhook

import (
	"context"
	"encoding/json"

	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/service"
	"github.com/nextplate/billing/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// Handler dispatches verified Stripe events to the sync services. Every
// handled event funnels into the same subscription sync path, so replays
// and out of order deliveries converge on the provider's current state.
type Handler struct {
	subscriptionSync service.SubscriptionSyncService
	logger           *logger.Logger
}

func NewHandler(subscriptionSync service.SubscriptionSyncService, logger *logger.Logger) *Handler {
	return &Handler{
		subscriptionSync: subscriptionSync,
		logger:           logger,
	}
}

// HandleEvent processes a single webhook event. Event types outside the
// handled set are acknowledged without side effects.
func (h *Handler) HandleEvent(ctx context.Context, event *stripe.Event) error {
	h.logger.Infow("processing webhook event",
		"event_id", event.ID,
		"event_type", event.Type,
	)

	switch types.WebhookEventType(event.Type) {
	case types.WebhookEventTypeCheckoutSessionCompleted:
		return h.handleCheckoutSessionCompleted(ctx, event)
	case types.WebhookEventTypeCustomerSubscriptionCreated,
		types.WebhookEventTypeCustomerSubscriptionUpdated,
		types.WebhookEventTypeCustomerSubscriptionDeleted:
		return h.handleSubscriptionEvent(ctx, event)
	case types.WebhookEventTypeInvoicePaymentSucceeded,
		types.WebhookEventTypeInvoicePaymentFailed:
		return h.handleInvoiceEvent(ctx, event)
	default:
		h.logger.Debugw("ignoring unhandled webhook event type",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return nil
	}
}

func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, event *stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to parse checkout session payload").
			Mark(ierr.ErrValidation)
	}

	if session.Mode != stripe.CheckoutSessionModeSubscription || session.Subscription == nil {
		h.logger.Debugw("checkout session is not a subscription purchase, skipping",
			"event_id", event.ID,
			"session_id", session.ID,
			"mode", session.Mode,
		)
		return nil
	}

	_, err := h.subscriptionSync.SyncSubscription(ctx, session.Subscription.ID)
	return err
}

func (h *Handler) handleSubscriptionEvent(ctx context.Context, event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to parse subscription payload").
			Mark(ierr.ErrValidation)
	}

	_, err := h.subscriptionSync.SyncSubscription(ctx, sub.ID)
	return err
}

func (h *Handler) handleInvoiceEvent(ctx context.Context, event *stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to parse invoice payload").
			Mark(ierr.ErrValidation)
	}

	subscriptionID := invoiceSubscriptionID(&inv)
	if subscriptionID == "" {
		// One time invoices carry no subscription to sync
		h.logger.Debugw("invoice has no subscription, skipping",
			"event_id", event.ID,
			"invoice_id", inv.ID,
		)
		return nil
	}

	_, err := h.subscriptionSync.SyncSubscription(ctx, subscriptionID)
	return err
}

func invoiceSubscriptionID(inv *stripe.Invoice) string {
	if inv.Parent == nil || inv.Parent.SubscriptionDetails == nil {
		return ""
	}
	if inv.Parent.SubscriptionDetails.Subscription == nil {
		return ""
	}
	return inv.Parent.SubscriptionDetails.Subscription.ID
}
