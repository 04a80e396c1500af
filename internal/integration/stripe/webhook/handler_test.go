package webhook

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nextplate/billing/internal/logger"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
)

type recordingSyncService struct {
	synced []string
	err    error
}

func (r *recordingSyncService) SyncSubscription(ctx context.Context, stripeSubscriptionID string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.synced = append(r.synced, stripeSubscriptionID)
	return "local_" + stripeSubscriptionID, nil
}

type HandlerSuite struct {
	suite.Suite
	sync    *recordingSyncService
	handler *Handler
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.sync = &recordingSyncService{}
	s.handler = NewHandler(s.sync, logger.NewNop())
}

func event(eventType string, object interface{}) *stripe.Event {
	raw, _ := json.Marshal(object)
	return &stripe.Event{
		ID:   "evt_1",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func (s *HandlerSuite) TestSubscriptionEventTriggersSync() {
	err := s.handler.HandleEvent(context.Background(), event(
		"customer.subscription.updated",
		map[string]interface{}{"id": "sub_123"},
	))
	s.NoError(err)
	s.Equal([]string{"sub_123"}, s.sync.synced)
}

func (s *HandlerSuite) TestCheckoutSessionTriggersSync() {
	err := s.handler.HandleEvent(context.Background(), event(
		"checkout.session.completed",
		map[string]interface{}{
			"id":           "cs_1",
			"mode":         "subscription",
			"subscription": "sub_456",
		},
	))
	s.NoError(err)
	s.Equal([]string{"sub_456"}, s.sync.synced)
}

func (s *HandlerSuite) TestPaymentModeCheckoutSessionIsSkipped() {
	err := s.handler.HandleEvent(context.Background(), event(
		"checkout.session.completed",
		map[string]interface{}{
			"id":   "cs_2",
			"mode": "payment",
		},
	))
	s.NoError(err)
	s.Empty(s.sync.synced)
}

func (s *HandlerSuite) TestInvoiceEventTriggersSync() {
	err := s.handler.HandleEvent(context.Background(), event(
		"invoice.payment_succeeded",
		map[string]interface{}{
			"id": "in_1",
			"parent": map[string]interface{}{
				"subscription_details": map[string]interface{}{
					"subscription": "sub_789",
				},
			},
		},
	))
	s.NoError(err)
	s.Equal([]string{"sub_789"}, s.sync.synced)
}

func (s *HandlerSuite) TestOneTimeInvoiceIsSkipped() {
	err := s.handler.HandleEvent(context.Background(), event(
		"invoice.payment_succeeded",
		map[string]interface{}{"id": "in_2"},
	))
	s.NoError(err)
	s.Empty(s.sync.synced)
}

func (s *HandlerSuite) TestUnhandledEventTypeIsAcknowledged() {
	err := s.handler.HandleEvent(context.Background(), event(
		"customer.created",
		map[string]interface{}{"id": "cus_1"},
	))
	s.NoError(err)
	s.Empty(s.sync.synced)
}

func (s *HandlerSuite) TestSyncErrorPropagates() {
	s.sync.err = context.DeadlineExceeded

	err := s.handler.HandleEvent(context.Background(), event(
		"customer.subscription.created",
		map[string]interface{}{"id": "sub_err"},
	))
	s.Error(err)
}
