package v1

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nextplate/billing/internal/config"
	"github.com/nextplate/billing/internal/domain/profile"
	stripeclient "github.com/nextplate/billing/internal/integration/stripe"
	"github.com/nextplate/billing/internal/integration/stripe/webhook"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/service"
	"github.com/nextplate/billing/internal/testutil"
	"github.com/nextplate/billing/internal/types"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
)

type WebhookHandlerSuite struct {
	suite.Suite
	config   *config.Configuration
	provider *testutil.FakeProvider
	stores   testutil.Stores
	router   *gin.Engine
}

func TestWebhookHandler(t *testing.T) {
	suite.Run(t, new(WebhookHandlerSuite))
}

func (s *WebhookHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	s.config = config.GetDefaultConfig()
	s.provider = testutil.NewFakeProvider()
	s.stores = testutil.Stores{
		ProductRepo:      testutil.NewInMemoryProductStore(),
		PriceRepo:        testutil.NewInMemoryPriceStore(),
		SubscriptionRepo: testutil.NewInMemorySubscriptionStore(),
		ProfileRepo:      testutil.NewInMemoryProfileStore(),
	}

	params := service.ServiceParams{
		Logger:      log,
		Config:      s.config,
		DB:          testutil.PassthroughTx{},
		Provider:    s.provider,
		ProductRepo: s.stores.ProductRepo,
		PriceRepo:   s.stores.PriceRepo,
		SubRepo:     s.stores.SubscriptionRepo,
		ProfileRepo: s.stores.ProfileRepo,
	}

	client := stripeclient.NewClient(s.config, log)
	syncService := service.NewSubscriptionSyncService(params, service.NewUserResolver(params))
	handler := NewWebhookHandler(client, webhook.NewHandler(syncService, log), log)

	s.router = gin.New()
	s.router.POST("/api/stripe/webhook", handler.HandleStripeWebhook)
}

func (s *WebhookHandlerSuite) sign(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(s.config.Stripe.WebhookSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func (s *WebhookHandlerSuite) post(payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *WebhookHandlerSuite) seedSubscription() {
	s.provider.Subscriptions["sub_123"] = &stripe.Subscription{
		ID:       "sub_123",
		Status:   stripe.SubscriptionStatusActive,
		Customer: &stripe.Customer{ID: "cus_123"},
		Metadata: map[string]string{types.MetadataKeyUserID: "user_1"},
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					ID:                 "si_1",
					Quantity:           1,
					CurrentPeriodStart: 1700000000,
					CurrentPeriodEnd:   1702592000,
					Price:              &stripe.Price{ID: "price_1"},
				},
			},
		},
	}
	s.stores.ProfileRepo.Set(context.Background(), "user_1", &profile.Profile{
		ID:        "user_1",
		Email:     "user_1@example.com",
		BaseModel: types.GetDefaultBaseModel(),
	})
}

func subscriptionEventPayload(eventType, subscriptionID string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":"evt_1","type":"%s","data":{"object":{"id":"%s"}}}`,
		eventType, subscriptionID,
	))
}

func (s *WebhookHandlerSuite) TestMissingSignatureIsRejected() {
	payload := subscriptionEventPayload("customer.subscription.created", "sub_123")

	w := s.post(payload, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Zero(s.stores.SubscriptionRepo.Writes)
}

func (s *WebhookHandlerSuite) TestInvalidSignatureIsRejected() {
	payload := subscriptionEventPayload("customer.subscription.created", "sub_123")

	w := s.post(payload, "t=12345,v1=deadbeef")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Zero(s.stores.SubscriptionRepo.Writes)
}

func (s *WebhookHandlerSuite) TestTamperedPayloadIsRejected() {
	payload := subscriptionEventPayload("customer.subscription.created", "sub_123")
	signature := s.sign(payload)

	tampered := subscriptionEventPayload("customer.subscription.created", "sub_999")
	w := s.post(tampered, signature)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Zero(s.stores.SubscriptionRepo.Writes)
}

func (s *WebhookHandlerSuite) TestValidEventIsProcessed() {
	s.seedSubscription()
	payload := subscriptionEventPayload("customer.subscription.created", "sub_123")

	w := s.post(payload, s.sign(payload))
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"received": true}`, w.Body.String())

	stored, err := s.stores.SubscriptionRepo.GetByStripeID(context.Background(), "sub_123")
	s.NoError(err)
	s.Equal("user_1", stored.UserID)
}

func (s *WebhookHandlerSuite) TestProcessingFailureReturns500() {
	// Signature is valid but the provider has no such subscription, so the
	// sync fails and Stripe should retry the delivery
	payload := subscriptionEventPayload("customer.subscription.created", "sub_unknown")

	w := s.post(payload, s.sign(payload))
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *WebhookHandlerSuite) TestUnhandledEventTypeIsAcknowledged() {
	payload := []byte(`{"id":"evt_2","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)

	w := s.post(payload, s.sign(payload))
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"received": true}`, w.Body.String())
	s.Zero(s.stores.SubscriptionRepo.Writes)
}
