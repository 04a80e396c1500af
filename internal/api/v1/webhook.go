package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/nextplate/billing/internal/errors"
	stripeclient "github.com/nextplate/billing/internal/integration/stripe"
	"github.com/nextplate/billing/internal/integration/stripe/webhook"
	"github.com/nextplate/billing/internal/logger"
)

// WebhookHandler receives Stripe webhook deliveries. A 200 response
// acknowledges the event; anything else makes Stripe retry the delivery.
type WebhookHandler struct {
	client  *stripeclient.Client
	handler *webhook.Handler
	logger  *logger.Logger
}

func NewWebhookHandler(client *stripeclient.Client, handler *webhook.Handler, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// @Summary Handle Stripe webhook
// @Description Verify and process a Stripe webhook delivery
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/stripe/webhook [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Errorw("failed to read webhook payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	event, err := h.client.ParseWebhookEvent(payload, signature)
	if err != nil {
		h.logger.Warnw("rejected webhook delivery", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook verification failed"})
		return
	}

	if err := h.handler.HandleEvent(c.Request.Context(), event); err != nil {
		h.logger.Errorw("webhook processing failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err,
		)
		if ierr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Non-2xx makes Stripe retry the delivery later
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
