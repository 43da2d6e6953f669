package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/service"
)

// SignatureHeader carries the payment processor's payload signature
const SignatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	ingestion service.IngestionService
	log       *logger.Logger
}

func NewWebhookHandler(ingestion service.IngestionService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{ingestion: ingestion, log: log}
}

// @Summary Ingest a payment event
// @Description Verify and process one payment processor event, exactly once per event id
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Payload signature"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.log.Error("Failed to read webhook payload", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Failed to read request payload").
			Mark(ierr.ErrValidation))
		return
	}

	signature := c.GetHeader(SignatureHeader)
	result, err := h.ingestion.ProcessEvent(c.Request.Context(), payload, signature)
	if err != nil {
		h.log.Error("Failed to process payment event", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": true,
		"result":   result,
	})
}
