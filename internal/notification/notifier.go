// Package notification posts order confirmations to the fulfillment
// notification collaborator. Delivery is best effort: failures are logged and
// never fail event processing.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/octavehouse/storefront/internal/config"
	"github.com/octavehouse/storefront/internal/domain/order"
	"github.com/octavehouse/storefront/internal/logger"
)

// Notifier delivers order confirmation notifications
type Notifier interface {
	OrderConfirmed(ctx context.Context, o *order.Order)
}

type httpNotifier struct {
	client   *retryablehttp.Client
	endpoint string
	enabled  bool
	logger   *logger.Logger
}

// NewNotifier builds the HTTP notifier
func NewNotifier(cfg *config.Configuration, log *logger.Logger) Notifier {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = cfg.Notification.Timeout
	client.Logger = nil

	return &httpNotifier{
		client:   client,
		endpoint: cfg.Notification.Endpoint,
		enabled:  cfg.Notification.Enabled && cfg.Notification.Endpoint != "",
		logger:   log,
	}
}

type orderConfirmedPayload struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	CustomerEmail string `json:"customer_email"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
}

func (n *httpNotifier) OrderConfirmed(ctx context.Context, o *order.Order) {
	if !n.enabled {
		return
	}

	payload, err := json.Marshal(orderConfirmedPayload{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total.String(),
		Currency:      o.Currency,
	})
	if err != nil {
		n.logger.Errorw("failed to marshal order notification", "error", err, "order_id", o.ID)
		return
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		n.logger.Errorw("failed to build order notification request", "error", err, "order_id", o.ID)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Errorw("order notification delivery failed", "error", err, "order_id", o.ID)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		n.logger.Errorw("order notification rejected",
			"status", resp.StatusCode,
			"order_id", o.ID,
		)
		return
	}

	n.logger.Infow("order notification delivered", "order_id", o.ID, "order_number", o.OrderNumber)
}
