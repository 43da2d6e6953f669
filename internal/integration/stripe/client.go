// Package stripe wraps the payment processor SDK: checkout session creation
// for the storefront and signature verified event parsing for the webhook.
package stripe

import (
	"github.com/stripe/stripe-go/v82"

	"github.com/octavehouse/storefront/internal/config"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
)

// Client holds the configured payment processor connection
type Client struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

func NewClient(cfg *config.Configuration, log *logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: log,
	}
}

// GetStripeClient returns the configured SDK client
func (c *Client) GetStripeClient() (*stripe.Client, error) {
	if c.cfg.Payment.APIKey == "" {
		return nil, ierr.NewError("payment processor is not configured").
			WithHint("Payment processor API key is missing").
			Mark(ierr.ErrSystem)
	}
	return stripe.NewClient(c.cfg.Payment.APIKey, nil), nil
}
