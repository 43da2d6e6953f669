package stripe

import (
	"encoding/json"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	ierr "github.com/octavehouse/storefront/internal/errors"
)

// ParseWebhookEvent verifies the inbound payload against the shared webhook
// secret and returns the decoded event. A bad or missing signature is a
// signature error, never a server error.
func (c *Client) ParseWebhookEvent(payload []byte, signature string) (*stripe.Event, error) {
	secret := c.cfg.Payment.WebhookSecret
	if secret == "" {
		return nil, ierr.NewError("webhook secret is not configured").
			WithHint("Webhook signature verification is not configured").
			Mark(ierr.ErrSystem)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		c.logger.Warnw("webhook signature verification failed", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Webhook signature verification failed").
			Mark(ierr.ErrSignature)
	}
	return &event, nil
}

// ExtractCheckoutSession decodes the checkout session carried by an event
func ExtractCheckoutSession(event *stripe.Event) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The event payload is not a checkout session").
			WithReportableDetails(map[string]any{"event_id": event.ID}).
			Mark(ierr.ErrValidation)
	}
	return &session, nil
}
