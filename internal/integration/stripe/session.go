package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"

	ierr "github.com/octavehouse/storefront/internal/errors"
)

// MetadataCartKey is the session metadata key carrying the authoritative cart
const MetadataCartKey = "cart"

// CartLine is the cart position format stored in session metadata. The
// metadata copy is authoritative for fulfillment so processing never depends
// on re-expanding the processor's line items.
type CartLine struct {
	ModelID   int    `json:"model_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// CreateCheckoutSession creates a hosted checkout session for the cart. The
// cart is serialized into session metadata so the completed event carries
// everything fulfillment needs.
func (c *Client) CreateCheckoutSession(ctx context.Context, email string, lines []CartLine) (*stripe.CheckoutSession, error) {
	stripeClient, err := c.GetStripeClient()
	if err != nil {
		return nil, err
	}

	currency := c.cfg.Payment.Currency
	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(lines)+1)
	for _, line := range lines {
		unitPrice, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return nil, ierr.NewError("invalid unit price").
				WithHint("Line unit price is not a valid amount").
				WithReportableDetails(map[string]any{"model_id": line.ModelID}).
				Mark(ierr.ErrValidation)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("Model %d / %s", line.ModelID, line.Size)),
				},
				UnitAmount: stripe.Int64(unitPrice.Shift(2).IntPart()),
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	if c.cfg.Payment.ShippingFlatRate > 0 {
		shipping := decimal.NewFromFloat(c.cfg.Payment.ShippingFlatRate)
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String("Shipping"),
				},
				UnitAmount: stripe.Int64(shipping.Shift(2).IntPart()),
			},
			Quantity: stripe.Int64(1),
		})
	}

	cartJSON, err := json.Marshal(lines)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to serialize cart").
			Mark(ierr.ErrSystem)
	}

	params := &stripe.CheckoutSessionCreateParams{
		LineItems:     lineItems,
		Mode:          stripe.String("payment"),
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(c.cfg.Payment.SuccessURL),
		CancelURL:     stripe.String(c.cfg.Payment.CancelURL),
		Metadata: map[string]string{
			MetadataCartKey: string(cartJSON),
		},
	}

	session, err := stripeClient.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		c.logger.Errorw("failed to create checkout session", "error", err)
		return nil, ierr.NewError("failed to create checkout session").
			WithHint("Unable to create payment session").
			WithReportableDetails(map[string]any{"error": err.Error()}).
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Infow("checkout session created", "session_id", session.ID)
	return session, nil
}

// ParseCart decodes the cart stored in session metadata
func ParseCart(session *stripe.CheckoutSession) ([]CartLine, error) {
	raw, ok := session.Metadata[MetadataCartKey]
	if !ok || raw == "" {
		return nil, ierr.NewError("session has no cart metadata").
			WithHint("The payment session does not carry a cart").
			WithReportableDetails(map[string]any{"session_id": session.ID}).
			Mark(ierr.ErrValidation)
	}
	var lines []CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The session cart metadata is malformed").
			WithReportableDetails(map[string]any{"session_id": session.ID}).
			Mark(ierr.ErrValidation)
	}
	if len(lines) == 0 {
		return nil, ierr.NewError("session cart is empty").
			WithHint("The payment session carries an empty cart").
			WithReportableDetails(map[string]any{"session_id": session.ID}).
			Mark(ierr.ErrValidation)
	}
	return lines, nil
}
