package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/octavehouse/storefront/internal/domain/order"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// OrderLineResponse is one purchased line on an order
type OrderLineResponse struct {
	ModelID   int             `json:"model_id"`
	Size      types.Size      `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID                 string                   `json:"id"`
	OrderNumber        string                   `json:"order_number"`
	CustomerEmail      string                   `json:"customer_email"`
	Lines              []OrderLineResponse      `json:"lines"`
	Subtotal           decimal.Decimal          `json:"subtotal"`
	ShippingCost       decimal.Decimal          `json:"shipping_cost"`
	Total              decimal.Decimal          `json:"total"`
	Currency           string                   `json:"currency"`
	Status             types.OrderStatus        `json:"status"`
	ConfirmationStatus types.ConfirmationStatus `json:"confirmation_status"`
	TrackingNumber     *string                  `json:"tracking_number,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// NewOrderResponse maps a domain order to its API view
func NewOrderResponse(o *order.Order) *OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ModelID:   l.ModelID,
			Size:      l.Size,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return &OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		CustomerEmail:      o.CustomerEmail,
		Lines:              lines,
		Subtotal:           o.Subtotal,
		ShippingCost:       o.ShippingCost,
		Total:              o.Total,
		Currency:           o.Currency,
		Status:             o.Status,
		ConfirmationStatus: o.ConfirmationStatus,
		TrackingNumber:     o.TrackingNumber,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// ListOrdersResponse is a page of orders
type ListOrdersResponse struct {
	Orders []*OrderResponse `json:"orders"`
	Total  int              `json:"total"`
}

// AdvanceConfirmationRequest moves an order's confirmation status one step
// forward
type AdvanceConfirmationRequest struct {
	Status types.ConfirmationStatus `json:"status" binding:"required"`
}

func (r *AdvanceConfirmationRequest) Validate() error {
	return r.Status.Validate()
}

// SetTrackingRequest attaches a carrier tracking number to an order
type SetTrackingRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

func (r *SetTrackingRequest) Validate() error {
	if r.TrackingNumber == "" {
		return ierr.NewError("tracking number is required").
			WithHint("Tracking number is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
