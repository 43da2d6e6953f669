package dto

import (
	"github.com/shopspring/decimal"

	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// CheckoutLine is one cart position submitted for checkout
type CheckoutLine struct {
	ModelID   int             `json:"model_id" binding:"required"`
	Size      types.Size      `json:"size" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CheckoutRequest gates and creates a payment session for a cart
type CheckoutRequest struct {
	Email string         `json:"email" binding:"required,email"`
	Lines []CheckoutLine `json:"lines" binding:"required,dive"`
}

func (r *CheckoutRequest) Validate() error {
	if len(r.Lines) == 0 {
		return ierr.NewError("cart is empty").
			WithHint("At least one cart line is required").
			Mark(ierr.ErrValidation)
	}
	for _, line := range r.Lines {
		if line.Quantity <= 0 {
			return ierr.NewError("invalid line quantity").
				WithHint("Line quantity must be greater than 0").
				WithReportableDetails(map[string]any{"model_id": line.ModelID}).
				Mark(ierr.ErrValidation)
		}
		if err := line.Size.Validate(); err != nil {
			return err
		}
		if line.UnitPrice.IsNegative() || line.UnitPrice.IsZero() {
			return ierr.NewError("invalid unit price").
				WithHint("Line unit price must be greater than 0").
				WithReportableDetails(map[string]any{"model_id": line.ModelID}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// CheckoutSessionResponse returns the created payment session
type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
