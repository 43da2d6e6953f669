package order

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// SchemaVersion is the current payload schema of order records
const SchemaVersion = 1

// LineItem is a single purchased (model, size) position
type LineItem struct {
	ModelID   int             `json:"model_id"`
	Size      types.Size      `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Address is the shipping address captured from the payment session
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is created once by the payment ingestor and later advanced by the
// admin order management flow. Orders are never deleted (audit trail).
type Order struct {
	ID string `json:"id"`
	// OrderNumber is the human readable number, date plus random suffix
	OrderNumber string `json:"order_number"`
	// SourceEventID links the order back to the payment event that produced it
	SourceEventID string `json:"source_event_id"`

	Status types.OrderStatus `json:"status"`
	Lines  []LineItem        `json:"lines"`

	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`

	CustomerEmail   string  `json:"customer_email"`
	ShippingAddress Address `json:"shipping_address"`

	ConfirmationStatus types.ConfirmationStatus `json:"confirmation_status"`
	TrackingNumber     *string                  `json:"tracking_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SchemaVersion int `json:"schema_version"`

	// Version is the storage version used for conditional writes
	Version int64 `json:"-"`
}

func (o *Order) Validate() error {
	if o.SourceEventID == "" {
		return ierr.NewError("invalid source event id").
			WithHint("Source event id is required").
			Mark(ierr.ErrValidation)
	}
	if len(o.Lines) == 0 {
		return ierr.NewError("order has no lines").
			WithHint("At least one line item is required").
			Mark(ierr.ErrValidation)
	}
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			return ierr.NewError("invalid line quantity").
				WithHint("Line quantity must be greater than 0").
				WithReportableDetails(map[string]any{"model_id": line.ModelID}).
				Mark(ierr.ErrValidation)
		}
		if err := line.Size.Validate(); err != nil {
			return err
		}
	}
	if o.Total.IsNegative() {
		return ierr.NewError("invalid total").
			WithHint("Order total must not be negative").
			Mark(ierr.ErrValidation)
	}
	if o.Currency == "" {
		return ierr.NewError("invalid currency").
			WithHint("Currency is required").
			Mark(ierr.ErrValidation)
	}
	return o.Status.Validate()
}
