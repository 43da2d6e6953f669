package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	stripeapi "github.com/stripe/stripe-go/v82"

	"github.com/octavehouse/storefront/internal/api/dto"
	"github.com/octavehouse/storefront/internal/domain/event"
	"github.com/octavehouse/storefront/internal/domain/order"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/integration/stripe"
	"github.com/octavehouse/storefront/internal/types"
)

// IngestionService turns inbound payment processor events into orders,
// exactly once per event id regardless of redeliveries
type IngestionService interface {
	// ProcessEvent verifies, claims and fulfills one inbound event. Already
	// processed events are acknowledged without side effects.
	ProcessEvent(ctx context.Context, payload []byte, signature string) (*dto.ProcessEventResult, error)
}

type ingestionService struct {
	ServiceParams
	inventoryService InventoryService
	stripeClient     *stripe.Client
}

func NewIngestionService(params ServiceParams, stripeClient *stripe.Client) IngestionService {
	return &ingestionService{
		ServiceParams:    params,
		inventoryService: NewInventoryService(params),
		stripeClient:     stripeClient,
	}
}

func (s *ingestionService) ProcessEvent(ctx context.Context, payload []byte, signature string) (*dto.ProcessEventResult, error) {
	processorEvent, err := s.stripeClient.ParseWebhookEvent(payload, signature)
	if err != nil {
		return nil, err
	}

	kind := types.PaymentEventKind(processorEvent.Type)
	result := &dto.ProcessEventResult{
		EventID: processorEvent.ID,
		Kind:    kind,
	}

	entry, err := s.EventRepo.Get(ctx, processorEvent.ID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if entry != nil {
		switch entry.Status {
		case types.ProcessingStatusProcessed:
			// Redelivery of a finished event: acknowledge, do nothing
			s.Logger.Infow("duplicate event delivery skipped",
				"event_id", processorEvent.ID,
				"kind", kind,
			)
			result.Processed = true
			result.Skipped = true
			return result, nil
		default:
			// A concurrent delivery holds the claim. Failing here makes
			// the processor redeliver after the in-flight attempt settles.
			return nil, ierr.NewError("event delivery already in flight").
				WithHint("A concurrent delivery of this event is being processed").
				WithReportableDetails(map[string]any{"event_id": processorEvent.ID}).
				Mark(ierr.ErrConflict)
		}
	}

	entry = &event.PaymentEvent{
		ID:            processorEvent.ID,
		Kind:          kind,
		SchemaVersion: event.SchemaVersion,
	}
	if err := s.EventRepo.Claim(ctx, entry); err != nil {
		if ierr.IsVersionConflict(err) {
			return nil, ierr.NewError("event delivery already in flight").
				WithHint("A concurrent delivery of this event is being processed").
				WithReportableDetails(map[string]any{"event_id": processorEvent.ID}).
				Mark(ierr.ErrConflict)
		}
		return nil, err
	}

	if !kind.TriggersFulfillment() {
		if err := s.EventRepo.MarkProcessed(ctx, entry); err != nil {
			return nil, err
		}
		s.Logger.Debugw("event kind ignored", "event_id", processorEvent.ID, "kind", kind)
		result.Processed = true
		result.Ignored = true
		return result, nil
	}

	createdOrder, err := s.fulfill(ctx, processorEvent, entry)
	if err != nil {
		// The ledger entry stays in processing and the delivery fails, so
		// the processor retries and an operator can see the stuck event
		s.Logger.Errorw("event fulfillment failed",
			"error", err,
			"event_id", processorEvent.ID,
		)
		return nil, err
	}

	if err := s.EventRepo.MarkProcessed(ctx, entry); err != nil {
		return nil, err
	}

	s.Notifier.OrderConfirmed(ctx, createdOrder)

	result.Processed = true
	result.OrderID = createdOrder.ID
	return result, nil
}

// fulfill decrements stock and creates the order for a completed checkout.
// The decrement commits first; an order is only written for stock that was
// actually taken.
func (s *ingestionService) fulfill(ctx context.Context, processorEvent *stripeapi.Event, entry *event.PaymentEvent) (*order.Order, error) {
	session, err := stripe.ExtractCheckoutSession(processorEvent)
	if err != nil {
		return nil, err
	}
	cart, err := stripe.ParseCart(session)
	if err != nil {
		return nil, err
	}

	lines := make([]order.LineItem, 0, len(cart))
	stockLines := make([]dto.StockLine, 0, len(cart))
	subtotal := decimal.Zero
	for _, cartLine := range cart {
		unitPrice, err := decimal.NewFromString(cartLine.UnitPrice)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("The session cart carries a malformed unit price").
				WithReportableDetails(map[string]any{"model_id": cartLine.ModelID}).
				Mark(ierr.ErrValidation)
		}
		size := types.Size(cartLine.Size)
		if err := size.Validate(); err != nil {
			return nil, err
		}
		lines = append(lines, order.LineItem{
			ModelID:   cartLine.ModelID,
			Size:      size,
			Quantity:  cartLine.Quantity,
			UnitPrice: unitPrice,
		})
		stockLines = append(stockLines, dto.StockLine{
			ModelID:  cartLine.ModelID,
			Size:     size,
			Quantity: cartLine.Quantity,
		})
		subtotal = subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(cartLine.Quantity))))
	}

	if err := s.inventoryService.Decrement(ctx, stockLines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	total := decimal.New(session.AmountTotal, -2)
	shipping := total.Sub(subtotal)
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}

	o := &order.Order{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
		OrderNumber:        types.GenerateOrderNumber(now),
		SourceEventID:      entry.ID,
		Status:             types.OrderStatusPaid,
		Lines:              lines,
		Subtotal:           subtotal,
		ShippingCost:       shipping,
		Total:              total,
		Currency:           string(session.Currency),
		CustomerEmail:      customerEmail(session),
		ShippingAddress:    shippingAddress(session),
		ConfirmationStatus: types.ConfirmationStatusNone,
		CreatedAt:          now,
		UpdatedAt:          now,
		SchemaVersion:      order.SchemaVersion,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := s.OrderRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	// History is a secondary index; a failed append must not fail the
	// delivery or the event would be fulfilled twice on redelivery
	if o.CustomerEmail != "" {
		if err := s.OrderRepo.AppendToCustomerHistory(ctx, o.CustomerEmail, o.ID); err != nil {
			s.Logger.Errorw("failed to append order to customer history",
				"error", err,
				"order_id", o.ID,
				"customer_email", o.CustomerEmail,
			)
		}
	}

	s.Logger.Infow("order created from payment event",
		"order_id", o.ID,
		"order_number", o.OrderNumber,
		"event_id", entry.ID,
		"total", o.Total,
	)
	return o, nil
}

func customerEmail(session *stripeapi.CheckoutSession) string {
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	return session.CustomerEmail
}

func shippingAddress(session *stripeapi.CheckoutSession) order.Address {
	if session.CustomerDetails == nil || session.CustomerDetails.Address == nil {
		return order.Address{}
	}
	addr := session.CustomerDetails.Address
	return order.Address{
		Name:       session.CustomerDetails.Name,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
}
