package service

import (
	"context"

	"github.com/octavehouse/storefront/internal/api/dto"
	"github.com/octavehouse/storefront/internal/catalog"
	"github.com/octavehouse/storefront/internal/domain/chapter"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/integration/stripe"
)

// CheckoutService gates carts against the chapter lifecycle and creates
// payment sessions for carts that pass
type CheckoutService interface {
	CreateSession(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutSessionResponse, error)
}

type checkoutService struct {
	ServiceParams
	chapterService   ChapterService
	inventoryService InventoryService
	stripeClient     *stripe.Client
}

func NewCheckoutService(params ServiceParams, stripeClient *stripe.Client) CheckoutService {
	return &checkoutService{
		ServiceParams:    params,
		chapterService:   NewChapterService(params),
		inventoryService: NewInventoryService(params),
		stripeClient:     stripeClient,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutSessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.gateCart(ctx, req); err != nil {
		return nil, err
	}

	// Advisory stock check so obviously dead carts never reach payment.
	// The authoritative check stays with the conditional decrement during
	// event processing.
	stockLines := make([]dto.StockLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		stockLines = append(stockLines, dto.StockLine{
			ModelID:  line.ModelID,
			Size:     line.Size,
			Quantity: line.Quantity,
		})
	}
	shortfalls, err := s.inventoryService.CheckAvailability(ctx, stockLines)
	if err != nil {
		return nil, err
	}
	if len(shortfalls) > 0 {
		details := make([]map[string]any, 0, len(shortfalls))
		for _, sf := range shortfalls {
			details = append(details, map[string]any{
				"model_id":  sf.ModelID,
				"size":      sf.Size,
				"requested": sf.Requested,
				"available": sf.Available,
			})
		}
		return nil, ierr.NewError("insufficient stock").
			WithHint("One or more items are no longer available in the requested quantity").
			WithReportableDetails(map[string]any{"shortfalls": details}).
			Mark(ierr.ErrConflict)
	}

	cartLines := make([]stripe.CartLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		cartLines = append(cartLines, stripe.CartLine{
			ModelID:   line.ModelID,
			Size:      line.Size.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
		})
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, req.Email, cartLines)
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// gateCart checks every cart line against its chapter's sales mode. A locked
// superseded chapter sells its leftovers in add_to_cart mode; an uncreated
// chapter sells nothing; the active chapter sells by its current mode, with
// early access resolved through the chapter's waitlist.
func (s *checkoutService) gateCart(ctx context.Context, req *dto.CheckoutRequest) error {
	records, err := s.ChapterRepo.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]*chapter.ChapterRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	checked := make(map[string]bool)
	for _, line := range req.Lines {
		chapterID, err := catalog.ChapterForModel(line.ModelID)
		if err != nil {
			return err
		}
		if checked[chapterID] {
			continue
		}
		checked[chapterID] = true

		record, ok := byID[chapterID]
		if !ok || !record.Created {
			return ierr.NewError("chapter is not open for sale").
				WithHint("This collection has not been released yet").
				WithReportableDetails(map[string]any{"chapter_id": chapterID}).
				Mark(ierr.ErrConflict)
		}

		earlyAccess := false
		if record.Mode.RequiresEarlyAccess() {
			earlyAccess, err = s.hasEarlyAccess(ctx, chapterID, req.Email)
			if err != nil {
				return err
			}
		}
		if !record.Mode.AllowsCheckout(earlyAccess) {
			return ierr.NewError("checkout is closed for this chapter").
				WithHint("This collection is not open for purchase yet").
				WithReportableDetails(map[string]any{
					"chapter_id": chapterID,
					"mode":       record.Mode,
				}).
				Mark(ierr.ErrConflict)
		}
	}
	return nil
}

// hasEarlyAccess reports whether the customer earned early access to the
// chapter by joining its waitlist
func (s *checkoutService) hasEarlyAccess(ctx context.Context, chapterID, email string) (bool, error) {
	_, err := s.WaitlistRepo.Get(ctx, chapterID, email)
	if err != nil {
		if ierr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
