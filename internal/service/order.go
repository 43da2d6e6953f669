package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/octavehouse/storefront/internal/api/dto"
	"github.com/octavehouse/storefront/internal/audit"
	"github.com/octavehouse/storefront/internal/domain/order"
	ierr "github.com/octavehouse/storefront/internal/errors"
)

// OrderService exposes order lookup and the admin shipping workflow
type OrderService interface {
	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context) (*dto.ListOrdersResponse, error)
	ListCustomerOrders(ctx context.Context, email string) (*dto.ListOrdersResponse, error)

	// AdvanceConfirmation moves the shipping confirmation one step forward.
	// Skipping steps or moving backwards is rejected.
	AdvanceConfirmation(ctx context.Context, id string, req *dto.AdvanceConfirmationRequest) (*dto.OrderResponse, error)

	// SetTracking attaches the carrier tracking number
	SetTracking(ctx context.Context, id string, req *dto.SetTrackingRequest) (*dto.OrderResponse, error)
}

type orderService struct {
	ServiceParams
}

func NewOrderService(params ServiceParams) OrderService {
	return &orderService{
		ServiceParams: params,
	}
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	if id == "" {
		return nil, ierr.NewError("order id is required").
			WithHint("Order id is required").
			Mark(ierr.ErrValidation)
	}
	o, err := s.OrderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(o), nil
}

func (s *orderService) ListOrders(ctx context.Context) (*dto.ListOrdersResponse, error) {
	orders, err := s.OrderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := lo.Map(orders, func(o *order.Order, _ int) *dto.OrderResponse {
		return dto.NewOrderResponse(o)
	})
	return &dto.ListOrdersResponse{
		Orders: responses,
		Total:  len(responses),
	}, nil
}

func (s *orderService) ListCustomerOrders(ctx context.Context, email string) (*dto.ListOrdersResponse, error) {
	if email == "" {
		return nil, ierr.NewError("email is required").
			WithHint("Customer email is required").
			Mark(ierr.ErrValidation)
	}
	ids, err := s.OrderRepo.ListByCustomer(ctx, email)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &dto.ListOrdersResponse{Orders: []*dto.OrderResponse{}}, nil
		}
		return nil, err
	}

	responses := make([]*dto.OrderResponse, 0, len(ids))
	for _, id := range ids {
		o, err := s.OrderRepo.Get(ctx, id)
		if err != nil {
			if ierr.IsNotFound(err) {
				// Dangling index entries are logged, not fatal
				s.Logger.Warnw("customer history references missing order", "order_id", id, "email", email)
				continue
			}
			return nil, err
		}
		responses = append(responses, dto.NewOrderResponse(o))
	}
	return &dto.ListOrdersResponse{
		Orders: responses,
		Total:  len(responses),
	}, nil
}

func (s *orderService) AdvanceConfirmation(ctx context.Context, id string, req *dto.AdvanceConfirmationRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	o, err := s.OrderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.ConfirmationStatus.CanTransitionTo(req.Status) {
		s.Audit.Record(ctx, "order.advance_confirmation", id, audit.OutcomeRejected, map[string]any{
			"from": o.ConfirmationStatus,
			"to":   req.Status,
		})
		return nil, ierr.NewError("invalid confirmation transition").
			WithHintf("Confirmation cannot move from %s to %s", o.ConfirmationStatus, req.Status).
			WithReportableDetails(map[string]any{
				"from": o.ConfirmationStatus,
				"to":   req.Status,
			}).
			Mark(ierr.ErrConflict)
	}

	s.Audit.Record(ctx, "order.advance_confirmation", id, audit.OutcomeApplied, map[string]any{
		"from": o.ConfirmationStatus,
		"to":   req.Status,
	})

	o.ConfirmationStatus = req.Status
	o.UpdatedAt = time.Now().UTC()
	if err := s.OrderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.Logger.Infow("order confirmation advanced",
		"order_id", id,
		"status", req.Status,
	)
	return dto.NewOrderResponse(o), nil
}

func (s *orderService) SetTracking(ctx context.Context, id string, req *dto.SetTrackingRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	o, err := s.OrderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, "order.set_tracking", id, audit.OutcomeApplied, map[string]any{
		"tracking_number": req.TrackingNumber,
	})

	o.TrackingNumber = lo.ToPtr(req.TrackingNumber)
	o.UpdatedAt = time.Now().UTC()
	if err := s.OrderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.Logger.Infow("order tracking set", "order_id", id)
	return dto.NewOrderResponse(o), nil
}
