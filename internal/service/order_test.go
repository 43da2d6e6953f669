package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/octavehouse/storefront/internal/api/dto"
	"github.com/octavehouse/storefront/internal/domain/order"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/testutil"
	"github.com/octavehouse/storefront/internal/types"
)

type OrderServiceSuite struct {
	testutil.BaseServiceTestSuite
	service OrderService
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewOrderService(s.params())
}

func (s *OrderServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		Cache:         s.GetCache(),
		Audit:         s.GetAudit(),
		Notifier:      testutil.NewRecordingNotifier(),
		EventRepo:     stores.EventRepo,
		OrderRepo:     stores.OrderRepo,
		InventoryRepo: stores.InventoryRepo,
		ChapterRepo:   stores.ChapterRepo,
		RateLimitRepo: stores.RateLimitRepo,
		WaitlistRepo:  stores.WaitlistRepo,
	}
}

func (s *OrderServiceSuite) seedOrder() *order.Order {
	now := time.Now().UTC()
	o := &order.Order{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
		OrderNumber:   types.GenerateOrderNumber(now),
		SourceEventID: "evt_test_1",
		Status:        types.OrderStatusPaid,
		Lines: []order.LineItem{
			{ModelID: 1, Size: types.SizeM, Quantity: 1, UnitPrice: decimal.NewFromInt(120)},
		},
		Subtotal:           decimal.NewFromInt(120),
		ShippingCost:       decimal.NewFromInt(9),
		Total:              decimal.NewFromInt(129),
		Currency:           "eur",
		CustomerEmail:      "alice@example.com",
		ConfirmationStatus: types.ConfirmationStatusNone,
		CreatedAt:          now,
		UpdatedAt:          now,
		SchemaVersion:      order.SchemaVersion,
	}
	s.NoError(s.GetStores().OrderRepo.Create(s.GetContext(), o))
	s.NoError(s.GetStores().OrderRepo.AppendToCustomerHistory(s.GetContext(), o.CustomerEmail, o.ID))
	return o
}

func (s *OrderServiceSuite) TestGetOrder() {
	seeded := s.seedOrder()

	resp, err := s.service.GetOrder(s.GetContext(), seeded.ID)
	s.NoError(err)
	s.Equal(seeded.OrderNumber, resp.OrderNumber)
	s.Equal(types.ConfirmationStatusNone, resp.ConfirmationStatus)
	s.True(resp.Total.Equal(decimal.NewFromInt(129)))
}

func (s *OrderServiceSuite) TestGetOrderNotFound() {
	_, err := s.service.GetOrder(s.GetContext(), "order_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *OrderServiceSuite) TestListOrders() {
	s.seedOrder()
	s.seedOrder()

	resp, err := s.service.ListOrders(s.GetContext())
	s.NoError(err)
	s.Equal(2, resp.Total)
}

func (s *OrderServiceSuite) TestListCustomerOrders() {
	seeded := s.seedOrder()

	resp, err := s.service.ListCustomerOrders(s.GetContext(), "alice@example.com")
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal(seeded.ID, resp.Orders[0].ID)

	resp, err = s.service.ListCustomerOrders(s.GetContext(), "nobody@example.com")
	s.NoError(err)
	s.Equal(0, resp.Total)
}

func (s *OrderServiceSuite) TestAdvanceConfirmationForward() {
	seeded := s.seedOrder()

	for _, status := range []types.ConfirmationStatus{
		types.ConfirmationStatusPacked,
		types.ConfirmationStatusSent,
		types.ConfirmationStatusDelivered,
	} {
		resp, err := s.service.AdvanceConfirmation(s.GetContext(), seeded.ID, &dto.AdvanceConfirmationRequest{
			Status: status,
		})
		s.NoError(err)
		s.Equal(status, resp.ConfirmationStatus)
	}
}

func (s *OrderServiceSuite) TestAdvanceConfirmationRejectsSkips() {
	seeded := s.seedOrder()

	_, err := s.service.AdvanceConfirmation(s.GetContext(), seeded.ID, &dto.AdvanceConfirmationRequest{
		Status: types.ConfirmationStatusSent,
	})
	s.Error(err)
	s.True(ierr.IsConflict(err))
}

func (s *OrderServiceSuite) TestAdvanceConfirmationRejectsBackwards() {
	seeded := s.seedOrder()

	_, err := s.service.AdvanceConfirmation(s.GetContext(), seeded.ID, &dto.AdvanceConfirmationRequest{
		Status: types.ConfirmationStatusPacked,
	})
	s.NoError(err)

	_, err = s.service.AdvanceConfirmation(s.GetContext(), seeded.ID, &dto.AdvanceConfirmationRequest{
		Status: types.ConfirmationStatusNone,
	})
	s.Error(err)
	s.True(ierr.IsConflict(err))
}

func (s *OrderServiceSuite) TestSetTracking() {
	seeded := s.seedOrder()

	resp, err := s.service.SetTracking(s.GetContext(), seeded.ID, &dto.SetTrackingRequest{
		TrackingNumber: "1Z999AA10123456784",
	})
	s.NoError(err)
	s.NotNil(resp.TrackingNumber)
	s.Equal("1Z999AA10123456784", *resp.TrackingNumber)

	stored, err := s.GetStores().OrderRepo.Get(s.GetContext(), seeded.ID)
	s.NoError(err)
	s.NotNil(stored.TrackingNumber)
}

func (s *OrderServiceSuite) TestSetTrackingValidation() {
	seeded := s.seedOrder()

	_, err := s.service.SetTracking(s.GetContext(), seeded.ID, &dto.SetTrackingRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
