package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/octavehouse/storefront/internal/api/dto"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/service"
)

type OrderHandler struct {
	service service.OrderService
	log     *logger.Logger
}

func NewOrderHandler(service service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, log: log}
}

// @Summary List orders
// @Description List all orders
// @Tags Orders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param email query string false "Filter by customer email"
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var (
		resp *dto.ListOrdersResponse
		err  error
	)
	if email := c.Query("email"); email != "" {
		resp, err = h.service.ListCustomerOrders(c.Request.Context(), email)
	} else {
		resp, err = h.service.ListOrders(c.Request.Context())
	}
	if err != nil {
		h.log.Error("Failed to list orders", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an order by ID
// @Description Get an order by ID
// @Tags Orders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	resp, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get order", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Advance order confirmation
// @Description Move the order's shipping confirmation one step forward
// @Tags Orders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Order ID"
// @Param confirmation body dto.AdvanceConfirmationRequest true "Target status"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /admin/orders/{id}/confirmation [post]
func (h *OrderHandler) AdvanceConfirmation(c *gin.Context) {
	var req dto.AdvanceConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AdvanceConfirmation(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.log.Error("Failed to advance order confirmation", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Set order tracking
// @Description Attach a carrier tracking number to an order
// @Tags Orders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Order ID"
// @Param tracking body dto.SetTrackingRequest true "Tracking number"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/orders/{id}/tracking [post]
func (h *OrderHandler) SetTracking(c *gin.Context) {
	var req dto.SetTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SetTracking(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.log.Error("Failed to set order tracking", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
