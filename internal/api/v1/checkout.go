package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/octavehouse/storefront/internal/api/dto"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/service"
)

type CheckoutHandler struct {
	service service.CheckoutService
	log     *logger.Logger
}

func NewCheckoutHandler(service service.CheckoutService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, log: log}
}

// @Summary Create a checkout session
// @Description Gate the cart against the chapter lifecycle and create a payment session
// @Tags Checkout
// @Accept json
// @Produce json
// @Param checkout body dto.CheckoutRequest true "Cart"
// @Success 200 {object} dto.CheckoutSessionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /checkout [post]
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateSession(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create checkout session", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
