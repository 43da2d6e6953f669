package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/octavehouse/storefront/internal/api/dto"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/service"
)

type WaitlistHandler struct {
	service service.WaitlistService
	log     *logger.Logger
}

func NewWaitlistHandler(service service.WaitlistService, log *logger.Logger) *WaitlistHandler {
	return &WaitlistHandler{service: service, log: log}
}

// @Summary Join a waitlist
// @Description Join the active chapter's waitlist; duplicate joins are idempotent
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param waitlist body dto.JoinWaitlistRequest true "Signup"
// @Success 200 {object} dto.JoinWaitlistResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 429 {object} ierr.ErrorResponse
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req dto.JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Join(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to join waitlist", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
