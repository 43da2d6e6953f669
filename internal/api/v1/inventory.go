package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/octavehouse/storefront/internal/api/dto"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/service"
	"github.com/octavehouse/storefront/internal/types"
)

type InventoryHandler struct {
	service service.InventoryService
	log     *logger.Logger
}

func NewInventoryHandler(service service.InventoryService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, log: log}
}

// @Summary Get chapter stock
// @Description Get stock figures for a chapter, optionally narrowed to a model and size
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Chapter ID"
// @Param model query int false "Model ID"
// @Param size query string false "Size"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /inventory/{id} [get]
func (h *InventoryHandler) GetStock(c *gin.Context) {
	req := &dto.GetStockRequest{
		ChapterID: c.Param("id"),
	}

	if raw := c.Query("model"); raw != "" {
		modelID, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Model id must be a number").
				Mark(ierr.ErrValidation))
			return
		}
		req.ModelID = &modelID
	}
	if raw := c.Query("size"); raw != "" {
		size := types.Size(raw)
		req.Size = &size
	}

	resp, err := h.service.GetStock(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to get stock", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
