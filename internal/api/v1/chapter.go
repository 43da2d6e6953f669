package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/octavehouse/storefront/internal/api/dto"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/service"
)

type ChapterHandler struct {
	service service.ChapterService
	log     *logger.Logger
}

func NewChapterHandler(service service.ChapterService, log *logger.Logger) *ChapterHandler {
	return &ChapterHandler{service: service, log: log}
}

// @Summary List chapters
// @Description List every chapter with its lifecycle state and the computed active chapter
// @Tags Chapters
// @Accept json
// @Produce json
// @Success 200 {object} dto.ListChaptersResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /chapters [get]
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	resp, err := h.service.ListChapters(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list chapters", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a chapter
// @Description Create a chapter and/or change the active chapter's sales mode
// @Tags Chapters
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param chapter body dto.UpdateChapterRequest true "Lifecycle change"
// @Success 200 {object} dto.ListChaptersResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /admin/chapters [post]
func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateChapter(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to update chapter", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
