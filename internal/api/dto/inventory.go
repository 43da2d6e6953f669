package dto

import (
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// GetStockRequest asks for stock figures at chapter, model or size granularity
type GetStockRequest struct {
	ChapterID string      `json:"chapter_id" binding:"required"`
	ModelID   *int        `json:"model_id,omitempty"`
	Size      *types.Size `json:"size,omitempty"`
}

func (r *GetStockRequest) Validate() error {
	if r.ChapterID == "" {
		return ierr.NewError("chapter id is required").
			WithHint("Chapter id is required").
			Mark(ierr.ErrValidation)
	}
	if r.Size != nil && r.ModelID == nil {
		return ierr.NewError("size filter requires a model filter").
			WithHint("Provide a model id when filtering by size").
			Mark(ierr.ErrValidation)
	}
	if r.Size != nil {
		return r.Size.Validate()
	}
	return nil
}

// StockResponse carries stock figures at the requested granularity
type StockResponse struct {
	ChapterID   string                     `json:"chapter_id"`
	Initialized bool                       `json:"initialized"`
	Counts      map[int]map[types.Size]int `json:"counts,omitempty"`
	ModelCounts map[types.Size]int         `json:"model_counts,omitempty"`
	Count       *int                       `json:"count,omitempty"`
}

// StockLine is one requested (model, size, quantity) position
type StockLine struct {
	ModelID  int        `json:"model_id" binding:"required"`
	Size     types.Size `json:"size" binding:"required"`
	Quantity int        `json:"quantity" binding:"required,gt=0"`
}

// StockShortfall reports one line whose requested quantity exceeds stock
type StockShortfall struct {
	ModelID   int        `json:"model_id"`
	Size      types.Size `json:"size"`
	Requested int        `json:"requested"`
	Available int        `json:"available"`
}
