package service

import (
	"context"
	"fmt"
	"time"

	"github.com/octavehouse/storefront/internal/api/dto"
	"github.com/octavehouse/storefront/internal/audit"
	"github.com/octavehouse/storefront/internal/cache"
	"github.com/octavehouse/storefront/internal/catalog"
	"github.com/octavehouse/storefront/internal/domain/chapter"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// ChapterService manages the chapter lifecycle state machine
type ChapterService interface {
	// ListChapters returns every catalog chapter with its lifecycle state
	// and the computed active chapter
	ListChapters(ctx context.Context) (*dto.ListChaptersResponse, error)

	// UpdateChapter applies the owner's create and/or mode change request
	UpdateChapter(ctx context.Context, req *dto.UpdateChapterRequest) (*dto.ListChaptersResponse, error)

	// ActiveChapter returns the currently active chapter record, or an
	// ErrNotFound marked error when no chapter has been created yet
	ActiveChapter(ctx context.Context) (*chapter.ChapterRecord, error)
}

type chapterService struct {
	ServiceParams
	inventoryService InventoryService
}

func NewChapterService(params ServiceParams) ChapterService {
	return &chapterService{
		ServiceParams:    params,
		inventoryService: NewInventoryService(params),
	}
}

func (s *chapterService) ListChapters(ctx context.Context) (*dto.ListChaptersResponse, error) {
	records, err := s.listRecords(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildListResponse(records), nil
}

func (s *chapterService) ActiveChapter(ctx context.Context) (*chapter.ChapterRecord, error) {
	records, err := s.listRecords(ctx)
	if err != nil {
		return nil, err
	}
	active := chapter.ActiveChapter(records)
	if active == nil {
		return nil, ierr.NewError("no active chapter").
			WithHint("No chapter has been created yet").
			Mark(ierr.ErrNotFound)
	}
	return active, nil
}

func (s *chapterService) UpdateChapter(ctx context.Context, req *dto.UpdateChapterRequest) (*dto.ListChaptersResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := catalog.ParseChapterID(req.ChapterID); err != nil {
		return nil, err
	}

	if req.Created != nil && *req.Created {
		if err := s.createChapter(ctx, req.ChapterID); err != nil {
			return nil, err
		}
	}
	if req.Mode != nil {
		if err := s.setMode(ctx, req.ChapterID, *req.Mode); err != nil {
			return nil, err
		}
	}

	s.Cache.DeleteByPrefix(ctx, cache.PrefixChapter)
	records, err := s.ChapterRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildListResponse(records), nil
}

// createChapter marks a chapter created and seeds its inventory. Creation is
// idempotent; creating an already created chapter only re-runs the seed
// check. After a successful create, every other created chapter is locked
// with its mode pinned to add_to_cart.
func (s *chapterService) createChapter(ctx context.Context, chapterID string) error {
	record, err := s.ChapterRepo.Get(ctx, chapterID)
	if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	s.Audit.Record(ctx, "chapter.create", chapterID, audit.OutcomeApplied, map[string]any{
		"chapter_id": chapterID,
	})

	if record == nil {
		record = &chapter.ChapterRecord{
			ID:            chapterID,
			Name:          chapterName(chapterID),
			Mode:          types.DefaultChapterMode,
			SchemaVersion: chapter.SchemaVersion,
		}
	}
	if record.Locked {
		return ierr.NewError("chapter is locked").
			WithHint("A superseded chapter cannot be changed").
			WithReportableDetails(map[string]any{"chapter_id": chapterID}).
			Mark(ierr.ErrConflict)
	}

	if !record.Created {
		record.Created = true
		record.Mode = types.DefaultChapterMode
		if err := s.ChapterRepo.Save(ctx, record); err != nil {
			return err
		}
		s.Logger.Infow("chapter created", "chapter_id", chapterID)
	}

	if _, err := s.inventoryService.InitializeChapter(ctx, chapterID); err != nil {
		return err
	}

	return s.lockSuperseded(ctx)
}

// setMode changes the sales mode of the active chapter. The two rejection
// reasons are kept distinct so the admin console can explain itself.
func (s *chapterService) setMode(ctx context.Context, chapterID string, mode types.ChapterMode) error {
	record, err := s.ChapterRepo.Get(ctx, chapterID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Audit.Record(ctx, "chapter.set_mode", chapterID, audit.OutcomeRejected, map[string]any{
				"reason": "not_created",
				"mode":   mode,
			})
			return ierr.NewError("chapter is not created").
				WithHint("Create the chapter before changing its mode").
				WithReportableDetails(map[string]any{"chapter_id": chapterID}).
				Mark(ierr.ErrConflict)
		}
		return err
	}
	if !record.Created {
		s.Audit.Record(ctx, "chapter.set_mode", chapterID, audit.OutcomeRejected, map[string]any{
			"reason": "not_created",
			"mode":   mode,
		})
		return ierr.NewError("chapter is not created").
			WithHint("Create the chapter before changing its mode").
			WithReportableDetails(map[string]any{"chapter_id": chapterID}).
			Mark(ierr.ErrConflict)
	}

	records, err := s.ChapterRepo.List(ctx)
	if err != nil {
		return err
	}
	active := chapter.ActiveChapter(records)
	if active == nil || active.ID != chapterID {
		s.Audit.Record(ctx, "chapter.set_mode", chapterID, audit.OutcomeRejected, map[string]any{
			"reason": "not_active",
			"mode":   mode,
		})
		return ierr.NewError("chapter is not the active chapter").
			WithHint("Only the active chapter's mode can be changed").
			WithReportableDetails(map[string]any{"chapter_id": chapterID}).
			Mark(ierr.ErrConflict)
	}

	s.Audit.Record(ctx, "chapter.set_mode", chapterID, audit.OutcomeApplied, map[string]any{
		"from": record.Mode,
		"to":   mode,
	})

	record.Mode = mode
	if err := s.ChapterRepo.Save(ctx, record); err != nil {
		return err
	}
	s.Logger.Infow("chapter mode changed", "chapter_id", chapterID, "mode", mode)
	return nil
}

// lockSuperseded pins every created non-active chapter to add_to_cart and
// marks it locked, keeping the single-active invariant visible in storage
func (s *chapterService) lockSuperseded(ctx context.Context) error {
	records, err := s.ChapterRepo.List(ctx)
	if err != nil {
		return err
	}
	active := chapter.ActiveChapter(records)
	for _, record := range records {
		if !record.Created || record.Locked {
			continue
		}
		if active != nil && record.ID == active.ID {
			continue
		}
		record.Locked = true
		record.Mode = types.ChapterModeAddToCart
		if err := s.ChapterRepo.Save(ctx, record); err != nil {
			return err
		}
		s.Logger.Infow("chapter locked", "chapter_id", record.ID)
	}
	return nil
}

// listRecords merges stored records with the catalog so uncreated chapters
// are still visible. Reads go through the cache.
func (s *chapterService) listRecords(ctx context.Context) ([]*chapter.ChapterRecord, error) {
	key := cache.GenerateKey(cache.PrefixChapter, "all")
	if cached, found := s.Cache.Get(ctx, key); found {
		if records, ok := cached.([]*chapter.ChapterRecord); ok {
			return records, nil
		}
	}

	stored, err := s.ChapterRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*chapter.ChapterRecord, len(stored))
	for _, record := range stored {
		byID[record.ID] = record
	}

	records := make([]*chapter.ChapterRecord, 0, catalog.ChapterCount)
	for _, chapterID := range catalog.AllChapterIDs() {
		if record, ok := byID[chapterID]; ok {
			records = append(records, record)
			continue
		}
		records = append(records, &chapter.ChapterRecord{
			ID:            chapterID,
			Name:          chapterName(chapterID),
			SchemaVersion: chapter.SchemaVersion,
		})
	}

	s.Cache.Set(ctx, key, records, 15*time.Second)
	return records, nil
}

func (s *chapterService) buildListResponse(records []*chapter.ChapterRecord) *dto.ListChaptersResponse {
	active := chapter.ActiveChapter(records)

	resp := &dto.ListChaptersResponse{
		Chapters: make([]*dto.ChapterResponse, 0, len(records)),
	}
	if active != nil {
		resp.ActiveChapterID = active.ID
		resp.ActiveMode = active.Mode
	}
	for _, record := range records {
		item := &dto.ChapterResponse{
			ID:      record.ID,
			Name:    record.Name,
			Created: record.Created,
			Locked:  record.Locked,
			Active:  active != nil && record.ID == active.ID,
		}
		if record.Created {
			item.Mode = record.Mode
			updatedAt := record.UpdatedAt
			if !updatedAt.IsZero() {
				item.UpdatedAt = &updatedAt
			}
		}
		resp.Chapters = append(resp.Chapters, item)
	}
	return resp
}

func chapterName(chapterID string) string {
	ordinal, err := catalog.ParseChapterID(chapterID)
	if err != nil {
		return chapterID
	}
	return fmt.Sprintf("Chapter %d", ordinal)
}
