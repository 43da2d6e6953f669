package service

import (
	"context"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/octavehouse/storefront/internal/api/dto"
	"github.com/octavehouse/storefront/internal/cache"
	"github.com/octavehouse/storefront/internal/catalog"
	"github.com/octavehouse/storefront/internal/domain/inventory"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/types"
)

// decrementMaxRetries bounds the compare-and-retry loop under contention
const decrementMaxRetries = 8

// InventoryService manages the per chapter stock ledgers
type InventoryService interface {
	// GetStock returns stock figures at chapter, model or size granularity
	GetStock(ctx context.Context, req *dto.GetStockRequest) (*dto.StockResponse, error)

	// InitializeChapter seeds the chapter's ledger with the default stock
	// distribution. Re-initialization of an initialized chapter is a no-op.
	InitializeChapter(ctx context.Context, chapterID string) (*inventory.ChapterInventory, error)

	// Decrement atomically applies the requested lines against their
	// chapters' ledgers. The whole request succeeds or nothing is written;
	// insufficient stock surfaces every shortfall in one conflict error.
	Decrement(ctx context.Context, lines []dto.StockLine) error

	// CheckAvailability is the advisory pre-payment check. It reports
	// shortfalls without reserving anything; the authoritative check is
	// the conditional write in Decrement.
	CheckAvailability(ctx context.Context, lines []dto.StockLine) ([]dto.StockShortfall, error)
}

type inventoryService struct {
	ServiceParams
}

func NewInventoryService(params ServiceParams) InventoryService {
	return &inventoryService{
		ServiceParams: params,
	}
}

func (s *inventoryService) GetStock(ctx context.Context, req *dto.GetStockRequest) (*dto.StockResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := catalog.ParseChapterID(req.ChapterID); err != nil {
		return nil, err
	}

	inv, err := s.getInventory(ctx, req.ChapterID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &dto.StockResponse{ChapterID: req.ChapterID, Initialized: false}, nil
		}
		return nil, err
	}

	resp := &dto.StockResponse{
		ChapterID:   inv.ChapterID,
		Initialized: inv.Initialized,
	}

	switch {
	case req.ModelID != nil && req.Size != nil:
		count := inv.Stock(*req.ModelID, *req.Size)
		resp.Count = &count
	case req.ModelID != nil:
		resp.ModelCounts = inv.Counts[*req.ModelID]
	default:
		resp.Counts = inv.Counts
	}
	return resp, nil
}

func (s *inventoryService) InitializeChapter(ctx context.Context, chapterID string) (*inventory.ChapterInventory, error) {
	models, err := catalog.ModelsForChapter(chapterID)
	if err != nil {
		return nil, err
	}

	existing, err := s.InventoryRepo.Get(ctx, chapterID)
	if err == nil {
		if existing.Initialized {
			s.Logger.Debugw("chapter inventory already initialized", "chapter_id", chapterID)
			return existing, nil
		}
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &inventory.ChapterInventory{
		ChapterID:     chapterID,
		Initialized:   true,
		InitializedAt: &now,
		Counts:        make(map[int]map[types.Size]int, len(models)),
		SchemaVersion: inventory.SchemaVersion,
	}
	for _, modelID := range models {
		inv.Counts[modelID] = catalog.DefaultSeed()
	}

	if err := s.InventoryRepo.Save(ctx, inv); err != nil {
		if ierr.IsVersionConflict(err) {
			// Another initializer won; theirs is as good as ours
			return s.InventoryRepo.Get(ctx, chapterID)
		}
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixInventory, chapterID))
	s.Logger.Infow("chapter inventory initialized", "chapter_id", chapterID, "models", len(models))
	return inv, nil
}

func (s *inventoryService) Decrement(ctx context.Context, lines []dto.StockLine) error {
	grouped, err := groupLinesByChapter(lines)
	if err != nil {
		return err
	}

	// Chapters are committed in ordinal order so concurrent multi chapter
	// requests cannot deadlock on retry ordering
	chapterIDs := make([]string, 0, len(grouped))
	for chapterID := range grouped {
		chapterIDs = append(chapterIDs, chapterID)
	}
	sort.Strings(chapterIDs)

	for _, chapterID := range chapterIDs {
		if err := s.decrementChapter(ctx, chapterID, grouped[chapterID]); err != nil {
			return err
		}
	}
	return nil
}

// decrementChapter runs the compare-and-retry loop for one chapter: read the
// ledger, verify every line, apply, and write conditionally. A lost race
// re-reads and re-verifies against the fresh counts.
func (s *inventoryService) decrementChapter(ctx context.Context, chapterID string, lines []dto.StockLine) error {
	operation := func() error {
		inv, err := s.InventoryRepo.Get(ctx, chapterID)
		if err != nil {
			if ierr.IsNotFound(err) {
				return backoff.Permanent(ierr.NewError("chapter inventory not initialized").
					WithHint("The chapter has no stock ledger").
					WithReportableDetails(map[string]any{"chapter_id": chapterID}).
					Mark(ierr.ErrNotFound))
			}
			return backoff.Permanent(err)
		}

		if shortfalls := verifyLines(inv, lines); len(shortfalls) > 0 {
			return backoff.Permanent(insufficientStockError(chapterID, shortfalls))
		}

		for _, line := range lines {
			inv.Apply(line.ModelID, line.Size, line.Quantity)
		}

		if err := s.InventoryRepo.Save(ctx, inv); err != nil {
			if ierr.IsVersionConflict(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), decrementMaxRetries)
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixInventory, chapterID))
	return nil
}

func (s *inventoryService) CheckAvailability(ctx context.Context, lines []dto.StockLine) ([]dto.StockShortfall, error) {
	grouped, err := groupLinesByChapter(lines)
	if err != nil {
		return nil, err
	}

	var shortfalls []dto.StockShortfall
	for chapterID, chapterLines := range grouped {
		inv, err := s.getInventory(ctx, chapterID)
		if err != nil {
			if ierr.IsNotFound(err) {
				for _, line := range chapterLines {
					shortfalls = append(shortfalls, dto.StockShortfall{
						ModelID:   line.ModelID,
						Size:      line.Size,
						Requested: line.Quantity,
						Available: 0,
					})
				}
				continue
			}
			return nil, err
		}
		shortfalls = append(shortfalls, verifyLines(inv, chapterLines)...)
	}
	return shortfalls, nil
}

// getInventory is the read-through cached ledger lookup used by advisory
// reads. Mutating paths always read the repository directly.
func (s *inventoryService) getInventory(ctx context.Context, chapterID string) (*inventory.ChapterInventory, error) {
	key := cache.GenerateKey(cache.PrefixInventory, chapterID)
	if cached, found := s.Cache.Get(ctx, key); found {
		if inv, ok := cached.(*inventory.ChapterInventory); ok {
			return inv, nil
		}
	}

	inv, err := s.InventoryRepo.Get(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, key, inv, 30*time.Second)
	return inv, nil
}

// groupLinesByChapter routes every line through the catalog and merges
// duplicate (model, size) positions. An unroutable model id fails the whole
// request.
func groupLinesByChapter(lines []dto.StockLine) (map[string][]dto.StockLine, error) {
	if len(lines) == 0 {
		return nil, ierr.NewError("no lines to apply").
			WithHint("At least one line is required").
			Mark(ierr.ErrValidation)
	}

	type position struct {
		modelID int
		size    types.Size
	}
	merged := make(map[string]map[position]int)
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ierr.NewError("invalid line quantity").
				WithHint("Line quantity must be greater than 0").
				WithReportableDetails(map[string]any{"model_id": line.ModelID}).
				Mark(ierr.ErrValidation)
		}
		if err := line.Size.Validate(); err != nil {
			return nil, err
		}
		chapterID, err := catalog.ChapterForModel(line.ModelID)
		if err != nil {
			return nil, err
		}
		if merged[chapterID] == nil {
			merged[chapterID] = make(map[position]int)
		}
		merged[chapterID][position{line.ModelID, line.Size}] += line.Quantity
	}

	grouped := make(map[string][]dto.StockLine, len(merged))
	for chapterID, positions := range merged {
		chapterLines := make([]dto.StockLine, 0, len(positions))
		for pos, qty := range positions {
			chapterLines = append(chapterLines, dto.StockLine{
				ModelID:  pos.modelID,
				Size:     pos.size,
				Quantity: qty,
			})
		}
		sort.Slice(chapterLines, func(i, j int) bool {
			if chapterLines[i].ModelID != chapterLines[j].ModelID {
				return chapterLines[i].ModelID < chapterLines[j].ModelID
			}
			return chapterLines[i].Size < chapterLines[j].Size
		})
		grouped[chapterID] = chapterLines
	}
	return grouped, nil
}

func verifyLines(inv *inventory.ChapterInventory, lines []dto.StockLine) []dto.StockShortfall {
	var shortfalls []dto.StockShortfall
	for _, line := range lines {
		available := inv.Stock(line.ModelID, line.Size)
		if available < line.Quantity {
			shortfalls = append(shortfalls, dto.StockShortfall{
				ModelID:   line.ModelID,
				Size:      line.Size,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}
	return shortfalls
}

func insufficientStockError(chapterID string, shortfalls []dto.StockShortfall) error {
	details := make([]map[string]any, 0, len(shortfalls))
	for _, sf := range shortfalls {
		details = append(details, map[string]any{
			"model_id":  sf.ModelID,
			"size":      sf.Size,
			"requested": sf.Requested,
			"available": sf.Available,
		})
	}
	return ierr.NewError("insufficient stock").
		WithHint("One or more items are no longer available in the requested quantity").
		WithReportableDetails(map[string]any{
			"chapter_id": chapterID,
			"shortfalls": details,
		}).
		Mark(ierr.ErrConflict)
}
