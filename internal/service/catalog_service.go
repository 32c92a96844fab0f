package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jaymapos/internal/gateway"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrTooManyPages means the pagination loop hit the hard page ceiling — a
// runaway guard, treated as fatal rather than a silent stop.
var ErrTooManyPages = errors.New("catalog sync exceeded the page ceiling, possible infinite loop")

// ProductPager is the slice of the remote gateway the catalog engine needs.
type ProductPager interface {
	FetchProductsPage(ctx context.Context, warehouseID, page int, filter gateway.ProductFilter) (*gateway.ProductPageResponse, error)
}

// CatalogSyncService mirrors the remote product catalog into the local
// store, page by page. Pagination terminates when a page comes back with
// fewer products than the expected page size — a value supplied at
// construction (server-reported via bootstrap, or the configured default),
// never inferred from a page.
type CatalogSyncService interface {
	// SyncAll pages from 1 until the catalog is exhausted.
	SyncAll(ctx context.Context, warehouseID int) (int, error)
	// SyncFirstPage fetches only page 1 so callers can show results
	// immediately.
	SyncFirstPage(ctx context.Context, warehouseID int) (int, error)
	// SyncRemaining continues from page 2 with the same termination rules.
	SyncRemaining(ctx context.Context, warehouseID int) (int, error)
	// SyncFastStart runs SyncFirstPage synchronously, then the remainder in
	// a detached background goroutine.
	SyncFastStart(ctx context.Context, warehouseID int) (int, error)
}

type catalogSyncService struct {
	pager       ProductPager
	productRepo repository.ProductRepository
	statusRepo  repository.SyncStatusRepository

	pageSize        int
	maxConsecutive  int
	maxCatalogPages int
}

func NewCatalogSyncService(pager ProductPager, productRepo repository.ProductRepository, statusRepo repository.SyncStatusRepository, pageSize, maxConsecutiveFailures, maxCatalogPages int) CatalogSyncService {
	if pageSize <= 0 {
		pageSize = 28
	}
	if maxConsecutiveFailures <= 0 {
		maxConsecutiveFailures = 3
	}
	if maxCatalogPages <= 0 {
		maxCatalogPages = 100
	}
	return &catalogSyncService{
		pager:           pager,
		productRepo:     productRepo,
		statusRepo:      statusRepo,
		pageSize:        pageSize,
		maxConsecutive:  maxConsecutiveFailures,
		maxCatalogPages: maxCatalogPages,
	}
}

func (s *catalogSyncService) SyncAll(ctx context.Context, warehouseID int) (int, error) {
	n, err := s.syncFrom(ctx, warehouseID, 1)
	if err != nil {
		return n, err
	}
	if err := s.statusRepo.TouchProductSync(ctx, time.Now()); err != nil {
		log.Warn().Err(err).Msg("catalog sync: failed to record sync timestamp")
	}
	return n, nil
}

func (s *catalogSyncService) SyncFirstPage(ctx context.Context, warehouseID int) (int, error) {
	return s.syncPage(ctx, warehouseID, 1)
}

func (s *catalogSyncService) SyncRemaining(ctx context.Context, warehouseID int) (int, error) {
	n, err := s.syncFrom(ctx, warehouseID, 2)
	if err != nil {
		return n, err
	}
	if err := s.statusRepo.TouchProductSync(ctx, time.Now()); err != nil {
		log.Warn().Err(err).Msg("catalog sync: failed to record sync timestamp")
	}
	return n, nil
}

func (s *catalogSyncService) SyncFastStart(ctx context.Context, warehouseID int) (int, error) {
	first, err := s.SyncFirstPage(ctx, warehouseID)
	if err != nil {
		return 0, err
	}

	// Remainder is detached from the caller's request lifetime.
	bg := context.WithoutCancel(ctx)
	go func() {
		rest, err := s.SyncRemaining(bg, warehouseID)
		if err != nil {
			log.Error().Err(err).Msg("catalog sync: background remainder failed")
			return
		}
		log.Info().Int("count", first+rest).Msg("catalog sync: full catalog loaded")
	}()

	return first, nil
}

// syncPage fetches and upserts exactly one page, returning the product count.
func (s *catalogSyncService) syncPage(ctx context.Context, warehouseID, page int) (int, error) {
	resp, err := s.pager.FetchProductsPage(ctx, warehouseID, page, gateway.ProductFilter{})
	if err != nil {
		return 0, err
	}

	products := make([]model.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, toProduct(p))
	}
	if err := s.productRepo.UpsertBatch(ctx, products); err != nil {
		return 0, fmt.Errorf("upsert page %d: %w", page, err)
	}
	return len(products), nil
}

// syncFrom runs the pagination loop: continue while a page returns at least
// pageSize products. A transient page failure advances to the next page —
// one bad page must not cost the rest of the catalog — but the budget of
// consecutive failures aborts the whole sync, and a success resets it.
func (s *catalogSyncService) syncFrom(ctx context.Context, warehouseID, startPage int) (int, error) {
	total := 0
	page := startPage
	consecutiveFailures := 0

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		count, err := s.syncPage(ctx, warehouseID, page)
		if err != nil {
			consecutiveFailures++
			log.Warn().
				Int("page", page).
				Int("consecutive_failures", consecutiveFailures).
				Err(err).
				Msg("catalog sync: page failed")
			if consecutiveFailures >= s.maxConsecutive {
				return total, fmt.Errorf("catalog sync aborted after %d consecutive page failures: %w", consecutiveFailures, err)
			}
			page++
			if page > s.maxCatalogPages {
				return total, ErrTooManyPages
			}
			continue
		}

		consecutiveFailures = 0
		total += count
		log.Debug().Int("page", page).Int("count", count).Msg("catalog sync: page applied")

		if count < s.pageSize {
			// Short page — catalog exhausted.
			return total, nil
		}
		page++
		if page > s.maxCatalogPages {
			return total, ErrTooManyPages
		}
	}
}

func toProduct(p gateway.ProductResponse) model.Product {
	m := model.Product{
		ID:           p.ID.Int(),
		Code:         p.Code,
		Name:         p.Name,
		QtyOnHand:    p.Qty.Float64(),
		QtyAvailable: p.QtyForSale.Float64(),
		UnitOfSale:   p.UnitOfSale,
		ProductType:  p.ProductType,
		Price:        decimal.NewFromFloat(p.NetPrice.Float64()),
		Synced:       true,
	}
	if m.QtyAvailable < 0 {
		m.QtyAvailable = 0
	}
	if v := p.ProductVariantID.Int(); v > 0 {
		m.ProductVariantID = &v
	}
	if p.Barcode != "" {
		b := p.Barcode
		m.Barcode = &b
	}
	if p.Image != "" {
		img := p.Image
		m.Image = &img
	}
	if c := p.CostPrice.Float64(); c > 0 {
		cp := decimal.NewFromFloat(c)
		m.CostPrice = &cp
	}
	if id := p.CategoryID.Int(); id > 0 {
		m.CategoryID = &id
	}
	if id := p.BrandID.Int(); id > 0 {
		m.BrandID = &id
	}
	return m
}
