package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"jaymapos/internal/gateway"
	"jaymapos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPager returns a canned response (or error) per page number.
type scriptedPager struct {
	mu      sync.Mutex
	pages   map[int]*gateway.ProductPageResponse
	errs    map[int]error
	calls   []int
}

func newScriptedPager() *scriptedPager {
	return &scriptedPager{pages: make(map[int]*gateway.ProductPageResponse), errs: make(map[int]error)}
}

func (p *scriptedPager) page(n, count int) {
	products := make([]gateway.ProductResponse, count)
	for i := range products {
		products[i] = gateway.ProductResponse{
			ID:         gateway.FlexInt(n*100 + i),
			Code:       "C",
			Name:       "N",
			QtyForSale: 1,
			NetPrice:   10,
		}
	}
	p.pages[n] = &gateway.ProductPageResponse{Products: products}
}

func (p *scriptedPager) fail(n int, err error) { p.errs[n] = err }

func (p *scriptedPager) FetchProductsPage(_ context.Context, _, page int, _ gateway.ProductFilter) (*gateway.ProductPageResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, page)
	if err, ok := p.errs[page]; ok {
		return nil, err
	}
	if resp, ok := p.pages[page]; ok {
		return resp, nil
	}
	return &gateway.ProductPageResponse{}, nil
}

const testPageSize = 3

func newTestCatalog(pager *scriptedPager, maxPages int) (service.CatalogSyncService, *stubProductRepo, *stubStatusRepo) {
	productRepo := newStubProductRepo()
	statusRepo := newStubStatusRepo()
	svc := service.NewCatalogSyncService(pager, productRepo, statusRepo, testPageSize, 3, maxPages)
	return svc, productRepo, statusRepo
}

func TestSyncAllStopsOnShortPage(t *testing.T) {
	pager := newScriptedPager()
	pager.page(1, testPageSize)
	pager.page(2, testPageSize)
	pager.page(3, 1) // short page terminates

	svc, productRepo, statusRepo := newTestCatalog(pager, 100)
	n, err := svc.SyncAll(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []int{1, 2, 3}, pager.calls)
	assert.Len(t, productRepo.products, 7)
	assert.Equal(t, 1, statusRepo.productTouch)
}

func TestSyncAllEmptyFirstPage(t *testing.T) {
	pager := newScriptedPager()
	pager.page(1, 0)

	svc, _, _ := newTestCatalog(pager, 100)
	n, err := svc.SyncAll(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []int{1}, pager.calls)
}

func TestSyncAllSingleFailureAdvancesPage(t *testing.T) {
	pager := newScriptedPager()
	pager.page(1, testPageSize)
	pager.fail(2, errors.New("boom"))
	pager.page(3, 2)

	svc, productRepo, _ := newTestCatalog(pager, 100)
	n, err := svc.SyncAll(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 5, n, "page 2 is lost, page 3 still applied")
	assert.Equal(t, []int{1, 2, 3}, pager.calls)
	assert.Len(t, productRepo.products, 5)
}

func TestSyncAllAbortsAfterConsecutiveFailureBudget(t *testing.T) {
	pager := newScriptedPager()
	pager.page(1, testPageSize)
	pager.fail(2, errors.New("boom"))
	pager.fail(3, errors.New("boom"))
	pager.fail(4, errors.New("boom"))
	pager.page(5, testPageSize) // never reached

	svc, _, statusRepo := newTestCatalog(pager, 100)
	n, err := svc.SyncAll(context.Background(), 1)

	require.Error(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2, 3, 4}, pager.calls)
	assert.Zero(t, statusRepo.productTouch, "aborted sync must not record a success timestamp")
}

func TestSyncAllSuccessResetsFailureBudget(t *testing.T) {
	pager := newScriptedPager()
	pager.page(1, testPageSize)
	pager.fail(2, errors.New("boom"))
	pager.fail(3, errors.New("boom"))
	pager.page(4, testPageSize)
	pager.fail(5, errors.New("boom"))
	pager.fail(6, errors.New("boom"))
	pager.page(7, 0)

	svc, _, _ := newTestCatalog(pager, 100)
	n, err := svc.SyncAll(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestSyncAllPageCeilingIsFatal(t *testing.T) {
	pager := newScriptedPager()
	for i := 1; i <= 10; i++ {
		pager.page(i, testPageSize) // never a short page
	}

	svc, _, _ := newTestCatalog(pager, 5)
	_, err := svc.SyncAll(context.Background(), 1)
	assert.ErrorIs(t, err, service.ErrTooManyPages)
}

func TestSyncAllHonorsContextCancellation(t *testing.T) {
	pager := newScriptedPager()
	pager.page(1, testPageSize)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, _, _ := newTestCatalog(pager, 100)
	_, err := svc.SyncAll(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pager.calls)
}

func TestSyncFirstPageFetchesOnlyPageOne(t *testing.T) {
	pager := newScriptedPager()
	pager.page(1, testPageSize)
	pager.page(2, testPageSize)

	svc, _, _ := newTestCatalog(pager, 100)
	n, err := svc.SyncFirstPage(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, testPageSize, n)
	assert.Equal(t, []int{1}, pager.calls)
}

func TestToProductMapping(t *testing.T) {
	pager := newScriptedPager()
	pager.pages[1] = &gateway.ProductPageResponse{Products: []gateway.ProductResponse{{
		ID:         7,
		Code:       "ABC",
		Name:       "Soda",
		Barcode:    "779",
		Qty:        12,
		QtyForSale: -3, // negative availability clamps to zero
		NetPrice:   4.5,
		CategoryID: 2,
	}}}

	svc, productRepo, _ := newTestCatalog(pager, 100)
	_, err := svc.SyncFirstPage(context.Background(), 1)
	require.NoError(t, err)

	p := productRepo.products[7]
	assert.Equal(t, "ABC", p.Code)
	require.NotNil(t, p.Barcode)
	assert.Equal(t, "779", *p.Barcode)
	assert.Equal(t, 0.0, p.QtyAvailable)
	assert.Equal(t, 12.0, p.QtyOnHand)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, 2, *p.CategoryID)
	assert.True(t, p.Synced)
}
