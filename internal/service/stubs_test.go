package service_test

import (
	"context"
	"sync"
	"time"

	"jaymapos/internal/dto"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"

	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository.
type stubProductRepo struct {
	mu       sync.Mutex
	products map[int]model.Product
	upserts  int
}

func newStubProductRepo(products ...model.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[int]model.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) UpsertBatch(_ context.Context, products []model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		r.products[p.ID] = p
	}
	r.upserts++
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository journal.
type stubSaleRepo struct {
	mu       sync.Mutex
	nextID   int64
	sales    map[int64]*model.Sale
	lines    map[int64][]model.SaleLine
	payments map[int64][]model.Payment

	commitErr error
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales:    make(map[int64]*model.Sale),
		lines:    make(map[int64][]model.SaleLine),
		payments: make(map[int64][]model.Payment),
	}
}

func (r *stubSaleRepo) CommitSale(_ context.Context, sale *model.Sale, lines []model.SaleLine, payments []model.Payment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commitErr != nil {
		return 0, r.commitErr
	}
	r.nextID++
	sale.LocalID = r.nextID
	r.sales[sale.LocalID] = sale
	r.lines[sale.LocalID] = lines
	r.payments[sale.LocalID] = payments
	return sale.LocalID, nil
}

func (r *stubSaleRepo) ListUnsynced(_ context.Context) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for id := int64(1); id <= r.nextID; id++ {
		if s, ok := r.sales[id]; ok && !s.Synced {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) CountUnsynced(ctx context.Context) (int64, error) {
	pending, _ := r.ListUnsynced(ctx)
	return int64(len(pending)), nil
}

func (r *stubSaleRepo) MarkSynced(_ context.Context, localID int64, serverID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[localID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.ServerID = &serverID
	s.Synced = true
	return nil
}

func (r *stubSaleRepo) FindByLocalID(_ context.Context, localID int64) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[localID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) Lines(_ context.Context, localID int64) ([]model.SaleLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lines[localID], nil
}

func (r *stubSaleRepo) Payments(_ context.Context, localID int64) ([]model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[localID], nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for id := int64(1); id <= r.nextID; id++ {
		if s, ok := r.sales[id]; ok {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubSettingsRepo is an in-memory SettingsRepository.
type stubSettingsRepo struct {
	mu      sync.Mutex
	strings map[string]string
	ints    map[string]int
	baseURL string
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{strings: make(map[string]string), ints: make(map[string]int)}
}

func (r *stubSettingsRepo) GetString(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.strings[key]
	return v, ok, nil
}

func (r *stubSettingsRepo) SetString(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings[key] = value
	return nil
}

func (r *stubSettingsRepo) GetInt(_ context.Context, key string) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ints[key]
	return v, ok, nil
}

func (r *stubSettingsRepo) SetInt(_ context.Context, key string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints[key] = value
	return nil
}

func (r *stubSettingsRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.strings, key)
	delete(r.ints, key)
	return nil
}

func (r *stubSettingsRepo) APIBaseURL(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.baseURL, nil
}

func (r *stubSettingsRepo) SetAPIBaseURL(_ context.Context, baseURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseURL = baseURL
	return nil
}

var _ repository.SettingsRepository = (*stubSettingsRepo)(nil)

// stubStatusRepo records timestamp touches.
type stubStatusRepo struct {
	mu            sync.Mutex
	status        model.SyncStatus
	productTouch  int
	saleTouch     int
	draftTouch    int
	inProgressLog []bool
}

func newStubStatusRepo() *stubStatusRepo {
	return &stubStatusRepo{status: model.SyncStatus{ID: 1}}
}

func (r *stubStatusRepo) Get(_ context.Context) (*model.SyncStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.status
	return &st, nil
}

func (r *stubStatusRepo) SetInProgress(_ context.Context, inProgress bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.InProgress = inProgress
	r.inProgressLog = append(r.inProgressLog, inProgress)
	return nil
}

func (r *stubStatusRepo) TouchProductSync(_ context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.LastProductSyncAt = at
	r.productTouch++
	return nil
}

func (r *stubStatusRepo) TouchSaleSync(_ context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.LastSaleSyncAt = at
	r.saleTouch++
	return nil
}

func (r *stubStatusRepo) TouchDraftSync(_ context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status.LastDraftSyncAt = at
	r.draftTouch++
	return nil
}

var _ repository.SyncStatusRepository = (*stubStatusRepo)(nil)

// stubTrigger counts scheduler kicks.
type stubTrigger struct {
	mu       sync.Mutex
	sales    int
	products int
}

func (t *stubTrigger) TriggerSaleUpload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sales++
}

func (t *stubTrigger) TriggerProductSync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.products++
}

// stubDraftRepo is an in-memory DraftRepository.
type stubDraftRepo struct {
	mu     sync.Mutex
	nextID int64
	drafts map[int64]*model.Draft
	lines  map[int64][]model.DraftLine
}

func newStubDraftRepo() *stubDraftRepo {
	return &stubDraftRepo{drafts: make(map[int64]*model.Draft), lines: make(map[int64][]model.DraftLine)}
}

func (r *stubDraftRepo) Create(_ context.Context, draft *model.Draft, lines []model.DraftLine) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	draft.LocalID = r.nextID
	r.drafts[draft.LocalID] = draft
	r.lines[draft.LocalID] = lines
	return draft.LocalID, nil
}

func (r *stubDraftRepo) List(_ context.Context) ([]model.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Draft
	for id := int64(1); id <= r.nextID; id++ {
		if d, ok := r.drafts[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDraftRepo) ListUnsynced(_ context.Context) ([]model.Draft, error) {
	all, _ := r.List(context.Background())
	var out []model.Draft
	for _, d := range all {
		if !d.Synced {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDraftRepo) FindByLocalID(_ context.Context, localID int64) (*model.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[localID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *stubDraftRepo) Lines(_ context.Context, localID int64) ([]model.DraftLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lines[localID], nil
}

func (r *stubDraftRepo) MarkSynced(_ context.Context, localID int64, serverID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[localID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.ServerID = &serverID
	d.Synced = true
	return nil
}

func (r *stubDraftRepo) Delete(_ context.Context, localID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, localID)
	delete(r.lines, localID)
	return nil
}

var _ repository.DraftRepository = (*stubDraftRepo)(nil)

// stubPosDataRepo records replaced reference data.
type stubPosDataRepo struct {
	mu             sync.Mutex
	clients        []model.Client
	warehouses     []model.Warehouse
	categories     []model.Category
	brands         []model.Brand
	paymentMethods []model.PaymentMethod
}

func (r *stubPosDataRepo) ReplaceClients(_ context.Context, clients []model.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = clients
	return nil
}

func (r *stubPosDataRepo) ReplaceWarehouses(_ context.Context, warehouses []model.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses = warehouses
	return nil
}

func (r *stubPosDataRepo) ReplaceCategories(_ context.Context, categories []model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = categories
	return nil
}

func (r *stubPosDataRepo) ReplaceBrands(_ context.Context, brands []model.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brands = brands
	return nil
}

func (r *stubPosDataRepo) ReplacePaymentMethods(_ context.Context, methods []model.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paymentMethods = methods
	return nil
}

func (r *stubPosDataRepo) UpsertClient(_ context.Context, client *model.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		if r.clients[i].ID == client.ID {
			r.clients[i] = *client
			return nil
		}
	}
	r.clients = append(r.clients, *client)
	return nil
}

func (r *stubPosDataRepo) ListClients(_ context.Context) ([]model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clients, nil
}

func (r *stubPosDataRepo) ListWarehouses(_ context.Context) ([]model.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warehouses, nil
}

func (r *stubPosDataRepo) ListPaymentMethods(_ context.Context) ([]model.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paymentMethods, nil
}

func (r *stubPosDataRepo) ListCategories(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.categories, nil
}

func (r *stubPosDataRepo) ListBrands(_ context.Context) ([]model.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.brands, nil
}

func (r *stubPosDataRepo) DefaultClient(_ context.Context) (*model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		if r.clients[i].IsDefault {
			return &r.clients[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPosDataRepo) DefaultWarehouse(_ context.Context) (*model.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.warehouses {
		if r.warehouses[i].IsDefault {
			return &r.warehouses[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.PosDataRepository = (*stubPosDataRepo)(nil)
