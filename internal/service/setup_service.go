package service

import (
	"context"
	"errors"
	"fmt"

	"jaymapos/internal/dto"
	"jaymapos/internal/gateway"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"

	"github.com/rs/zerolog/log"
)

// Configuration errors surfaced by setup. They are never retried
// automatically — someone has to fix the tenant backoffice.
var (
	ErrNoWarehouses = errors.New("no warehouses available, configure at least one warehouse in the system")
	ErrNoClients    = errors.New("no clients available, configure at least one client in the system")
)

// Bootstrapper is the slice of the remote gateway setup needs.
type Bootstrapper interface {
	FetchBootstrap(ctx context.Context) (*gateway.BootstrapResponse, error)
	CreateClient(ctx context.Context, req gateway.CreateClientRequest) (*gateway.CreateClientResponse, error)
}

// SetupService runs the terminal bootstrap: fetch reference data, resolve
// the terminal defaults, cache everything locally, then warm the catalog
// with a first-page-fast sync.
//
// Default policy: a non-positive default warehouse/client id from the server
// falls back to the first entry of the respective list; only an empty list
// is a configuration error. The policy is applied here and nowhere else.
type SetupService interface {
	RunSetup(ctx context.Context) (*dto.SetupResponse, error)
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*model.Client, error)
}

type setupService struct {
	gw       Bootstrapper
	posRepo  repository.PosDataRepository
	settings repository.SettingsRepository
	catalog  CatalogSyncService
}

func NewSetupService(gw Bootstrapper, posRepo repository.PosDataRepository, settings repository.SettingsRepository, catalog CatalogSyncService) SetupService {
	return &setupService{gw: gw, posRepo: posRepo, settings: settings, catalog: catalog}
}

func (s *setupService) RunSetup(ctx context.Context) (*dto.SetupResponse, error) {
	boot, err := s.gw.FetchBootstrap(ctx)
	if err != nil {
		return nil, err
	}

	warehouseID := boot.DefaultWarehouse.Int()
	if warehouseID <= 0 {
		if len(boot.Warehouses) == 0 {
			return nil, ErrNoWarehouses
		}
		warehouseID = boot.Warehouses[0].ID.Int()
		log.Warn().Int("warehouse_id", warehouseID).Msg("setup: server reported no default warehouse, using the first one")
	}

	clientID := boot.DefaultClient.Int()
	if clientID <= 0 {
		if len(boot.Clients) == 0 {
			return nil, ErrNoClients
		}
		clientID = boot.Clients[0].ID.Int()
		log.Warn().Int("client_id", clientID).Msg("setup: server reported no default client, using the first one")
	}

	if err := s.cacheReferenceData(ctx, boot, warehouseID, clientID); err != nil {
		return nil, fmt.Errorf("cache bootstrap data: %w", err)
	}

	if err := s.settings.SetInt(ctx, model.SettingDefaultWarehouse, warehouseID); err != nil {
		return nil, err
	}
	if err := s.settings.SetInt(ctx, model.SettingDefaultClient, clientID); err != nil {
		return nil, err
	}
	if pp := boot.ProductsPerPage.Int(); pp > 0 {
		if err := s.settings.SetInt(ctx, model.SettingProductsPerPage, pp); err != nil {
			return nil, err
		}
	}

	// First page synchronously so the cashier sees products right away;
	// the rest of the catalog streams in behind.
	firstPage, err := s.catalog.SyncFastStart(ctx, warehouseID)
	if err != nil {
		// Reference data is cached and defaults are set; the periodic
		// catalog sync will fill the product table. Setup still succeeds.
		log.Warn().Err(err).Msg("setup: initial catalog sync failed, periodic sync will retry")
	}

	return &dto.SetupResponse{
		DefaultWarehouseID: warehouseID,
		DefaultClientID:    clientID,
		ProductsPerPage:    boot.ProductsPerPage.Int(),
		FirstPageProducts:  firstPage,
		Message:            fmt.Sprintf("Loaded %d products (loading more in background)", firstPage),
	}, nil
}

func (s *setupService) cacheReferenceData(ctx context.Context, boot *gateway.BootstrapResponse, warehouseID, clientID int) error {
	clients := make([]model.Client, 0, len(boot.Clients))
	for _, c := range boot.Clients {
		clients = append(clients, model.Client{
			ID:        c.ID.Int(),
			Name:      c.Name,
			Phone:     optional(c.Phone),
			Email:     optional(c.Email),
			Address:   optional(c.Address),
			IsDefault: c.ID.Int() == clientID,
		})
	}
	if err := s.posRepo.ReplaceClients(ctx, clients); err != nil {
		return err
	}

	warehouses := make([]model.Warehouse, 0, len(boot.Warehouses))
	for _, w := range boot.Warehouses {
		warehouses = append(warehouses, model.Warehouse{
			ID:        w.ID.Int(),
			Name:      w.Name,
			IsDefault: w.ID.Int() == warehouseID,
		})
	}
	if err := s.posRepo.ReplaceWarehouses(ctx, warehouses); err != nil {
		return err
	}

	categories := make([]model.Category, 0, len(boot.Categories))
	for _, c := range boot.Categories {
		categories = append(categories, model.Category{ID: c.ID.Int(), Name: c.Name})
	}
	if err := s.posRepo.ReplaceCategories(ctx, categories); err != nil {
		return err
	}

	brands := make([]model.Brand, 0, len(boot.Brands))
	for _, b := range boot.Brands {
		brands = append(brands, model.Brand{ID: b.ID.Int(), Name: b.Name})
	}
	if err := s.posRepo.ReplaceBrands(ctx, brands); err != nil {
		return err
	}

	methods := make([]model.PaymentMethod, 0, len(boot.PaymentMethods))
	for _, m := range boot.PaymentMethods {
		methods = append(methods, model.PaymentMethod{ID: m.ID.Int(), Name: m.Name})
	}
	return s.posRepo.ReplacePaymentMethods(ctx, methods)
}

// CreateClient registers a customer remotely and caches it locally on
// success, so the new client is selectable even if the next bootstrap is
// days away.
func (s *setupService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*model.Client, error) {
	resp, err := s.gw.CreateClient(ctx, gateway.CreateClientRequest{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.ID.Int() <= 0 {
		return nil, errors.New("server rejected the client")
	}

	client := &model.Client{
		ID:      resp.ID.Int(),
		Name:    req.Name,
		Phone:   optional(req.Phone),
		Email:   optional(req.Email),
		Address: optional(req.Address),
	}
	if err := s.posRepo.UpsertClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
