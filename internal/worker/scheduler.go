package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"jaymapos/internal/config"
	"jaymapos/internal/dto"
	"jaymapos/internal/infra"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"
	"jaymapos/internal/service"

	"github.com/rs/zerolog/log"
)

// Scheduler owns the three periodic sync jobs: catalog refresh, sale upload
// and draft push. Each job carries its own in-flight flag, so a slow catalog
// sync never blocks a sale upload and vice versa. Triggering a job that is
// already running coalesces into the running pass instead of queueing.
type Scheduler struct {
	cfg      config.SyncConfig
	catalog  service.CatalogSyncService
	uploads  service.SaleUploadService
	drafts   service.DraftService
	saleRepo repository.SaleRepository
	settings repository.SettingsRepository
	status   repository.SyncStatusRepository
	breaker  *infra.CircuitBreaker

	productRunning atomic.Bool
	saleRunning    atomic.Bool
	draftRunning   atomic.Bool

	runMu     sync.Mutex
	cancelRun context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(
	cfg config.SyncConfig,
	catalog service.CatalogSyncService,
	uploads service.SaleUploadService,
	drafts service.DraftService,
	saleRepo repository.SaleRepository,
	settings repository.SettingsRepository,
	status repository.SyncStatusRepository,
	breaker *infra.CircuitBreaker,
) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:      cfg,
		catalog:  catalog,
		uploads:  uploads,
		drafts:   drafts,
		saleRepo: saleRepo,
		settings: settings,
		status:   status,
		breaker:  breaker,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the ticker loops. An immediate sale upload pass runs on
// startup so sales stranded by a crash or overnight shutdown go out as soon
// as the terminal is back.
func (s *Scheduler) Start() {
	s.loop(s.cfg.ProductSyncInterval, s.runProductSync)
	s.loop(s.cfg.SaleUploadInterval, s.runSaleUpload)
	s.loop(s.cfg.DraftSyncInterval, s.runDraftPush)
	s.TriggerSaleUpload()
	log.Info().
		Dur("product_interval", s.cfg.ProductSyncInterval).
		Dur("sale_interval", s.cfg.SaleUploadInterval).
		Dur("draft_interval", s.cfg.DraftSyncInterval).
		Msg("sync scheduler started")
}

// Stop cancels every running job and waits for the loops to drain.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("sync scheduler stopped")
}

func (s *Scheduler) loop(interval time.Duration, job func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				job(s.ctx)
			}
		}
	}()
}

// TriggerProductSync requests an immediate catalog refresh. A trigger while
// a refresh is already in flight coalesces into the running pass.
func (s *Scheduler) TriggerProductSync() {
	go s.runProductSync(s.ctx)
}

func (s *Scheduler) TriggerSaleUpload() {
	go s.runSaleUpload(s.ctx)
}

func (s *Scheduler) TriggerDraftSync() {
	go s.runDraftPush(s.ctx)
}

// CancelProductSync aborts an in-flight catalog refresh. Returns false when
// no refresh is running. The next tick or trigger starts over from page 1.
func (s *Scheduler) CancelProductSync() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancelRun == nil {
		return false
	}
	s.cancelRun()
	return true
}

func (s *Scheduler) runProductSync(ctx context.Context) {
	if !s.productRunning.CompareAndSwap(false, true) {
		log.Debug().Msg("catalog sync already running, trigger coalesced")
		return
	}
	defer s.productRunning.Store(false)

	runCtx, cancelRun := context.WithCancel(ctx)
	s.runMu.Lock()
	s.cancelRun = cancelRun
	s.runMu.Unlock()
	defer func() {
		s.runMu.Lock()
		s.cancelRun = nil
		s.runMu.Unlock()
		cancelRun()
	}()

	warehouseID, ok, err := s.settings.GetInt(ctx, model.SettingDefaultWarehouse)
	if err != nil || !ok || warehouseID <= 0 {
		log.Debug().Msg("catalog sync skipped, terminal not set up yet")
		return
	}

	if err := s.status.SetInProgress(ctx, true); err != nil {
		log.Warn().Err(err).Msg("persist sync-in-progress flag")
	}
	defer func() {
		if err := s.status.SetInProgress(context.WithoutCancel(ctx), false); err != nil {
			log.Warn().Err(err).Msg("clear sync-in-progress flag")
		}
	}()

	err = s.breaker.Execute(func() error {
		_, err := s.catalog.SyncAll(runCtx, warehouseID)
		if errors.Is(err, context.Canceled) {
			// A cashier-initiated cancel must not count against the breaker.
			log.Info().Msg("catalog sync cancelled")
			return nil
		}
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, infra.ErrCircuitOpen):
		log.Debug().Msg("catalog sync skipped, circuit open")
	case errors.Is(err, service.ErrTooManyPages):
		log.Error().Err(err).Msg("catalog sync aborted")
	default:
		log.Warn().Err(err).Msg("catalog sync failed, will retry next tick")
	}
}

func (s *Scheduler) runSaleUpload(ctx context.Context) {
	if !s.saleRunning.CompareAndSwap(false, true) {
		log.Debug().Msg("sale upload already running, trigger coalesced")
		return
	}
	defer s.saleRunning.Store(false)

	err := s.breaker.Execute(func() error {
		report, err := s.uploads.UploadPending(ctx)
		if report.Attempted > 0 {
			log.Info().
				Int("attempted", report.Attempted).
				Int("uploaded", report.Uploaded).
				Int("failed", report.Failed).
				Msg("sale upload cycle finished")
		}
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, infra.ErrCircuitOpen):
		log.Debug().Msg("sale upload skipped, circuit open")
	case errors.Is(err, context.Canceled):
	default:
		log.Warn().Err(err).Msg("sale upload failed, will retry next tick")
	}
}

func (s *Scheduler) runDraftPush(ctx context.Context) {
	if !s.draftRunning.CompareAndSwap(false, true) {
		log.Debug().Msg("draft push already running, trigger coalesced")
		return
	}
	defer s.draftRunning.Store(false)

	err := s.breaker.Execute(func() error {
		return s.drafts.PushPending(ctx)
	})
	if err != nil && !errors.Is(err, infra.ErrCircuitOpen) && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("draft push failed, will retry next tick")
	}
}

// Status reports the persisted sync timestamps together with the live
// in-flight flags and the size of the pending sale backlog.
func (s *Scheduler) Status(ctx context.Context) (*dto.SyncStatusResponse, error) {
	st, err := s.status.Get(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.saleRepo.CountUnsynced(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SyncStatusResponse{
		LastProductSyncAt: st.LastProductSyncAt,
		LastSaleSyncAt:    st.LastSaleSyncAt,
		LastDraftSyncAt:   st.LastDraftSyncAt,
		ProductSyncActive: s.productRunning.Load(),
		SaleUploadActive:  s.saleRunning.Load(),
		PendingSales:      pending,
	}, nil
}
