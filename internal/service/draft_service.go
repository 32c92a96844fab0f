package service

import (
	"context"
	"errors"
	"time"

	"jaymapos/internal/dto"
	"jaymapos/internal/gateway"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrEmptyDraft = errors.New("cannot save an empty cart as a draft")

// DraftSubmitter is the slice of the remote gateway drafts need.
type DraftSubmitter interface {
	SubmitDraft(ctx context.Context, req gateway.SubmitDraftRequest) (*gateway.SubmitDraftResponse, error)
	FetchDrafts(ctx context.Context, limit, page int) (*gateway.DraftListResponse, error)
	DeleteDraft(ctx context.Context, id int) error
}

// DraftService parks a cart locally so the cashier can serve the next
// customer and resume later. Drafts follow the same offline journal pattern
// as sales: saved locally first, pushed to the server opportunistically.
type DraftService interface {
	SaveFromCart(ctx context.Context, cart dto.CartResponse) (int64, error)
	List(ctx context.Context) ([]model.Draft, error)
	ListRemote(ctx context.Context, limit, page int) (*gateway.DraftListResponse, error)
	PushPending(ctx context.Context) error
	Delete(ctx context.Context, localID int64) error
}

type draftService struct {
	draftRepo repository.DraftRepository
	statusRepo repository.SyncStatusRepository
	gw        DraftSubmitter
}

func NewDraftService(draftRepo repository.DraftRepository, statusRepo repository.SyncStatusRepository, gw DraftSubmitter) DraftService {
	return &draftService{draftRepo: draftRepo, statusRepo: statusRepo, gw: gw}
}

func (s *draftService) SaveFromCart(ctx context.Context, cart dto.CartResponse) (int64, error) {
	if len(cart.Lines) == 0 {
		return 0, ErrEmptyDraft
	}

	taxRate := decimal.Zero
	if cart.Subtotal.IsPositive() {
		taxRate = cart.Tax.Div(cart.Subtotal).Mul(decimal.NewFromInt(100))
	}

	draft := &model.Draft{
		ClientID:    cart.ClientID,
		WarehouseID: cart.WarehouseID,
		TaxRate:     taxRate,
		TaxNet:      cart.Tax,
		Discount:    cart.Discount,
		Shipping:    cart.Shipping,
		GrandTotal:  cart.Total,
		CreatedAt:   time.Now(),
	}
	lines := make([]model.DraftLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, model.DraftLine{
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
			ProductName: l.ProductName,
		})
	}

	localID, err := s.draftRepo.Create(ctx, draft, lines)
	if err != nil {
		return 0, err
	}
	log.Info().Int64("draft_local_id", localID).Int("lines", len(lines)).Msg("draft saved")
	return localID, nil
}

func (s *draftService) List(ctx context.Context) ([]model.Draft, error) {
	return s.draftRepo.List(ctx)
}

func (s *draftService) ListRemote(ctx context.Context, limit, page int) (*gateway.DraftListResponse, error) {
	return s.gw.FetchDrafts(ctx, limit, page)
}

// PushPending mirrors the sale upload cycle for drafts: sequential, per-item
// failure isolation, timestamp touched when at least one draft went through.
func (s *draftService) PushPending(ctx context.Context) error {
	pending, err := s.draftRepo.ListUnsynced(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	var pushed int
	for i := range pending {
		if ctx.Err() != nil {
			break
		}
		if err := s.pushOne(ctx, &pending[i]); err != nil {
			log.Warn().Err(err).Int64("draft_local_id", pending[i].LocalID).Msg("draft push failed")
			continue
		}
		pushed++
	}

	if pushed > 0 {
		if err := s.statusRepo.TouchDraftSync(ctx, time.Now()); err != nil {
			log.Warn().Err(err).Msg("touch draft sync timestamp")
		}
	}
	return ctx.Err()
}

func (s *draftService) pushOne(ctx context.Context, draft *model.Draft) error {
	lines, err := s.draftRepo.Lines(ctx, draft.LocalID)
	if err != nil {
		return err
	}

	req := gateway.SubmitDraftRequest{
		ClientID:    draft.ClientID,
		WarehouseID: draft.WarehouseID,
		TaxRate:     draft.TaxRate.InexactFloat64(),
		TaxNet:      draft.TaxNet.InexactFloat64(),
		Discount:    draft.Discount.InexactFloat64(),
		Shipping:    draft.Shipping.InexactFloat64(),
		GrandTotal:  draft.GrandTotal.InexactFloat64(),
		Details:     make([]gateway.SaleDetailRequest, 0, len(lines)),
	}
	if draft.Notes != nil {
		req.Notes = *draft.Notes
	}
	for _, l := range lines {
		req.Details = append(req.Details, gateway.SaleDetailRequest{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.InexactFloat64(),
			Subtotal:  l.Subtotal.InexactFloat64(),
			Name:      l.ProductName,
		})
	}

	resp, err := s.gw.SubmitDraft(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Success || resp.ID.Int() <= 0 {
		return errors.New("server rejected the draft")
	}
	return s.draftRepo.MarkSynced(ctx, draft.LocalID, resp.ID.Int())
}

// Delete removes a draft locally and, when it already reached the server,
// remotely too. The remote delete is best effort: a connectivity failure
// leaves the server copy behind rather than blocking the local delete.
func (s *draftService) Delete(ctx context.Context, localID int64) error {
	draft, err := s.draftRepo.FindByLocalID(ctx, localID)
	if err != nil {
		return err
	}
	if draft.ServerID != nil {
		if err := s.gw.DeleteDraft(ctx, *draft.ServerID); err != nil {
			log.Warn().Err(err).Int("server_id", *draft.ServerID).Msg("remote draft delete failed")
		}
	}
	return s.draftRepo.Delete(ctx, localID)
}
