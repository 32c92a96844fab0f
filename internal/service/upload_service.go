package service

import (
	"context"
	"errors"
	"time"

	"jaymapos/internal/gateway"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"

	"github.com/rs/zerolog/log"
)

// ErrAllUploadsFailed marks an upload cycle where no pending sale reached
// the server. The scheduler treats it as retry-worthy, not fatal — every
// sale is still sitting unsynced in the local store.
var ErrAllUploadsFailed = errors.New("no pending sale could be uploaded")

// SaleSubmitter is the slice of the remote gateway the upload engine needs.
type SaleSubmitter interface {
	SubmitSale(ctx context.Context, req gateway.SubmitSaleRequest) (*gateway.SubmitSaleResponse, error)
}

type UploadReport struct {
	Attempted int
	Uploaded  int
	Failed    int
}

// SaleUploadService pushes locally committed, not-yet-acknowledged sales to
// the server, one at a time. A sale is only ever mutated on a positive
// acknowledgement (success with a server id); every other outcome leaves it
// untouched for the next cycle.
type SaleUploadService interface {
	UploadPending(ctx context.Context) (UploadReport, error)
}

type saleUploadService struct {
	saleRepo   repository.SaleRepository
	statusRepo repository.SyncStatusRepository
	submitter  SaleSubmitter
}

func NewSaleUploadService(saleRepo repository.SaleRepository, statusRepo repository.SyncStatusRepository, submitter SaleSubmitter) SaleUploadService {
	return &saleUploadService{saleRepo: saleRepo, statusRepo: statusRepo, submitter: submitter}
}

func (s *saleUploadService) UploadPending(ctx context.Context) (UploadReport, error) {
	pending, err := s.saleRepo.ListUnsynced(ctx)
	if err != nil {
		return UploadReport{}, err
	}
	if len(pending) == 0 {
		return UploadReport{}, nil
	}

	report := UploadReport{Attempted: len(pending)}

	// Sales are processed sequentially: it keeps the at-least-one-success
	// policy simple and bounds the load on the tenant. One sale's failure
	// must never block the rest.
	for i := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sale := &pending[i]
		if err := s.uploadOne(ctx, sale); err != nil {
			report.Failed++
			log.Warn().
				Int64("sale_local_id", sale.LocalID).
				Str("offline_id", sale.OfflineID).
				Err(err).
				Msg("sale upload: sale failed, will retry next cycle")
			continue
		}
		report.Uploaded++
	}

	if report.Uploaded > 0 {
		if err := s.statusRepo.TouchSaleSync(ctx, time.Now()); err != nil {
			log.Warn().Err(err).Msg("sale upload: failed to record sync timestamp")
		}
		log.Info().
			Int("uploaded", report.Uploaded).
			Int("failed", report.Failed).
			Msg("sale upload: cycle complete")
		return report, nil
	}
	return report, ErrAllUploadsFailed
}

func (s *saleUploadService) uploadOne(ctx context.Context, sale *model.Sale) error {
	lines, err := s.saleRepo.Lines(ctx, sale.LocalID)
	if err != nil {
		return err
	}
	payments, err := s.saleRepo.Payments(ctx, sale.LocalID)
	if err != nil {
		return err
	}

	resp, err := s.submitter.SubmitSale(ctx, buildSubmitRequest(sale, lines, payments))
	if err != nil {
		return err
	}
	if !resp.Success || resp.ID.Int() <= 0 {
		// A 2xx without a usable id is still a failed upload; the sale
		// stays pending rather than being half-marked.
		return errors.New("server did not acknowledge the sale")
	}

	return s.saleRepo.MarkSynced(ctx, sale.LocalID, resp.ID.Int())
}

func buildSubmitRequest(sale *model.Sale, lines []model.SaleLine, payments []model.Payment) gateway.SubmitSaleRequest {
	req := gateway.SubmitSaleRequest{
		OfflineID:   sale.OfflineID,
		ClientID:    sale.ClientID,
		WarehouseID: sale.WarehouseID,
		TaxRate:     sale.TaxRate.InexactFloat64(),
		TaxNet:      sale.TaxNet.InexactFloat64(),
		Discount:    sale.Discount.InexactFloat64(),
		Shipping:    sale.Shipping.InexactFloat64(),
		GrandTotal:  sale.GrandTotal.InexactFloat64(),
	}
	if sale.Notes != nil {
		req.Notes = *sale.Notes
	}
	for _, l := range lines {
		req.Details = append(req.Details, gateway.SaleDetailRequest{
			ProductID:        l.ProductID,
			ProductVariantID: l.ProductVariantID,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice.InexactFloat64(),
			Subtotal:         l.Subtotal.InexactFloat64(),
			TaxPercent:       l.TaxPercent.InexactFloat64(),
			Discount:         l.Discount.InexactFloat64(),
			Name:             l.ProductName,
		})
	}
	for _, p := range payments {
		req.Payments = append(req.Payments, gateway.PaymentRequest{
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount.InexactFloat64(),
		})
	}
	return req
}
