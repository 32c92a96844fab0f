package handler

import (
	"context"
	"net/http"
	"strconv"

	"jaymapos/internal/apierror"
	"jaymapos/internal/dto"
	"jaymapos/internal/gateway"
	"jaymapos/internal/infra"
	"jaymapos/internal/repository"

	"github.com/gin-gonic/gin"
)

// SaleFetcher is the slice of the remote gateway the sales browser needs.
type SaleFetcher interface {
	FetchSales(ctx context.Context, limit, page int) (*gateway.SalesListResponse, error)
}

type SalesHandler struct {
	repo         repository.SaleRepository
	gw           SaleFetcher
	businessName string
	receiptPath  string
}

func NewSalesHandler(repo repository.SaleRepository, gw SaleFetcher, businessName, receiptPath string) *SalesHandler {
	return &SalesHandler{repo: repo, gw: gw, businessName: businessName, receiptPath: receiptPath}
}

// List returns the local sale journal: everything sold on this terminal,
// synced or not.
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	sales, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales, "total": total})
}

func (h *SalesHandler) GetByLocalID(c *gin.Context) {
	localID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale id"))
		return
	}
	sale, err := h.repo.FindByLocalID(c.Request.Context(), localID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Receipt renders and serves a PDF receipt for a committed sale.
func (h *SalesHandler) Receipt(c *gin.Context) {
	localID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale id"))
		return
	}
	ctx := c.Request.Context()
	sale, err := h.repo.FindByLocalID(ctx, localID)
	if err != nil {
		respondError(c, err)
		return
	}
	lines, err := h.repo.Lines(ctx, localID)
	if err != nil {
		respondError(c, err)
		return
	}
	payments, err := h.repo.Payments(ctx, localID)
	if err != nil {
		respondError(c, err)
		return
	}

	path, err := infra.GenerateReceiptPDF(sale, lines, payments, h.businessName, h.receiptPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "receipt.pdf")
}

// ListRemote proxies the tenant's sale history for reconciliation views.
func (h *SalesHandler) ListRemote(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	resp, err := h.gw.FetchSales(c.Request.Context(), limit, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
