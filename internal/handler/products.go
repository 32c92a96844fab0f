package handler

import (
	"net/http"
	"strconv"

	"jaymapos/internal/apierror"
	"jaymapos/internal/dto"
	"jaymapos/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductsHandler serves the local product cache. It never talks to the
// tenant API: what the cashier sees is whatever the last catalog sync
// committed, online or not.
type ProductsHandler struct{ repo repository.ProductRepository }

func NewProductsHandler(repo repository.ProductRepository) *ProductsHandler {
	return &ProductsHandler{repo: repo}
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	products, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": total})
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetByBarcode is the scanner fast path.
func (h *ProductsHandler) GetByBarcode(c *gin.Context) {
	p, err := h.repo.FindByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
