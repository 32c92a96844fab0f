package handler

import (
	"net/http"
	"strconv"

	"jaymapos/internal/apierror"
	"jaymapos/internal/dto"
	"jaymapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CartHandler struct{ cart service.CartService }

func NewCartHandler(cart service.CartService) *CartHandler { return &CartHandler{cart: cart} }

func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.Cart())
}

// AddItem accepts either a product id or a raw scanned barcode.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddToCartRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var err error
	if req.ProductID > 0 {
		err = h.cart.AddToCart(c.Request.Context(), req.ProductID, req.Quantity)
	} else {
		_, err = h.cart.AddByBarcode(c.Request.Context(), req.Barcode, req.Quantity)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cart.Cart())
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	var req dto.UpdateQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.cart.UpdateQuantity(c.Request.Context(), productID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cart.Cart())
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	h.cart.RemoveFromCart(productID)
	c.JSON(http.StatusOK, h.cart.Cart())
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.cart.Clear()
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) SetAdjustments(c *gin.Context) {
	var req dto.CartAdjustmentsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.cart.SetAdjustments(req.Tax, req.Discount, req.Shipping)
	c.JSON(http.StatusOK, h.cart.Cart())
}

func (h *CartHandler) SelectClient(c *gin.Context) {
	var req dto.SelectClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.cart.SetClient(req.ClientID)
	c.JSON(http.StatusOK, h.cart.Cart())
}

func (h *CartHandler) SelectWarehouse(c *gin.Context) {
	var req dto.SelectWarehouseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.cart.SetWarehouse(req.WarehouseID)
	c.JSON(http.StatusOK, h.cart.Cart())
}

// Checkout commits the sale locally. The response is immediate; the upload
// to the server happens in the background.
func (h *CartHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cart.Checkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
