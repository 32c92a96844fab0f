package handler

import (
	"net/http"
	"strconv"

	"jaymapos/internal/apierror"
	"jaymapos/internal/service"

	"github.com/gin-gonic/gin"
)

type DraftsHandler struct {
	drafts service.DraftService
	cart   service.CartService
}

func NewDraftsHandler(drafts service.DraftService, cart service.CartService) *DraftsHandler {
	return &DraftsHandler{drafts: drafts, cart: cart}
}

// SaveFromCart parks the current cart as a draft and clears it so the
// cashier can serve the next customer.
func (h *DraftsHandler) SaveFromCart(c *gin.Context) {
	localID, err := h.drafts.SaveFromCart(c.Request.Context(), h.cart.Cart())
	if err != nil {
		respondError(c, err)
		return
	}
	h.cart.Clear()
	c.JSON(http.StatusCreated, gin.H{"draft_local_id": localID})
}

func (h *DraftsHandler) List(c *gin.Context) {
	drafts, err := h.drafts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

func (h *DraftsHandler) ListRemote(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	resp, err := h.drafts.ListRemote(c.Request.Context(), limit, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DraftsHandler) Delete(c *gin.Context) {
	localID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid draft id"))
		return
	}
	if err := h.drafts.Delete(c.Request.Context(), localID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
