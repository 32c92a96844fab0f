package handler

import (
	"net/http"

	"jaymapos/internal/apierror"
	"jaymapos/internal/dto"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"
	"jaymapos/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupHandler covers terminal configuration: the tenant base URL, the
// bootstrap run, the terminal defaults and the cached reference data.
type SetupHandler struct {
	setup    service.SetupService
	settings repository.SettingsRepository
	posRepo  repository.PosDataRepository
}

func NewSetupHandler(setup service.SetupService, settings repository.SettingsRepository, posRepo repository.PosDataRepository) *SetupHandler {
	return &SetupHandler{setup: setup, settings: settings, posRepo: posRepo}
}

func (h *SetupHandler) Run(c *gin.Context) {
	resp, err := h.setup.RunSetup(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SetupHandler) GetBaseURL(c *gin.Context) {
	url, err := h.settings.APIBaseURL(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"base_url": "", "configured": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"base_url": url, "configured": true})
}

func (h *SetupHandler) SetBaseURL(c *gin.Context) {
	var req dto.BaseURLRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.settings.SetAPIBaseURL(c.Request.Context(), req.BaseURL); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDefaults overrides the terminal defaults chosen during setup. Only the
// fields present in the body are changed.
func (h *SetupHandler) SetDefaults(c *gin.Context) {
	var req dto.DefaultsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if req.WarehouseID > 0 {
		if err := h.settings.SetInt(ctx, model.SettingDefaultWarehouse, req.WarehouseID); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.ClientID > 0 {
		if err := h.settings.SetInt(ctx, model.SettingDefaultClient, req.ClientID); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.PaymentMethodID > 0 {
		if err := h.settings.SetInt(ctx, model.SettingDefaultPaymentMethod, req.PaymentMethodID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *SetupHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	client, err := h.setup.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// Reference data reads serve the cached copies; they work offline.

func (h *SetupHandler) ListClients(c *gin.Context) {
	h.list(c, "clients", func() (interface{}, error) { return h.posRepo.ListClients(c.Request.Context()) })
}

func (h *SetupHandler) ListWarehouses(c *gin.Context) {
	h.list(c, "warehouses", func() (interface{}, error) { return h.posRepo.ListWarehouses(c.Request.Context()) })
}

func (h *SetupHandler) ListPaymentMethods(c *gin.Context) {
	h.list(c, "payment_methods", func() (interface{}, error) { return h.posRepo.ListPaymentMethods(c.Request.Context()) })
}

func (h *SetupHandler) ListCategories(c *gin.Context) {
	h.list(c, "categories", func() (interface{}, error) { return h.posRepo.ListCategories(c.Request.Context()) })
}

func (h *SetupHandler) ListBrands(c *gin.Context) {
	h.list(c, "brands", func() (interface{}, error) { return h.posRepo.ListBrands(c.Request.Context()) })
}

func (h *SetupHandler) list(c *gin.Context, key string, fetch func() (interface{}, error)) {
	rows, err := fetch()
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to read "+key))
		return
	}
	c.JSON(http.StatusOK, gin.H{key: rows})
}
