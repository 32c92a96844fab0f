package handler

import (
	"errors"
	"net/http"
	"reflect"

	"jaymapos/internal/apierror"
	"jaymapos/internal/gateway"
	"jaymapos/internal/infra"
	"jaymapos/internal/repository"
	"jaymapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// attached to the context for the ErrorHandler middleware to log and mask.
func respondError(c *gin.Context, err error) {
	var validation *apierror.ValidationError
	var stock *service.StockExceededError
	var connectivity *gateway.ConnectivityError
	var server *gateway.ServerError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, validation)
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, apierror.New(stock.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("not found"))
	case errors.Is(err, service.ErrLineNotFound),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrProductNotSellable),
		errors.Is(err, service.ErrEmptyDraft),
		errors.Is(err, repository.ErrInvalidBaseURL):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoWarehouses),
		errors.Is(err, service.ErrNoClients):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, gateway.ErrBaseURLNotSet):
		c.JSON(http.StatusConflict, apierror.New("server address is not configured, run setup first"))
	case errors.Is(err, infra.ErrCircuitOpen):
		c.JSON(http.StatusServiceUnavailable, apierror.New("server is unreachable, retrying in the background"))
	case errors.As(err, &connectivity):
		c.JSON(http.StatusServiceUnavailable, apierror.New(connectivity.UserMessage()))
	case errors.As(err, &server):
		c.JSON(http.StatusBadGateway, apierror.New(server.UserMessage()))
	default:
		_ = c.Error(err)
	}
}
