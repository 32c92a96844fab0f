package service_test

import (
	"context"
	"testing"

	"jaymapos/internal/apierror"
	"jaymapos/internal/dto"
	"jaymapos/internal/model"
	"jaymapos/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func barcode(s string) *string { return &s }

func testProduct(id int, available float64, price string) model.Product {
	return model.Product{
		ID:           id,
		Code:         "P" + string(rune('0'+id)),
		Name:         "Product",
		QtyAvailable: available,
		Price:        dec(price),
		ProductType:  model.ProductTypeSingle,
	}
}

func newTestCart(products ...model.Product) (service.CartService, *stubSaleRepo, *stubTrigger) {
	saleRepo := newStubSaleRepo()
	trigger := &stubTrigger{}
	settings := newStubSettingsRepo()
	_ = settings.SetInt(context.Background(), model.SettingDefaultClient, 9)
	_ = settings.SetInt(context.Background(), model.SettingDefaultWarehouse, 2)
	cart := service.NewCartService(newStubProductRepo(products...), saleRepo, settings, trigger)
	return cart, saleRepo, trigger
}

func TestAddToCartAccumulatesAndClampsToStock(t *testing.T) {
	cart, _, _ := newTestCart(testProduct(1, 5, "10"))
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, 1, 3))
	require.NoError(t, cart.AddToCart(ctx, 1, 4))

	resp := cart.Cart()
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 5.0, resp.Lines[0].Quantity)
	assert.True(t, resp.Lines[0].Subtotal.Equal(dec("50")), "subtotal = %s", resp.Lines[0].Subtotal)
}

func TestAddToCartAtCeilingReturnsStockExceeded(t *testing.T) {
	cart, _, _ := newTestCart(testProduct(1, 5, "10"))
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, 1, 5))
	err := cart.AddToCart(ctx, 1, 1)

	var stockErr *service.StockExceededError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.ProductID)
	assert.Equal(t, 5.0, stockErr.Available)
	assert.Equal(t, 5.0, cart.Cart().Lines[0].Quantity)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	cart, _, _ := newTestCart(testProduct(1, 5, "10"))
	assert.ErrorIs(t, cart.AddToCart(context.Background(), 1, 0), service.ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddToCart(context.Background(), 1, -2), service.ErrInvalidQuantity)
	assert.Empty(t, cart.Cart().Lines)
}

func TestAddToCartOutOfStockProduct(t *testing.T) {
	cart, _, _ := newTestCart(testProduct(1, 0, "10"))
	assert.ErrorIs(t, cart.AddToCart(context.Background(), 1, 1), service.ErrProductNotSellable)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	cart, _, _ := newTestCart()
	assert.ErrorIs(t, cart.AddToCart(context.Background(), 42, 1), gorm.ErrRecordNotFound)
}

func TestAddByBarcode(t *testing.T) {
	p := testProduct(1, 5, "10")
	p.Barcode = barcode("779123")
	cart, _, _ := newTestCart(p)

	got, err := cart.AddByBarcode(context.Background(), "779123", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, 2.0, cart.Cart().Lines[0].Quantity)

	_, err = cart.AddByBarcode(context.Background(), "000000", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateQuantityClampsAndRemoves(t *testing.T) {
	cart, _, _ := newTestCart(testProduct(1, 5, "10"))
	ctx := context.Background()
	require.NoError(t, cart.AddToCart(ctx, 1, 2))

	// above stock clamps
	require.NoError(t, cart.UpdateQuantity(ctx, 1, 9))
	assert.Equal(t, 5.0, cart.Cart().Lines[0].Quantity)

	// zero or below removes the line
	require.NoError(t, cart.UpdateQuantity(ctx, 1, 0))
	assert.Empty(t, cart.Cart().Lines)
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	cart, _, _ := newTestCart(testProduct(1, 5, "10"))
	assert.ErrorIs(t, cart.UpdateQuantity(context.Background(), 1, 2), service.ErrLineNotFound)
}

func TestCartTotalsNeverNegative(t *testing.T) {
	cart, _, _ := newTestCart(testProduct(1, 5, "10"))
	require.NoError(t, cart.AddToCart(context.Background(), 1, 1))

	cart.SetAdjustments(decimal.Zero, dec("999"), decimal.Zero)
	resp := cart.Cart()
	assert.True(t, resp.Total.Equal(decimal.Zero), "total = %s", resp.Total)
}

func TestCartInsertionOrderPreserved(t *testing.T) {
	cart, _, _ := newTestCart(testProduct(1, 5, "10"), testProduct(2, 5, "20"), testProduct(3, 5, "30"))
	ctx := context.Background()
	require.NoError(t, cart.AddToCart(ctx, 2, 1))
	require.NoError(t, cart.AddToCart(ctx, 1, 1))
	require.NoError(t, cart.AddToCart(ctx, 3, 1))

	ids := []int{}
	for _, l := range cart.Cart().Lines {
		ids = append(ids, l.ProductID)
	}
	assert.Equal(t, []int{2, 1, 3}, ids)
}

func TestCheckoutValidationCollectsAllFailures(t *testing.T) {
	saleRepo := newStubSaleRepo()
	// no defaults persisted: client and warehouse are unset
	cart := service.NewCartService(newStubProductRepo(), saleRepo, newStubSettingsRepo(), &stubTrigger{})

	_, err := cart.Checkout(context.Background(), dto.CheckoutRequest{})

	var validation *apierror.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "cart")
	assert.Contains(t, validation.Fields, "client")
	assert.Contains(t, validation.Fields, "warehouse")
	assert.Contains(t, validation.Fields, "amount")
	assert.Contains(t, validation.Fields, "payment_method")
	assert.Len(t, saleRepo.sales, 0)
}

func TestCheckoutCommitsSaleAndClearsCart(t *testing.T) {
	cart, saleRepo, trigger := newTestCart(testProduct(1, 5, "10"))
	ctx := context.Background()
	require.NoError(t, cart.AddToCart(ctx, 1, 3))
	cart.SetAdjustments(dec("3"), dec("1"), dec("2"))
	// total = 30 + 3 + 2 - 1 = 34

	resp, err := cart.Checkout(ctx, dto.CheckoutRequest{PaymentMethodID: 4, Amount: dec("50")})
	require.NoError(t, err)

	assert.True(t, resp.GrandTotal.Equal(dec("34")), "total = %s", resp.GrandTotal)
	assert.True(t, resp.Change.Equal(dec("16")), "change = %s", resp.Change)
	assert.Empty(t, cart.Cart().Lines, "cart must be cleared after checkout")

	sale := saleRepo.sales[resp.SaleLocalID]
	require.NotNil(t, sale)
	assert.NotEmpty(t, sale.OfflineID)
	assert.False(t, sale.Synced)
	assert.Equal(t, 9, sale.ClientID)
	assert.Equal(t, 2, sale.WarehouseID)

	lines := saleRepo.lines[resp.SaleLocalID]
	require.Len(t, lines, 1)
	assert.Equal(t, "Product", lines[0].ProductName)
	assert.True(t, lines[0].Subtotal.Equal(dec("30")))

	payments := saleRepo.payments[resp.SaleLocalID]
	require.Len(t, payments, 1)
	assert.Equal(t, 4, payments[0].PaymentMethodID)
	assert.True(t, payments[0].Change.Equal(dec("16")))

	assert.Equal(t, 1, trigger.sales)
	assert.Equal(t, 1, trigger.products)
}

func TestCheckoutAllowsPaymentBelowTotal(t *testing.T) {
	cart, saleRepo, _ := newTestCart(testProduct(1, 5, "10"))
	ctx := context.Background()
	require.NoError(t, cart.AddToCart(ctx, 1, 3))

	resp, err := cart.Checkout(ctx, dto.CheckoutRequest{PaymentMethodID: 4, Amount: dec("10")})
	require.NoError(t, err)
	assert.True(t, resp.Change.Equal(decimal.Zero))
	assert.True(t, saleRepo.payments[resp.SaleLocalID][0].Amount.Equal(dec("10")))
}

func TestCheckoutCommitFailureKeepsCart(t *testing.T) {
	cart, saleRepo, trigger := newTestCart(testProduct(1, 5, "10"))
	saleRepo.commitErr = assert.AnError
	ctx := context.Background()
	require.NoError(t, cart.AddToCart(ctx, 1, 3))

	_, err := cart.Checkout(ctx, dto.CheckoutRequest{PaymentMethodID: 4, Amount: dec("30")})
	require.Error(t, err)
	assert.Len(t, cart.Cart().Lines, 1, "cart must stay intact when the commit fails")
	assert.Zero(t, trigger.sales)
}

func TestCheckoutSnapshotsPriceAtAddTime(t *testing.T) {
	productRepo := newStubProductRepo(testProduct(1, 5, "10"))
	settings := newStubSettingsRepo()
	_ = settings.SetInt(context.Background(), model.SettingDefaultClient, 9)
	_ = settings.SetInt(context.Background(), model.SettingDefaultWarehouse, 2)
	saleRepo := newStubSaleRepo()
	cart := service.NewCartService(productRepo, saleRepo, settings, &stubTrigger{})

	ctx := context.Background()
	require.NoError(t, cart.AddToCart(ctx, 1, 2))

	// catalog sync reprices the product after the line was added
	repriced := testProduct(1, 5, "99")
	require.NoError(t, productRepo.UpsertBatch(ctx, []model.Product{repriced}))

	resp, err := cart.Checkout(ctx, dto.CheckoutRequest{PaymentMethodID: 1, Amount: dec("20")})
	require.NoError(t, err)
	assert.True(t, resp.GrandTotal.Equal(dec("20")), "line keeps the price captured at add time")
}
