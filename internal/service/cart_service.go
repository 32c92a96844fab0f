package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"jaymapos/internal/apierror"
	"jaymapos/internal/dto"
	"jaymapos/internal/model"
	"jaymapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// StockExceededError reports a cart mutation that could not take effect at
// all because the line already sits at the product's available quantity.
// Mutations that can partially apply clamp to the stock ceiling instead;
// this error is reserved for adds with no headroom left, so the UI can tell
// the cashier how much is actually sellable.
type StockExceededError struct {
	ProductID int
	Requested float64
	Available float64
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("product %d: requested %.2f exceeds available stock %.2f", e.ProductID, e.Requested, e.Available)
}

var (
	ErrLineNotFound       = errors.New("product is not in the cart")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrProductNotSellable = errors.New("product has no available stock")
)

// SyncTrigger is the slice of the scheduler the cart needs after checkout:
// push the sale out quickly, then re-pull the catalog because the server
// decrements stock as a side effect of the sale.
type SyncTrigger interface {
	TriggerSaleUpload()
	TriggerProductSync()
}

// cartLine is owned exclusively by the cart until checkout. The product
// snapshot and unit price are captured at add time; a later catalog sync
// changing the price does not reprice lines already in the cart.
type cartLine struct {
	product   model.Product
	quantity  float64
	unitPrice decimal.Decimal
}

func (l *cartLine) subtotal() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromFloat(l.quantity))
}

// CartService is the in-memory authoritative cart state machine. Stock is
// read from the local store at the moment of each mutation — the check is
// optimistic against concurrent catalog syncs, never serialized with them.
type CartService interface {
	AddToCart(ctx context.Context, productID int, quantity float64) error
	AddByBarcode(ctx context.Context, barcode string, quantity float64) (*model.Product, error)
	UpdateQuantity(ctx context.Context, productID int, quantity float64) error
	RemoveFromCart(productID int)
	Clear()
	SetAdjustments(tax, discount, shipping decimal.Decimal)
	SetClient(clientID int)
	SetWarehouse(warehouseID int)
	Cart() dto.CartResponse
	Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type cartService struct {
	mu    sync.Mutex
	lines []*cartLine // insertion-ordered
	index map[int]*cartLine

	tax, discount, shipping decimal.Decimal
	clientID, warehouseID   int

	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	trigger     SyncTrigger
}

// NewCartService builds a cart preloaded with the terminal defaults (zero
// when setup has not run yet — checkout validation catches that).
func NewCartService(productRepo repository.ProductRepository, saleRepo repository.SaleRepository, settings repository.SettingsRepository, trigger SyncTrigger) CartService {
	s := &cartService{
		index:       make(map[int]*cartLine),
		productRepo: productRepo,
		saleRepo:    saleRepo,
		trigger:     trigger,
	}
	ctx := context.Background()
	if id, ok, err := settings.GetInt(ctx, model.SettingDefaultClient); err == nil && ok {
		s.clientID = id
	}
	if id, ok, err := settings.GetInt(ctx, model.SettingDefaultWarehouse); err == nil && ok {
		s.warehouseID = id
	}
	return s
}

func (s *cartService) AddToCart(ctx context.Context, productID int, quantity float64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	// Live stock read outside the lock — store calls may block, cart
	// mutations must not hold the lock across them.
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !p.InStock() {
		return ErrProductNotSellable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.index[productID]; ok {
		next := line.quantity + quantity
		if next > p.QtyAvailable {
			next = p.QtyAvailable
		}
		if next == line.quantity {
			// Already at the stock ceiling, the add cannot take effect.
			return &StockExceededError{ProductID: productID, Requested: line.quantity + quantity, Available: p.QtyAvailable}
		}
		line.quantity = next
		return nil
	}

	if quantity > p.QtyAvailable {
		quantity = p.QtyAvailable
	}
	line := &cartLine{product: *p, quantity: quantity, unitPrice: p.Price}
	s.lines = append(s.lines, line)
	s.index[productID] = line
	return nil
}

// AddByBarcode resolves a raw scanned barcode to a product and adds it.
// A miss surfaces as gorm.ErrRecordNotFound for the handler to tag.
func (s *cartService) AddByBarcode(ctx context.Context, barcode string, quantity float64) (*model.Product, error) {
	p, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if err := s.AddToCart(ctx, p.ID, quantity); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, productID int, quantity float64) error {
	if quantity <= 0 {
		s.RemoveFromCart(productID)
		return nil
	}
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.index[productID]
	if !ok {
		return ErrLineNotFound
	}
	if !p.InStock() {
		return ErrProductNotSellable
	}
	if quantity > p.QtyAvailable {
		quantity = p.QtyAvailable
	}
	line.quantity = quantity
	return nil
}

func (s *cartService) RemoveFromCart(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

func (s *cartService) removeLocked(productID int) {
	if _, ok := s.index[productID]; !ok {
		return
	}
	delete(s.index, productID)
	for i, l := range s.lines {
		if l.product.ID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
}

func (s *cartService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *cartService) clearLocked() {
	s.lines = nil
	s.index = make(map[int]*cartLine)
	s.tax = decimal.Zero
	s.discount = decimal.Zero
	s.shipping = decimal.Zero
}

func (s *cartService) SetAdjustments(tax, discount, shipping decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tax = tax
	s.discount = discount
	s.shipping = shipping
}

func (s *cartService) SetClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientID = clientID
}

func (s *cartService) SetWarehouse(warehouseID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouseID = warehouseID
}

func (s *cartService) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range s.lines {
		sum = sum.Add(l.subtotal())
	}
	return sum
}

// totalLocked derives total = max(0, subtotal + tax + shipping - discount).
func (s *cartService) totalLocked() decimal.Decimal {
	total := s.subtotalLocked().Add(s.tax).Add(s.shipping).Sub(s.discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

func (s *cartService) Cart() dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := dto.CartResponse{
		Lines:       make([]dto.CartLineResponse, 0, len(s.lines)),
		Subtotal:    s.subtotalLocked(),
		Tax:         s.tax,
		Discount:    s.discount,
		Shipping:    s.shipping,
		Total:       s.totalLocked(),
		ClientID:    s.clientID,
		WarehouseID: s.warehouseID,
	}
	for _, l := range s.lines {
		resp.Lines = append(resp.Lines, dto.CartLineResponse{
			ProductID:   l.product.ID,
			ProductName: l.product.Name,
			Quantity:    l.quantity,
			UnitPrice:   l.unitPrice,
			Subtotal:    l.subtotal(),
		})
	}
	return resp
}

// Checkout validates every precondition independently, commits the sale with
// its lines and payment in one local transaction, clears the cart, and kicks
// the scheduler. The sale reaches the server later; checkout itself is a
// purely local, offline-safe operation.
func (s *cartService) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := make(map[string]string)
	if len(s.lines) == 0 {
		fields["cart"] = "cart is empty"
	}
	if s.clientID <= 0 {
		fields["client"] = "no client selected"
	}
	if s.warehouseID <= 0 {
		fields["warehouse"] = "no warehouse selected"
	}
	if !req.Amount.IsPositive() {
		fields["amount"] = "payment amount must be positive"
	}
	if req.PaymentMethodID <= 0 {
		fields["payment_method"] = "no payment method selected"
	}
	if len(fields) > 0 {
		return nil, apierror.NewValidation(fields)
	}

	subtotal := s.subtotalLocked()
	total := s.totalLocked()

	taxRate := decimal.Zero
	if subtotal.IsPositive() {
		taxRate = s.tax.Div(subtotal).Mul(decimal.NewFromInt(100))
	}

	var notes *string
	if req.Notes != "" {
		n := req.Notes
		notes = &n
	}

	sale := &model.Sale{
		OfflineID:   uuid.NewString(),
		ClientID:    s.clientID,
		WarehouseID: s.warehouseID,
		TaxRate:     taxRate,
		TaxNet:      s.tax,
		Discount:    s.discount,
		Shipping:    s.shipping,
		GrandTotal:  total,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}

	lines := make([]model.SaleLine, 0, len(s.lines))
	for _, l := range s.lines {
		lines = append(lines, model.SaleLine{
			ProductID:        l.product.ID,
			ProductVariantID: l.product.ProductVariantID,
			Quantity:         l.quantity,
			UnitPrice:        l.unitPrice,
			Subtotal:         l.subtotal(),
			ProductName:      l.product.Name,
		})
	}

	change := req.Amount.Sub(total)
	if change.IsNegative() {
		// Paying below the total is allowed (credit / partial payment);
		// change is simply zero.
		change = decimal.Zero
	}
	payments := []model.Payment{{
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		Change:          change,
	}}

	localID, err := s.saleRepo.CommitSale(ctx, sale, lines, payments)
	if err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	s.clearLocked()

	log.Info().
		Int64("sale_local_id", localID).
		Str("offline_id", sale.OfflineID).
		Str("grand_total", total.StringFixed(2)).
		Int("line_count", len(lines)).
		Msg("sale committed locally")

	// Push the sale out as soon as possible, and refresh stock figures the
	// server will have decremented.
	if s.trigger != nil {
		s.trigger.TriggerSaleUpload()
		s.trigger.TriggerProductSync()
	}

	return &dto.CheckoutResponse{
		SaleLocalID: localID,
		GrandTotal:  total,
		Change:      change,
	}, nil
}
