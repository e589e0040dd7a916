package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"nexus-pos/internal/events"
	"nexus-pos/internal/metrics"
	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"
	"nexus-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrCheckoutFailed = errors.New("Checkout failed")

type CartLine struct {
	ProductID uuid.UUID `json:"id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	Cart []CartLine `json:"cart" validate:"required,min=1,dive"`
}

type CheckoutLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Remaining   int             `json:"remaining"`
}

type CheckoutResult struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Total         decimal.Decimal `json:"total"`
	Lines         []CheckoutLine  `json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CheckoutService interface {
	Checkout(ctx context.Context, cashier Actor, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	saleRepo      repository.TransactionRepository
	stockLogRepo  repository.StockLogRepository
	wsHub         *ws.Hub
	publisher     events.Publisher
}

func NewCheckoutService(
	db *gorm.DB,
	pRepo repository.ProductRepository,
	iRepo repository.InventoryRepository,
	tRepo repository.TransactionRepository,
	sRepo repository.StockLogRepository,
	hub *ws.Hub,
	publisher events.Publisher,
) CheckoutService {
	return &checkoutService{
		db:            db,
		productRepo:   pRepo,
		inventoryRepo: iRepo,
		saleRepo:      tRepo,
		stockLogRepo:  sRepo,
		wsHub:         hub,
		publisher:     publisher,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, cashier Actor, req CheckoutRequest) (*CheckoutResult, error) {
	if err := validate(req); err != nil {
		metrics.CheckoutTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	// Unknown products are rejected before any write.
	ids := make([]uuid.UUID, 0, len(req.Cart))
	for _, line := range req.Cart {
		ids = append(ids, line.ProductID)
	}
	catalog, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		log.Printf("checkout: product lookup failed: %v", err)
		metrics.CheckoutTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, ErrCheckoutFailed
	}
	for _, line := range req.Cart {
		if _, ok := catalog[line.ProductID]; !ok {
			metrics.CheckoutTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
			return nil, invalid("cart", "unknown product %s", line.ProductID)
		}
	}

	started := time.Now()
	var result *CheckoutResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.CreateDraft(tx, cashier.ID)
		if err != nil {
			return err
		}

		total := decimal.Zero
		lines := make([]CheckoutLine, 0, len(req.Cart))
		for _, line := range req.Cart {
			name := catalog[line.ProductID].Name

			inventory, err := s.inventoryRepo.FindByProductIDForUpdate(tx, line.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &StockUnavailableError{ProductID: line.ProductID, ProductName: name, Requested: line.Quantity}
			}
			if err != nil {
				return err
			}

			// Price comes from the row as it is now, never from the client.
			product, err := s.productRepo.FindByIDTx(tx, line.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &StockUnavailableError{ProductID: line.ProductID, ProductName: name, Requested: line.Quantity}
			}
			if err != nil {
				return err
			}

			if inventory.Quantity < line.Quantity {
				return &StockUnavailableError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   inventory.Quantity,
				}
			}

			ok, err := s.inventoryRepo.Decrement(tx, inventory.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &StockUnavailableError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   inventory.Quantity,
				}
			}
			remaining := inventory.Quantity - line.Quantity

			item := &model.TransactionItem{
				TransactionID: sale.ID,
				ProductID:     product.ID,
				Quantity:      line.Quantity,
				Price:         product.Price,
			}
			item.CreatedBy = cashier.ID.String()
			if err := s.saleRepo.AddLineItem(tx, item); err != nil {
				return err
			}

			entry := &model.StockLog{
				InventoryID:      inventory.ID,
				UserID:           cashier.ID,
				QuantityAdjusted: line.Quantity,
				NewQuantity:      remaining,
				Type:             model.StockOut,
				Notes:            "sale " + sale.ID.String(),
			}
			if err := s.stockLogRepo.Create(tx, entry); err != nil {
				return err
			}

			total = total.Add(item.Subtotal())
			lines = append(lines, CheckoutLine{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
				Remaining:   remaining,
			})
		}

		if err := s.saleRepo.Finalize(tx, sale.ID, total); err != nil {
			return err
		}

		result = &CheckoutResult{
			TransactionID: sale.ID,
			Total:         total,
			Lines:         lines,
			CreatedAt:     sale.CreatedAt,
		}
		return nil
	})
	metrics.CheckoutDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		var stockErr *StockUnavailableError
		if errors.As(err, &stockErr) {
			metrics.CheckoutTotal.WithLabelValues(metrics.OutcomeInsufficient).Inc()
			return nil, stockErr
		}
		log.Printf("checkout: cashier %s rolled back: %v", cashier.ID, err)
		metrics.CheckoutTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, ErrCheckoutFailed
	}

	metrics.CheckoutTotal.WithLabelValues(metrics.OutcomeCompleted).Inc()
	s.announce(ctx, cashier, result)
	return result, nil
}

// announce runs after commit so listeners never see a rolled-back sale.
func (s *checkoutService) announce(ctx context.Context, cashier Actor, result *CheckoutResult) {
	for _, line := range result.Lines {
		s.wsHub.Notify(map[string]interface{}{
			"type":   "stock_update",
			"action": "sale",
			"product": map[string]interface{}{
				"id":        line.ProductID,
				"name":      line.ProductName,
				"new_stock": line.Remaining,
			},
		})
	}
	s.wsHub.Notify(map[string]interface{}{
		"type":           "sale_completed",
		"transaction_id": result.TransactionID,
		"total":          result.Total,
		"user": map[string]interface{}{
			"id":    cashier.ID,
			"name":  cashier.Name,
			"email": cashier.Email,
		},
		"message": fmt.Sprintf("%s completed a sale of %s", cashier.Name, result.Total.StringFixed(2)),
	})

	payload := map[string]interface{}{
		"transaction_id": result.TransactionID,
		"cashier_id":     cashier.ID,
		"total":          result.Total.StringFixed(2),
		"lines":          result.Lines,
		"created_at":     result.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, events.SaleCompleted, payload); err != nil {
		log.Printf("checkout: publish %s failed: %v", events.SaleCompleted, err)
	}
}
