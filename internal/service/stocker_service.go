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
	"gorm.io/gorm"
)

var ErrStockInFailed = errors.New("Stock-in failed")

type StockInRequest struct {
	InventoryID   uuid.UUID `json:"inventory_id" validate:"uuid_required"`
	QuantityAdded int       `json:"quantity_added"`
}

type StockInResult struct {
	InventoryID   uuid.UUID `json:"inventory_id"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	QuantityAdded int       `json:"quantity_added"`
	NewQuantity   int       `json:"new_quantity"`
	StockLogID    uuid.UUID `json:"stock_log_id"`
}

// StockerInventoryRow is an inventory row with who last touched it.
type StockerInventoryRow struct {
	InventoryView
	LastStockedBy string     `json:"last_stocked_by,omitempty"`
	LastStockedAt *time.Time `json:"last_stocked_at,omitempty"`
}

type StockerService interface {
	Inventory(ctx context.Context) ([]StockerInventoryRow, error)
	Summary(ctx context.Context, userID uuid.UUID) (*repository.StockSummary, error)
	StockIn(ctx context.Context, actor Actor, req StockInRequest) (*StockInResult, error)
}

type stockerService struct {
	db            *gorm.DB
	inventoryRepo repository.InventoryRepository
	stockLogRepo  repository.StockLogRepository
	wsHub         *ws.Hub
	publisher     events.Publisher
}

func NewStockerService(db *gorm.DB, iRepo repository.InventoryRepository, sRepo repository.StockLogRepository, hub *ws.Hub, publisher events.Publisher) StockerService {
	return &stockerService{
		db:            db,
		inventoryRepo: iRepo,
		stockLogRepo:  sRepo,
		wsHub:         hub,
		publisher:     publisher,
	}
}

func (s *stockerService) Inventory(ctx context.Context) ([]StockerInventoryRow, error) {
	rows, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.stockLogRepo.LatestPerInventory(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StockerInventoryRow, len(rows))
	for i, inv := range rows {
		out[i] = StockerInventoryRow{InventoryView: newInventoryView(inv)}
		if entry, ok := latest[inv.ID]; ok {
			at := entry.CreatedAt
			out[i].LastStockedAt = &at
			out[i].LastStockedBy = "Unknown"
			if entry.User != nil {
				out[i].LastStockedBy = entry.User.FullName
			}
		}
	}
	return out, nil
}

func (s *stockerService) Summary(ctx context.Context, userID uuid.UUID) (*repository.StockSummary, error) {
	return s.stockLogRepo.UserSummary(ctx, userID)
}

// StockIn adds a positive delta to one inventory row and journals it in the
// same transaction.
func (s *stockerService) StockIn(ctx context.Context, actor Actor, req StockInRequest) (*StockInResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.QuantityAdded <= 0 {
		return nil, invalid("quantity_added", "must be a positive integer, got %d", req.QuantityAdded)
	}

	var result *StockInResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.inventoryRepo.FindByIDForUpdate(tx, req.InventoryID)
		if err != nil {
			return err
		}

		if err := s.inventoryRepo.Increment(tx, inv.ID, req.QuantityAdded, actor.ID.String()); err != nil {
			return err
		}
		newQty := inv.Quantity + req.QuantityAdded

		entry := &model.StockLog{
			InventoryID:      inv.ID,
			UserID:           actor.ID,
			QuantityAdjusted: req.QuantityAdded,
			NewQuantity:      newQty,
			Type:             model.StockIn,
		}
		if err := s.stockLogRepo.Create(tx, entry); err != nil {
			return err
		}

		var product model.Product
		if err := tx.Unscoped().Select("id", "name").First(&product, "id = ?", inv.ProductID).Error; err != nil {
			return err
		}

		result = &StockInResult{
			InventoryID:   inv.ID,
			ProductID:     product.ID,
			ProductName:   product.Name,
			QuantityAdded: req.QuantityAdded,
			NewQuantity:   newQty,
			StockLogID:    entry.ID,
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("stock-in: inventory %s by %s rolled back: %v", req.InventoryID, actor.ID, err)
		return nil, ErrStockInFailed
	}

	metrics.StockInUnits.Add(float64(result.QuantityAdded))

	s.wsHub.Notify(map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_in",
		"product": map[string]interface{}{
			"id":        result.ProductID,
			"name":      result.ProductName,
			"new_stock": result.NewQuantity,
		},
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
		},
		"message": fmt.Sprintf("%s added %d units of '%s'", actor.Name, result.QuantityAdded, result.ProductName),
	})
	if err := s.publisher.Publish(ctx, events.StockIn, result); err != nil {
		log.Printf("stock-in: publish %s failed: %v", events.StockIn, err)
	}
	return result, nil
}
