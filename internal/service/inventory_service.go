package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"
	"nexus-pos/internal/ws"
	"nexus-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryView struct {
	model.Inventory
	IsLow bool `json:"is_low"`
	IsOut bool `json:"is_out"`
}

func newInventoryView(inv model.Inventory) InventoryView {
	return InventoryView{Inventory: inv, IsLow: inv.IsLow(), IsOut: inv.IsOut()}
}

type CreateInventoryRequest struct {
	ProductID    uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity     int       `json:"quantity" validate:"gte=0"`
	ReorderLevel *int      `json:"reorder_level" validate:"omitempty,gte=0"`
}

type UpdateInventoryRequest struct {
	Quantity     int              `json:"quantity" validate:"gte=0"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitempty,gte=0"`
	Price        *decimal.Decimal `json:"price"`
}

type InventoryService interface {
	List(ctx context.Context) ([]InventoryView, error)
	Get(ctx context.Context, id uuid.UUID) (*InventoryView, error)
	History(ctx context.Context, id uuid.UUID) ([]model.StockLog, error)
	Create(ctx context.Context, actor Actor, req CreateInventoryRequest) (*InventoryView, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateInventoryRequest) (*InventoryView, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type inventoryService struct {
	db            *gorm.DB
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	stockLogRepo  repository.StockLogRepository
	wsHub         *ws.Hub
}

func NewInventoryService(db *gorm.DB, iRepo repository.InventoryRepository, pRepo repository.ProductRepository, sRepo repository.StockLogRepository, hub *ws.Hub) InventoryService {
	return &inventoryService{
		db:            db,
		inventoryRepo: iRepo,
		productRepo:   pRepo,
		stockLogRepo:  sRepo,
		wsHub:         hub,
	}
}

func (s *inventoryService) List(ctx context.Context) ([]InventoryView, error) {
	rows, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]InventoryView, len(rows))
	for i, inv := range rows {
		out[i] = newInventoryView(inv)
	}
	return out, nil
}

func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*InventoryView, error) {
	inv, err := s.inventoryRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	view := newInventoryView(*inv)
	return &view, nil
}

func (s *inventoryService) History(ctx context.Context, id uuid.UUID) ([]model.StockLog, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.stockLogRepo.FindByInventoryID(ctx, id)
}

func (s *inventoryService) Create(ctx context.Context, actor Actor, req CreateInventoryRequest) (*InventoryView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("product_id", "product does not exist")
		}
		return nil, err
	}
	if _, err := s.inventoryRepo.FindByProductID(ctx, req.ProductID); err == nil {
		return nil, fmt.Errorf("%w: product already has an inventory row", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	inv := &model.Inventory{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		ReorderLevel: model.DefaultReorderLevel,
	}
	if req.ReorderLevel != nil {
		inv.ReorderLevel = *req.ReorderLevel
	}
	inv.CreatedBy = actor.ID.String()
	inv.UpdatedBy = actor.ID.String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.inventoryRepo.Create(tx, inv); err != nil {
			return err
		}
		if inv.Quantity == 0 {
			return nil
		}
		return s.stockLogRepo.Create(tx, &model.StockLog{
			InventoryID:      inv.ID,
			UserID:           actor.ID,
			QuantityAdjusted: inv.Quantity,
			NewQuantity:      inv.Quantity,
			Type:             model.StockAdjust,
			Notes:            "opening stock",
		})
	})
	if errors.Is(err, database.ErrDuplicate) {
		return nil, fmt.Errorf("%w: product already has an inventory row", ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, inv.ID)
}

// Update rewrites quantity and reorder level under a row lock. A quantity
// change is journaled as a signed adjustment.
func (s *inventoryService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateInventoryRequest) (*InventoryView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, invalid("price", "must not be negative")
	}

	var oldQty int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.inventoryRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		oldQty = inv.Quantity

		reorder := inv.ReorderLevel
		if req.ReorderLevel != nil {
			reorder = *req.ReorderLevel
		}
		if err := s.inventoryRepo.SetLevels(tx, id, req.Quantity, reorder, actor.ID.String()); err != nil {
			return err
		}

		if req.Price != nil {
			product := &model.Product{Price: *req.Price}
			product.UpdatedBy = actor.ID.String()
			if err := s.productRepo.UpdatePrice(tx, inv.ProductID, product); err != nil {
				return err
			}
		}

		delta := req.Quantity - oldQty
		if delta == 0 {
			return nil
		}
		entry := &model.StockLog{
			InventoryID:      id,
			UserID:           actor.ID,
			QuantityAdjusted: delta,
			NewQuantity:      req.Quantity,
			Type:             model.StockAdjust,
			Notes:            "manual adjustment",
		}
		return s.stockLogRepo.Create(tx, entry)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("inventory: update %s failed: %v", id, err)
		return nil, err
	}

	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.wsHub.Notify(map[string]interface{}{
		"type":   "stock_update",
		"action": "inventory_updated",
		"product": map[string]interface{}{
			"id":        view.ProductID,
			"old_stock": oldQty,
			"new_stock": view.Quantity,
		},
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
		},
	})
	return view, nil
}

func (s *inventoryService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Inventory{}).Where("id = ?", id).Update("deleted_by", actor.ID.String()).Error; err != nil {
			return err
		}
		return s.inventoryRepo.Delete(tx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
