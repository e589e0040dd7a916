package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"
	"nexus-pos/internal/ws"
	"nexus-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	SKU         string           `json:"sku" validate:"required,max=100"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=100"`
	Price       decimal.Decimal  `json:"price"`
	PackSize    int              `json:"pack_size" validate:"omitempty,gte=1"`
	PackPrice   *decimal.Decimal `json:"pack_price"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url" validate:"omitempty,max=500"`
}

type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Create(ctx context.Context, actor Actor, req ProductRequest) (*model.Product, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type productService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	inventoryRepo repository.InventoryRepository
	wsHub         *ws.Hub
}

func NewProductService(db *gorm.DB, pRepo repository.ProductRepository, cRepo repository.CategoryRepository, iRepo repository.InventoryRepository, hub *ws.Hub) ProductService {
	return &productService{
		db:            db,
		productRepo:   pRepo,
		categoryRepo:  cRepo,
		inventoryRepo: iRepo,
		wsHub:         hub,
	}
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *productService) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("code", "barcode or SKU is required")
	}
	p, err := s.productRepo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// checkRequest validates req and normalises optional fields in place.
func (s *productService) checkRequest(ctx context.Context, req *ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = strings.TrimSpace(req.SKU)
	if req.Barcode != nil {
		trimmed := strings.TrimSpace(*req.Barcode)
		if trimmed == "" {
			req.Barcode = nil
		} else {
			req.Barcode = &trimmed
		}
	}
	if req.PackSize == 0 {
		req.PackSize = 1
	}
	if err := validate(*req); err != nil {
		return err
	}
	if req.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	if req.PackPrice != nil && req.PackPrice.IsNegative() {
		return invalid("pack_price", "must not be negative")
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("category_id", "category does not exist")
			}
			return err
		}
	}
	return nil
}

func (s *productService) Create(ctx context.Context, actor Actor, req ProductRequest) (*model.Product, error) {
	if err := s.checkRequest(ctx, &req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Price:       req.Price,
		PackSize:    req.PackSize,
		PackPrice:   req.PackPrice,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	product.CreatedBy = actor.ID.String()
	product.UpdatedBy = actor.ID.String()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return err
		}
		inv := &model.Inventory{
			ProductID:    product.ID,
			Quantity:     product.InitialQuantity(),
			ReorderLevel: model.DefaultReorderLevel,
		}
		inv.CreatedBy = actor.ID.String()
		inv.UpdatedBy = actor.ID.String()
		return s.inventoryRepo.Create(tx, inv)
	})
	if errors.Is(err, database.ErrDuplicate) {
		return nil, fmt.Errorf("%w: SKU or barcode already in use", ErrConflict)
	}
	if err != nil {
		return nil, err
	}

	created, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	s.wsHub.Notify(map[string]interface{}{
		"type":    "stock_update",
		"action":  "product_created",
		"product": created,
		"message": fmt.Sprintf("%s created product '%s'", actor.Name, created.Name),
	})
	return created, nil
}

func (s *productService) Update(ctx context.Context, actor Actor, id uuid.UUID, req ProductRequest) (*model.Product, error) {
	if err := s.checkRequest(ctx, &req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindByIDTx(tx, id)
		if err != nil {
			return err
		}
		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Barcode = req.Barcode
		existing.Price = req.Price
		existing.PackSize = req.PackSize
		existing.PackPrice = req.PackPrice
		existing.CategoryID = req.CategoryID
		existing.Description = req.Description
		existing.ImageURL = req.ImageURL
		existing.UpdatedBy = actor.ID.String()
		return s.productRepo.Update(tx, existing)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if errors.Is(err, database.ErrDuplicate) {
		return nil, fmt.Errorf("%w: SKU or barcode already in use", ErrConflict)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.wsHub.Notify(map[string]interface{}{
		"type":    "stock_update",
		"action":  "product_updated",
		"product": updated,
		"message": fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name),
	})
	return updated, nil
}

// Delete soft-deletes the product together with its inventory row.
func (s *productService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", actor.ID.String()).Error; err != nil {
			return err
		}
		if err := s.productRepo.Delete(tx, id); err != nil {
			return err
		}
		return s.inventoryRepo.DeleteByProductID(tx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.wsHub.Notify(map[string]interface{}{
		"type":       "stock_update",
		"action":     "product_deleted",
		"product_id": id,
	})
	return nil
}
