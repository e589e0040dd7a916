package repository

import (
	"context"

	"nexus-pos/internal/model"
	"nexus-pos/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	FindAll(ctx context.Context) ([]model.Inventory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	FindByProductID(ctx context.Context, productID uuid.UUID) (*model.Inventory, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Inventory, error)
	FindByProductIDForUpdate(tx *gorm.DB, productID uuid.UUID) (*model.Inventory, error)
	Create(tx *gorm.DB, inventory *model.Inventory) error
	Decrement(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error)
	Increment(tx *gorm.DB, id uuid.UUID, quantity int, userID string) error
	SetLevels(tx *gorm.DB, id uuid.UUID, quantity, reorderLevel int, userID string) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	DeleteByProductID(tx *gorm.DB, productID uuid.UUID) error
	CountLow(ctx context.Context) (int64, error)
	CountOut(ctx context.Context) (int64, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) FindAll(ctx context.Context) ([]model.Inventory, error) {
	var inventories []model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Order("created_at DESC").
		Find(&inventories).Error
	return inventories, err
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var inventory model.Inventory
	if err := r.db.WithContext(ctx).Preload("Product").First(&inventory, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *inventoryRepo) FindByProductID(ctx context.Context, productID uuid.UUID) (*model.Inventory, error) {
	var inventory model.Inventory
	if err := r.db.WithContext(ctx).First(&inventory, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &inventory, nil
}

// FindByIDForUpdate takes a row lock held until tx ends.
func (r *inventoryRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Inventory, error) {
	var inventory model.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inventory, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

// FindByProductIDForUpdate takes a row lock held until tx ends.
func (r *inventoryRepo) FindByProductIDForUpdate(tx *gorm.DB, productID uuid.UUID) (*model.Inventory, error) {
	var inventory model.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inventory, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *inventoryRepo) Create(tx *gorm.DB, inventory *model.Inventory) error {
	return database.Normalize(tx.Omit("Product").Create(inventory).Error)
}

// Decrement subtracts quantity only when enough stock remains. It reports
// false when the guard rejected the update.
func (r *inventoryRepo) Decrement(tx *gorm.DB, id uuid.UUID, quantity int) (bool, error) {
	res := tx.Model(&model.Inventory{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inventoryRepo) Increment(tx *gorm.DB, id uuid.UUID, quantity int, userID string) error {
	res := tx.Model(&model.Inventory{}).Where("id = ?", id).Updates(map[string]interface{}{
		"quantity":   gorm.Expr("quantity + ?", quantity),
		"updated_by": userID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventoryRepo) SetLevels(tx *gorm.DB, id uuid.UUID, quantity, reorderLevel int, userID string) error {
	return tx.Model(&model.Inventory{}).Where("id = ?", id).Updates(map[string]interface{}{
		"quantity":      quantity,
		"reorder_level": reorderLevel,
		"updated_by":    userID,
	}).Error
}

func (r *inventoryRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Inventory{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventoryRepo) DeleteByProductID(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Delete(&model.Inventory{}, "product_id = ?", productID).Error
}

func (r *inventoryRepo) CountLow(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Inventory{}).
		Where("quantity > 0 AND quantity <= reorder_level").
		Count(&count).Error
	return count, err
}

func (r *inventoryRepo) CountOut(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Inventory{}).Where("quantity = 0").Count(&count).Error
	return count, err
}
