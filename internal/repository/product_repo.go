package repository

import (
	"context"
	"errors"

	"nexus-pos/internal/model"
	"nexus-pos/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error)
	FindNamesUnscoped(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	Create(tx *gorm.DB, product *model.Product) error
	Update(tx *gorm.DB, product *model.Product) error
	UpdatePrice(tx *gorm.DB, id uuid.UUID, product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Inventory").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Inventory").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	out := make(map[uuid.UUID]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// FindNamesUnscoped includes soft-deleted products so past sales keep their labels.
func (r *productRepo) FindNamesUnscoped(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Unscoped().Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p.Name
	}
	return out, nil
}

// FindByCode resolves scanner input against the barcode first, then the SKU.
func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	db := r.db.WithContext(ctx)

	var product model.Product
	err := db.Preload("Inventory").Where("barcode = ?", code).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Preload("Inventory").Where("sku = ?", code).First(&product).Error
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return database.Normalize(tx.Omit("Category", "Inventory").Create(product).Error)
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	return database.Normalize(tx.Omit("Category", "Inventory").Save(product).Error)
}

func (r *productRepo) UpdatePrice(tx *gorm.DB, id uuid.UUID, product *model.Product) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"price":      product.Price,
		"updated_by": product.UpdatedBy,
	}).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}
