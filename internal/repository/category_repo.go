package repository

import (
	"context"

	"nexus-pos/internal/model"
	"nexus-pos/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

type categoryCount struct {
	CategoryID uuid.UUID
	Total      int64
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	db := r.db.WithContext(ctx)

	var categories []model.Category
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	var counts []categoryCount
	err := db.Model(&model.Product{}).
		Select("category_id, COUNT(*) AS total").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byID[c.CategoryID] = c.Total
	}
	for i := range categories {
		categories[i].ProductCount = byID[categories[i].ID]
	}
	return categories, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return database.Normalize(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return database.Normalize(r.db.WithContext(ctx).Omit("Products").Save(category).Error)
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepo) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}
