package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"
	"nexus-pos/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoryInUse = errors.New("category still has products")

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, actor Actor, req CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(cRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: cRepo}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *categoryService) Create(ctx context.Context, actor Actor, req CategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	category.CreatedBy = actor.ID.String()
	category.UpdatedBy = actor.ID.String()

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category name already in use", ErrConflict)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, actor Actor, id uuid.UUID, req CategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Description = req.Description
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedBy = actor.ID.String()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category name already in use", ErrConflict)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w (%d)", ErrCategoryInUse, count)
	}
	return s.categoryRepo.Delete(ctx, id)
}
