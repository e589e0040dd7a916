package service

import (
	"context"
	"errors"

	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultSaleListLimit = 200

type SaleService interface {
	List(ctx context.Context, limit int) ([]model.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

type saleService struct {
	saleRepo repository.TransactionRepository
}

func NewSaleService(repo repository.TransactionRepository) SaleService {
	return &saleService{saleRepo: repo}
}

func (s *saleService) List(ctx context.Context, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > defaultSaleListLimit {
		limit = defaultSaleListLimit
	}
	return s.saleRepo.FindAll(ctx, limit)
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return sale, err
}
