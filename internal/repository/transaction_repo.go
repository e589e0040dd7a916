package repository

import (
	"context"
	"time"

	"nexus-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	CreateDraft(tx *gorm.DB, cashierID uuid.UUID) (*model.Transaction, error)
	AddLineItem(tx *gorm.DB, item *model.TransactionItem) error
	Finalize(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error

	FindAll(ctx context.Context, limit int) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	FindInRange(ctx context.Context, f SalesFilter) ([]model.Transaction, error)
	SumTotal(ctx context.Context, f SalesFilter) (decimal.Decimal, error)
	SalesByCashier(ctx context.Context, from, to time.Time) ([]CashierSales, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductRevenue, error)
}

// SalesFilter narrows a query to [From, To) and optionally to one cashier.
// A zero To leaves the window open-ended.
type SalesFilter struct {
	From      time.Time
	To        time.Time
	CashierID *uuid.UUID
	Limit     int
	WithItems bool
}

type CashierSales struct {
	CashierID        uuid.UUID       `json:"cashier_id"`
	TransactionCount int64           `json:"transaction_count"`
	TotalSales       decimal.Decimal `json:"total_sales"`
}

type ProductRevenue struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) CreateDraft(tx *gorm.DB, cashierID uuid.UUID) (*model.Transaction, error) {
	sale := &model.Transaction{CashierID: cashierID, Total: decimal.Zero}
	sale.CreatedBy = cashierID.String()
	if err := tx.Omit("Cashier", "Items").Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *transactionRepo) AddLineItem(tx *gorm.DB, item *model.TransactionItem) error {
	return tx.Omit("Product").Create(item).Error
}

func (r *transactionRepo) Finalize(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	res := tx.Model(&model.Transaction{}).Where("id = ?", id).Update("total", total)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *transactionRepo) FindAll(ctx context.Context, limit int) ([]model.Transaction, error) {
	var sales []model.Transaction
	q := r.db.WithContext(ctx).Preload("Cashier").Preload("Items").Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sales).Error
	return sales, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var sale model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Cashier").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *transactionRepo) scoped(ctx context.Context, f SalesFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("created_at >= ?", f.From.UTC())
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To.UTC())
	}
	if f.CashierID != nil {
		q = q.Where("cashier_id = ?", *f.CashierID)
	}
	return q
}

// FindInRange returns sales newest first.
func (r *transactionRepo) FindInRange(ctx context.Context, f SalesFilter) ([]model.Transaction, error) {
	q := r.scoped(ctx, f).Preload("Cashier").Order("created_at DESC")
	if f.WithItems {
		q = q.Preload("Items")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var sales []model.Transaction
	err := q.Find(&sales).Error
	return sales, err
}

func (r *transactionRepo) SumTotal(ctx context.Context, f SalesFilter) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal
	}
	if err := r.scoped(ctx, f).Select("COALESCE(SUM(total), 0) AS total").Scan(&out).Error; err != nil {
		return decimal.Zero, err
	}
	return out.Total, nil
}

func (r *transactionRepo) SalesByCashier(ctx context.Context, from, to time.Time) ([]CashierSales, error) {
	var rows []CashierSales
	err := r.scoped(ctx, SalesFilter{From: from, To: to}).
		Select("cashier_id, COUNT(*) AS transaction_count, COALESCE(SUM(total), 0) AS total_sales").
		Group("cashier_id").
		Scan(&rows).Error
	return rows, err
}

// TopProducts ranks products by quantity times captured price within [from, to).
func (r *transactionRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductRevenue, error) {
	var rows []ProductRevenue
	err := r.db.WithContext(ctx).
		Table("transaction_items AS ti").
		Select("ti.product_id AS product_id, SUM(ti.quantity) AS quantity, SUM(ti.quantity * ti.price) AS revenue").
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Where("ti.deleted_at IS NULL AND t.deleted_at IS NULL").
		Where("t.created_at >= ? AND t.created_at < ?", from.UTC(), to.UTC()).
		Group("ti.product_id").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
