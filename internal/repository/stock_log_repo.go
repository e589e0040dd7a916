package repository

import (
	"context"
	"time"

	"nexus-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockLogRepository interface {
	Create(tx *gorm.DB, entry *model.StockLog) error
	FindByInventoryID(ctx context.Context, inventoryID uuid.UUID) ([]model.StockLog, error)
	LatestPerInventory(ctx context.Context) (map[uuid.UUID]model.StockLog, error)
	UserSummary(ctx context.Context, userID uuid.UUID) (*StockSummary, error)
	StockerTotals(ctx context.Context, from, to time.Time) ([]StockerTotal, error)
}

type StockSummary struct {
	ItemsStocked    int64 `json:"items_stocked"`
	QuantityStocked int64 `json:"quantity_stocked"`
}

type StockerTotal struct {
	UserID          uuid.UUID `json:"user_id"`
	ItemsStocked    int64     `json:"items_stocked"`
	QuantityStocked int64     `json:"quantity_stocked"`
}

type stockLogRepo struct {
	db *gorm.DB
}

func NewStockLogRepo(db *gorm.DB) StockLogRepository {
	return &stockLogRepo{db}
}

func (r *stockLogRepo) Create(tx *gorm.DB, entry *model.StockLog) error {
	return tx.Omit("Inventory", "User").Create(entry).Error
}

func (r *stockLogRepo) FindByInventoryID(ctx context.Context, inventoryID uuid.UUID) ([]model.StockLog, error) {
	var logs []model.StockLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("inventory_id = ?", inventoryID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// LatestPerInventory returns the newest stock-in entry of every inventory row
// that was ever restocked. Sales and admin adjustments are not restocks.
func (r *stockLogRepo) LatestPerInventory(ctx context.Context) (map[uuid.UUID]model.StockLog, error) {
	db := r.db.WithContext(ctx)
	latest := db.Model(&model.StockLog{}).
		Select("inventory_id, MAX(created_at) AS created_at").
		Where("type = ?", model.StockIn).
		Group("inventory_id")

	var logs []model.StockLog
	err := db.Preload("User").
		Joins("JOIN (?) AS latest ON latest.inventory_id = stock_logs.inventory_id AND latest.created_at = stock_logs.created_at", latest).
		Where("stock_logs.type = ?", model.StockIn).
		Order("stock_logs.created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]model.StockLog, len(logs))
	for _, l := range logs {
		if _, seen := out[l.InventoryID]; !seen {
			out[l.InventoryID] = l
		}
	}
	return out, nil
}

func (r *stockLogRepo) UserSummary(ctx context.Context, userID uuid.UUID) (*StockSummary, error) {
	var out StockSummary
	err := r.db.WithContext(ctx).Model(&model.StockLog{}).
		Select("COUNT(DISTINCT inventory_id) AS items_stocked, COALESCE(SUM(quantity_adjusted), 0) AS quantity_stocked").
		Where("user_id = ? AND type = ?", userID, model.StockIn).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StockerTotals aggregates stock-in entries per user within [from, to).
func (r *stockLogRepo) StockerTotals(ctx context.Context, from, to time.Time) ([]StockerTotal, error) {
	var rows []StockerTotal
	err := r.db.WithContext(ctx).Model(&model.StockLog{}).
		Select("user_id, COUNT(DISTINCT inventory_id) AS items_stocked, COALESCE(SUM(quantity_adjusted), 0) AS quantity_stocked").
		Where("type = ?", model.StockIn).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Group("user_id").
		Scan(&rows).Error
	return rows, err
}
