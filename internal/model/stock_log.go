package model

import "github.com/google/uuid"

type StockLogType string

const (
	StockIn  StockLogType = "in"
	StockOut StockLogType = "out"

	// StockAdjust is an admin correction; QuantityAdjusted carries the sign.
	StockAdjust StockLogType = "adjust"
)

// StockLog is an append-only audit entry for an inventory quantity change.
type StockLog struct {
	BaseModel
	InventoryID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"inventory_id"`
	Inventory        *Inventory   `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`
	UserID           uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	QuantityAdjusted int          `gorm:"not null" json:"quantity_adjusted"`
	NewQuantity      int          `gorm:"not null" json:"new_quantity"`
	Type             StockLogType `gorm:"type:varchar(10);not null;index" json:"type"`
	Notes            string       `gorm:"type:text" json:"notes,omitempty"`
}
