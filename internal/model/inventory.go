package model

import "github.com/google/uuid"

// Inventory holds the mutable stock count of exactly one product.
type Inventory struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"product_id"`
	Product      *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity     int       `gorm:"not null;check:quantity >= 0" json:"quantity"`
	ReorderLevel int       `gorm:"not null" json:"reorder_level"`
}

// IsLow reports stock at or under the reorder level that is not yet exhausted.
func (i *Inventory) IsLow() bool {
	return i.Quantity > 0 && i.Quantity <= i.ReorderLevel
}

// IsOut reports an exhausted row.
func (i *Inventory) IsOut() bool {
	return i.Quantity == 0
}
