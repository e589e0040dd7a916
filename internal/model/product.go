package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultReorderLevel is applied to the inventory row created with a new product.
const DefaultReorderLevel = 5

type Product struct {
	BaseModel
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	SKU         string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Barcode     *string          `gorm:"type:varchar(100);uniqueIndex" json:"barcode"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	PackSize    int              `gorm:"not null" json:"pack_size"`
	PackPrice   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"pack_price"`
	Description string           `gorm:"type:text" json:"description"`
	ImageURL    string           `gorm:"type:varchar(500)" json:"image_url"`

	// Relasi
	Inventory *Inventory `gorm:"foreignKey:ProductID" json:"inventory,omitempty"`
}

// InitialQuantity is the stock a new product starts with: one pack for
// multi-packs, nothing for single items.
func (p *Product) InitialQuantity() int {
	if p.PackSize > 1 {
		return p.PackSize
	}
	return 0
}
