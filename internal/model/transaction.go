package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a completed sale. It is created as a draft with a zero total
// at the start of checkout and finalized before commit.
type Transaction struct {
	BaseModel
	Total     decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"total"`
	CashierID uuid.UUID         `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Cashier   *User             `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	Items     []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// TransactionItem is one line of a sale. Price is the unit price captured at
// the time of sale.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// Subtotal is quantity times the captured unit price.
func (i TransactionItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
