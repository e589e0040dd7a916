package model

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &User{},
		&Category{}, &Product{}, &Inventory{},
		&Transaction{}, &TransactionItem{}, &StockLog{},
		&Setting{},
	}
}
