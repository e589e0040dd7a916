package service

import (
	"context"
	"errors"
	"testing"

	"nexus-pos/internal/events"
	"nexus-pos/internal/model"

	"github.com/google/uuid"
)

func TestStockInAddsAndJournals(t *testing.T) {
	f := newFixture(t)
	stocker := f.addUser(t, "Stocker", "stocker@example.com", model.RoleUser)
	_, inv := f.addProduct(t, "widget", "50", 5)

	res, err := f.stocker().StockIn(context.Background(), stocker, StockInRequest{InventoryID: inv.ID, QuantityAdded: 15})
	if err != nil {
		t.Fatalf("stock in: %v", err)
	}
	if res.NewQuantity != 20 || res.ProductName != "widget" {
		t.Fatalf("result = %+v", res)
	}
	if got := f.quantity(t, inv.ID); got != 20 {
		t.Fatalf("quantity = %d, want 20", got)
	}

	logs, err := f.stockLogs.FindByInventoryID(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("stock logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("stock logs = %d, want 1", len(logs))
	}
	entry := logs[0]
	if entry.Type != model.StockIn || entry.QuantityAdjusted != 15 || entry.NewQuantity != 20 || entry.UserID != stocker.ID {
		t.Fatalf("unexpected stock log: %+v", entry)
	}
	if entry.ID != res.StockLogID {
		t.Fatalf("result log id %s, stored %s", res.StockLogID, entry.ID)
	}

	if got := len(f.events.ByKey(events.StockIn)); got != 1 {
		t.Fatalf("stock.in events = %d, want 1", got)
	}
}

func TestStockInRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	stocker := f.addUser(t, "Stocker", "stocker@example.com", model.RoleUser)
	_, inv := f.addProduct(t, "widget", "50", 5)

	for _, qty := range []int{0, -3} {
		_, err := f.stocker().StockIn(context.Background(), stocker, StockInRequest{InventoryID: inv.ID, QuantityAdded: qty})
		if !IsValidation(err) {
			t.Fatalf("qty %d: err = %v, want validation error", qty, err)
		}
	}
	if got := f.quantity(t, inv.ID); got != 5 {
		t.Fatalf("quantity = %d, want 5", got)
	}
	if n := f.count(t, &model.StockLog{}); n != 0 {
		t.Fatalf("stock logs = %d, want 0", n)
	}
}

func TestStockInUnknownInventory(t *testing.T) {
	f := newFixture(t)
	stocker := f.addUser(t, "Stocker", "stocker@example.com", model.RoleUser)

	_, err := f.stocker().StockIn(context.Background(), stocker, StockInRequest{InventoryID: uuid.New(), QuantityAdded: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStockerInventoryAndSummary(t *testing.T) {
	f := newFixture(t)
	stocker := f.addUser(t, "Stocker", "stocker@example.com", model.RoleUser)
	other := f.addUser(t, "Other", "other@example.com", model.RoleUser)
	_, a := f.addProduct(t, "apple", "1", 1)
	_, b := f.addProduct(t, "bread", "2", 0)
	svc := f.stocker()
	ctx := context.Background()

	for _, req := range []StockInRequest{
		{InventoryID: a.ID, QuantityAdded: 4},
		{InventoryID: a.ID, QuantityAdded: 6},
		{InventoryID: b.ID, QuantityAdded: 10},
	} {
		if _, err := svc.StockIn(ctx, stocker, req); err != nil {
			t.Fatalf("stock in: %v", err)
		}
	}
	if _, err := svc.StockIn(ctx, other, StockInRequest{InventoryID: b.ID, QuantityAdded: 1}); err != nil {
		t.Fatalf("stock in: %v", err)
	}

	summary, err := svc.Summary(ctx, stocker.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.ItemsStocked != 2 || summary.QuantityStocked != 20 {
		t.Fatalf("summary = %+v, want 2 items / 20 units", summary)
	}

	rows, err := svc.Inventory(ctx)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, r := range rows {
		if r.LastStockedAt == nil || r.LastStockedBy == "" {
			t.Fatalf("row %s has no last stock entry", r.ID)
		}
	}
}

func TestLastStockedIgnoresSalesAndAdjustments(t *testing.T) {
	f := newFixture(t)
	stocker := f.addUser(t, "Stocker", "stocker@example.com", model.RoleUser)
	cashier := f.addUser(t, "Cashier", "cashier@example.com", model.RoleUser)
	admin := f.addUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	p, inv := f.addProduct(t, "widget", "5", 2)
	ctx := context.Background()
	svc := f.stocker()

	if _, err := svc.StockIn(ctx, stocker, StockInRequest{InventoryID: inv.ID, QuantityAdded: 10}); err != nil {
		t.Fatalf("stock in: %v", err)
	}
	if _, err := f.checkout().Checkout(ctx, cashier, CheckoutRequest{Cart: []CartLine{{ProductID: p.ID, Quantity: 3}}}); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, err := f.inventoryService().Update(ctx, admin, inv.ID, UpdateInventoryRequest{Quantity: 30}); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	rows, err := svc.Inventory(ctx)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].LastStockedBy != "Stocker" {
		t.Fatalf("last_stocked_by = %q, want Stocker", rows[0].LastStockedBy)
	}
	if rows[0].Quantity != 30 {
		t.Fatalf("quantity = %d, want 30", rows[0].Quantity)
	}
}
