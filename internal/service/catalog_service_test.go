package service

import (
	"context"
	"errors"
	"testing"

	"nexus-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func (f *fixture) productService() ProductService {
	return NewProductService(f.db, f.products, f.categories, f.inventory, f.hub)
}

func (f *fixture) inventoryService() InventoryService {
	return NewInventoryService(f.db, f.inventory, f.products, f.stockLogs, f.hub)
}

func TestProductCreateOpensInventory(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	ctx := context.Background()
	svc := f.productService()

	tests := []struct {
		name     string
		sku      string
		packSize int
		wantQty  int
	}{
		{"single item starts empty", "SKU-1", 0, 0},
		{"multi-pack starts with one pack", "SKU-12", 12, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Create(ctx, admin, ProductRequest{Name: tt.name, SKU: tt.sku, Price: dec("2.50"), PackSize: tt.packSize})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if p.Inventory == nil {
				t.Fatalf("product has no inventory row")
			}
			if p.Inventory.Quantity != tt.wantQty || p.Inventory.ReorderLevel != model.DefaultReorderLevel {
				t.Fatalf("inventory = qty %d reorder %d, want %d / %d",
					p.Inventory.Quantity, p.Inventory.ReorderLevel, tt.wantQty, model.DefaultReorderLevel)
			}
		})
	}
}

func TestProductValidationAndConflicts(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	ctx := context.Background()
	svc := f.productService()

	if _, err := svc.Create(ctx, admin, ProductRequest{Name: "Cola", SKU: "COLA", Barcode: strPtr("8991"), Price: dec("5")}); err != nil {
		t.Fatalf("create: %v", err)
	}

	missingCategory := uuid.New()
	tests := []struct {
		name  string
		req   ProductRequest
		check func(error) bool
	}{
		{"missing name", ProductRequest{SKU: "X", Price: dec("1")}, IsValidation},
		{"negative price", ProductRequest{Name: "X", SKU: "X", Price: dec("-1")}, IsValidation},
		{"unknown category", ProductRequest{Name: "X", SKU: "X", Price: dec("1"), CategoryID: &missingCategory}, IsValidation},
		{"duplicate sku", ProductRequest{Name: "Cola 2", SKU: "COLA", Price: dec("1")}, func(err error) bool { return errors.Is(err, ErrConflict) }},
		{"duplicate barcode", ProductRequest{Name: "Cola 3", SKU: "COLA-3", Barcode: strPtr("8991"), Price: dec("1")}, func(err error) bool { return errors.Is(err, ErrConflict) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, admin, tt.req)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if n := f.count(t, &model.Inventory{}); n != 1 {
		t.Fatalf("inventory rows = %d, want 1", n)
	}
}

func TestProductFindByCodeAndDelete(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	ctx := context.Background()
	svc := f.productService()

	p, err := svc.Create(ctx, admin, ProductRequest{Name: "Cola", SKU: "COLA", Barcode: strPtr("8991"), Price: dec("5")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, code := range []string{"8991", "COLA", " COLA "} {
		found, err := svc.FindByCode(ctx, code)
		if err != nil || found.ID != p.ID {
			t.Fatalf("FindByCode(%q) = %v, %v", code, found, err)
		}
	}
	if _, err := svc.FindByCode(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(ctx, admin, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if n := f.count(t, &model.Inventory{}); n != 0 {
		t.Fatalf("inventory rows = %d, want 0 after delete", n)
	}
	if err := svc.Delete(ctx, admin, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	ctx := context.Background()
	svc := NewCategoryService(f.categories)

	drinks, err := svc.Create(ctx, admin, CategoryRequest{Name: "Drinks"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !drinks.IsActive {
		t.Fatalf("new category should default to active")
	}
	if _, err := svc.Create(ctx, admin, CategoryRequest{Name: "Drinks"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate err = %v, want ErrConflict", err)
	}

	if _, err := f.productService().Create(ctx, admin, ProductRequest{Name: "Cola", SKU: "COLA", Price: dec("5"), CategoryID: &drinks.ID}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ProductCount != 1 {
		t.Fatalf("list = %+v", list)
	}

	if err := svc.Delete(ctx, drinks.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("delete err = %v, want ErrCategoryInUse", err)
	}

	inactive := false
	updated, err := svc.Update(ctx, admin, drinks.ID, CategoryRequest{Name: "Beverages", IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Beverages" || updated.IsActive {
		t.Fatalf("updated = %+v", updated)
	}

	empty, err := svc.Create(ctx, admin, CategoryRequest{Name: "Snacks"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, empty.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, empty.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInventoryUpdateJournalsDelta(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	p, inv := f.addProduct(t, "widget", "50", 10)
	ctx := context.Background()
	svc := f.inventoryService()

	reorder := 3
	price := decimal.RequireFromString("55")
	view, err := svc.Update(ctx, admin, inv.ID, UpdateInventoryRequest{Quantity: 4, ReorderLevel: &reorder, Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if view.Quantity != 4 || view.ReorderLevel != 3 || view.IsLow || view.IsOut {
		t.Fatalf("view = qty %d reorder %d low %v out %v", view.Quantity, view.ReorderLevel, view.IsLow, view.IsOut)
	}

	product, err := f.products.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}
	if !product.Price.Equal(price) {
		t.Fatalf("price = %s, want 55", product.Price)
	}

	if _, err := svc.Update(ctx, admin, inv.ID, UpdateInventoryRequest{Quantity: 9}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Update(ctx, admin, inv.ID, UpdateInventoryRequest{Quantity: 9}); err != nil {
		t.Fatalf("update: %v", err)
	}

	history, err := svc.History(ctx, inv.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	newest, oldest := history[0], history[1]
	if oldest.Type != model.StockAdjust || oldest.QuantityAdjusted != -6 || oldest.NewQuantity != 4 {
		t.Fatalf("oldest = %+v", oldest)
	}
	if newest.Type != model.StockAdjust || newest.QuantityAdjusted != 5 || newest.NewQuantity != 9 {
		t.Fatalf("newest = %+v", newest)
	}

	if _, err := svc.Update(ctx, admin, inv.ID, UpdateInventoryRequest{Quantity: -1}); !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if _, err := svc.Update(ctx, admin, uuid.New(), UpdateInventoryRequest{Quantity: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInventoryCreateIsOneToOne(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	ctx := context.Background()
	svc := f.inventoryService()

	p := model.Product{Name: "loose", SKU: "LOOSE", Price: dec("1"), PackSize: 1}
	if err := f.db.Omit("Category", "Inventory").Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	view, err := svc.Create(ctx, admin, CreateInventoryRequest{ProductID: p.ID, Quantity: 7})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.Quantity != 7 || view.ReorderLevel != model.DefaultReorderLevel {
		t.Fatalf("view = %+v", view)
	}
	history, err := svc.History(ctx, view.ID)
	if err != nil || len(history) != 1 || history[0].Type != model.StockAdjust {
		t.Fatalf("opening stock not journaled: %v %+v", err, history)
	}

	if _, err := svc.Create(ctx, admin, CreateInventoryRequest{ProductID: p.ID}); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if _, err := svc.Create(ctx, admin, CreateInventoryRequest{ProductID: uuid.New()}); !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}

	if err := svc.Delete(ctx, admin, view.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, view.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
