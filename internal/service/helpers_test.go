package service

import (
	"context"
	"testing"
	"time"

	"nexus-pos/internal/events"
	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"
	"nexus-pos/internal/ws"
	"nexus-pos/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db     *gorm.DB
	hub    *ws.Hub
	events *events.Recorder

	products   repository.ProductRepository
	categories repository.CategoryRepository
	inventory  repository.InventoryRepository
	sales      repository.TransactionRepository
	stockLogs  repository.StockLogRepository
	users      repository.UserRepository
	roles      repository.RoleRepository
	settings   repository.SettingRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return newFixtureOn(t, db)
}

// newFixtureOn migrates db and wires repositories against it.
func newFixtureOn(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(func() {
		hub.Close()
		database.Close(db)
	})

	f := &fixture{
		db:         db,
		hub:        hub,
		events:     &events.Recorder{},
		products:   repository.NewProductRepo(db),
		categories: repository.NewCategoryRepo(db),
		inventory:  repository.NewInventoryRepo(db),
		sales:      repository.NewTransactionRepo(db),
		stockLogs:  repository.NewStockLogRepo(db),
		users:      repository.NewUserRepo(db),
		roles:      repository.NewRoleRepo(db),
		settings:   repository.NewSettingRepo(db),
	}
	if err := f.roles.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return f
}

func (f *fixture) checkout() CheckoutService {
	return NewCheckoutService(f.db, f.products, f.inventory, f.sales, f.stockLogs, f.hub, f.events)
}

func (f *fixture) stocker() StockerService {
	return NewStockerService(f.db, f.inventory, f.stockLogs, f.hub, f.events)
}

func (f *fixture) settingService() SettingService {
	return NewSettingService(f.db, f.settings)
}

// addUser creates an active user with roleCode and returns it as an Actor.
func (f *fixture) addUser(t *testing.T, name, email, roleCode string) Actor {
	t.Helper()
	ctx := context.Background()
	role, err := f.roles.FindByCode(ctx, roleCode)
	if err != nil {
		t.Fatalf("role %s: %v", roleCode, err)
	}
	u := &model.User{Email: email, FullName: name, RoleID: &role.ID, IsActive: true}
	if err := u.SetPassword("password123"); err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := f.users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return Actor{ID: u.ID, Name: u.FullName, Email: u.Email}
}

// addProduct creates a product priced at price with an inventory row holding qty.
func (f *fixture) addProduct(t *testing.T, name, price string, qty int) (model.Product, model.Inventory) {
	t.Helper()
	p := model.Product{
		Name:     name,
		SKU:      name + "-" + uuid.NewString()[:8],
		Price:    decimal.RequireFromString(price),
		PackSize: 1,
	}
	if err := f.db.Omit("Category", "Inventory").Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	inv := model.Inventory{ProductID: p.ID, Quantity: qty, ReorderLevel: model.DefaultReorderLevel}
	if err := f.db.Omit("Product").Create(&inv).Error; err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	return p, inv
}

type saleLine struct {
	product  model.Product
	quantity int
}

// addSale writes a committed sale at a fixed time, bypassing checkout.
func (f *fixture) addSale(t *testing.T, cashier Actor, at time.Time, lines ...saleLine) model.Transaction {
	t.Helper()
	sale := model.Transaction{CashierID: cashier.ID, Total: decimal.Zero}
	sale.CreatedAt = at.UTC()
	for _, l := range lines {
		item := model.TransactionItem{ProductID: l.product.ID, Quantity: l.quantity, Price: l.product.Price}
		item.CreatedAt = at.UTC()
		sale.Items = append(sale.Items, item)
		sale.Total = sale.Total.Add(item.Subtotal())
	}
	if err := f.db.Create(&sale).Error; err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return sale
}

func (f *fixture) quantity(t *testing.T, inventoryID uuid.UUID) int {
	t.Helper()
	var inv model.Inventory
	if err := f.db.First(&inv, "id = ?", inventoryID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	return inv.Quantity
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
