package service

import (
	"context"
	"testing"
	"time"

	"nexus-pos/internal/model"

	"github.com/google/uuid"
)

var reportNow = time.Date(2026, time.March, 18, 15, 0, 0, 0, time.UTC)

func newReportService(f *fixture) ReportService {
	svc := NewReportService(f.sales, f.stockLogs, f.users, time.UTC).(*reportService)
	svc.now = func() time.Time { return reportNow }
	return svc
}

func (f *fixture) addStockLog(t *testing.T, user Actor, inventoryID uuid.UUID, qty int, typ model.StockLogType, at time.Time) {
	t.Helper()
	entry := model.StockLog{InventoryID: inventoryID, UserID: user.ID, QuantityAdjusted: qty, NewQuantity: qty, Type: typ}
	entry.CreatedAt = at.UTC()
	if err := f.db.Create(&entry).Error; err != nil {
		t.Fatalf("create stock log: %v", err)
	}
}

func TestEmployeeRankings(t *testing.T) {
	f := newFixture(t)
	ann := f.addUser(t, "Ann", "ann@example.com", model.RoleUser)
	bob := f.addUser(t, "Bob", "bob@example.com", model.RoleUser)
	gone := f.addUser(t, "Gone", "gone@example.com", model.RoleUser)
	p, _ := f.addProduct(t, "widget", "10", 100)

	f.addSale(t, ann, reportNow.Add(-time.Hour), saleLine{p, 5})
	f.addSale(t, ann, reportNow.Add(-48*time.Hour), saleLine{p, 10})
	f.addSale(t, bob, reportNow.Add(-2*time.Hour), saleLine{p, 20})
	f.addSale(t, gone, reportNow.Add(-3*time.Hour), saleLine{p, 1})
	// Outside the month.
	f.addSale(t, bob, time.Date(2026, time.February, 27, 9, 0, 0, 0, time.UTC), saleLine{p, 50})

	if err := f.users.Delete(context.Background(), gone.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	r, err := newReportService(f).EmployeeRankings(context.Background(), TimeframeMonth)
	if err != nil {
		t.Fatalf("rankings: %v", err)
	}
	if r.Description != "This month" {
		t.Fatalf("description = %q", r.Description)
	}
	if len(r.Rankings) != 3 {
		t.Fatalf("rankings = %d, want 3", len(r.Rankings))
	}

	want := []struct {
		name  string
		count int64
		total string
	}{
		{"Bob", 1, "200"},
		{"Ann", 2, "150"},
		{"Unknown Cashier", 1, "10"},
	}
	for i, w := range want {
		got := r.Rankings[i]
		if got.Rank != i+1 || got.Name != w.name || got.TransactionCount != w.count || !got.TotalSales.Equal(dec(w.total)) {
			t.Fatalf("rank %d = %+v, want %s %d %s", i+1, got, w.name, w.count, w.total)
		}
	}

	if !r.Summary.TotalSales.Equal(dec("360")) || r.Summary.TotalEmployees != 3 || r.Summary.TotalTransactions != 4 {
		t.Fatalf("summary = %+v", r.Summary)
	}

	day, err := newReportService(f).EmployeeRankings(context.Background(), TimeframeDay)
	if err != nil {
		t.Fatalf("rankings: %v", err)
	}
	if len(day.Rankings) != 3 || day.Rankings[0].Name != "Bob" {
		t.Fatalf("day rankings = %+v", day.Rankings)
	}
	if day.Summary.TotalTransactions != 3 {
		t.Fatalf("day transactions = %d, want 3", day.Summary.TotalTransactions)
	}
}

func TestStockerRankings(t *testing.T) {
	f := newFixture(t)
	ann := f.addUser(t, "Ann", "ann@example.com", model.RoleUser)
	bob := f.addUser(t, "Bob", "bob@example.com", model.RoleUser)
	_, a := f.addProduct(t, "apple", "1", 0)
	_, b := f.addProduct(t, "bread", "1", 0)

	f.addStockLog(t, ann, a.ID, 10, model.StockIn, reportNow.Add(-time.Hour))
	f.addStockLog(t, ann, a.ID, 5, model.StockIn, reportNow.Add(-2*time.Hour))
	f.addStockLog(t, bob, a.ID, 8, model.StockIn, reportNow.Add(-3*time.Hour))
	f.addStockLog(t, bob, b.ID, 12, model.StockIn, reportNow.Add(-4*time.Hour))
	// Sales and earlier periods are not stocking work.
	f.addStockLog(t, ann, b.ID, 99, model.StockOut, reportNow.Add(-time.Hour))
	f.addStockLog(t, ann, b.ID, 99, model.StockIn, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC))

	r, err := newReportService(f).StockerRankings(context.Background(), TimeframeYear)
	if err != nil {
		t.Fatalf("rankings: %v", err)
	}
	if r.Description != "This year" {
		t.Fatalf("description = %q", r.Description)
	}
	if len(r.Rankings) != 2 {
		t.Fatalf("rankings = %d, want 2", len(r.Rankings))
	}
	first, second := r.Rankings[0], r.Rankings[1]
	if first.Name != "Bob" || first.Rank != 1 || first.ItemsStocked != 2 || first.QuantityStocked != 20 {
		t.Fatalf("first = %+v", first)
	}
	if second.Name != "Ann" || second.Rank != 2 || second.ItemsStocked != 1 || second.QuantityStocked != 15 {
		t.Fatalf("second = %+v", second)
	}
	if r.Summary.TotalQuantity != 35 || r.Summary.TotalStockers != 2 || r.Summary.TotalItems != 3 {
		t.Fatalf("summary = %+v", r.Summary)
	}
}

func TestStockerRankingsUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, a := f.addProduct(t, "apple", "1", 0)
	ghost := Actor{ID: uuid.New()}
	f.addStockLog(t, ghost, a.ID, 3, model.StockIn, reportNow.Add(-time.Hour))

	r, err := newReportService(f).StockerRankings(context.Background(), TimeframeDay)
	if err != nil {
		t.Fatalf("rankings: %v", err)
	}
	if len(r.Rankings) != 1 || r.Rankings[0].Name != "Unknown Stocker" {
		t.Fatalf("rankings = %+v", r.Rankings)
	}
}

func TestStockerRankingsExcludeAdminAdjustments(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "Admin", "admin@example.com", model.RoleAdmin)
	stocker := f.addUser(t, "Stocker", "stocker@example.com", model.RoleUser)
	_, inv := f.addProduct(t, "widget", "5", 0)
	ctx := context.Background()

	if _, err := f.inventoryService().Update(ctx, admin, inv.ID, UpdateInventoryRequest{Quantity: 50}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if _, err := f.stocker().StockIn(ctx, stocker, StockInRequest{InventoryID: inv.ID, QuantityAdded: 3}); err != nil {
		t.Fatalf("stock in: %v", err)
	}

	r, err := NewReportService(f.sales, f.stockLogs, f.users, time.UTC).StockerRankings(ctx, TimeframeYear)
	if err != nil {
		t.Fatalf("rankings: %v", err)
	}
	if len(r.Rankings) != 1 {
		t.Fatalf("rankings = %+v, want only the stocker", r.Rankings)
	}
	if got := r.Rankings[0]; got.Name != "Stocker" || got.QuantityStocked != 3 {
		t.Fatalf("rank 1 = %+v", got)
	}

	summary, err := f.stocker().Summary(ctx, admin.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.ItemsStocked != 0 || summary.QuantityStocked != 0 {
		t.Fatalf("admin summary = %+v, want nothing stocked", summary)
	}
}
