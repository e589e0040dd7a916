package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"nexus-pos/internal/cache"
	"nexus-pos/internal/metrics"
	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	adminRecentLimit   = 8
	cashierRecentLimit = 5
	topProductLimit    = 5
	monthsOfRevenue    = 12
)

type RecentSale struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CashierName string          `json:"cashier_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type SalesProgress struct {
	Target  decimal.Decimal `json:"target"`
	Current decimal.Decimal `json:"current"`
}

type AdminMetrics struct {
	Window             Window          `json:"window"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	PreviousRevenue    decimal.Decimal `json:"previous_revenue"`
	RevenueChange      decimal.Decimal `json:"revenue_change"`
	RevenueDescription string          `json:"revenue_description"`
	TotalEmployees     int64           `json:"total_employees"`
	NewEmployees       int64           `json:"new_employees"`
	TotalProducts      int64           `json:"total_products"`
	LowStockItems      int64           `json:"low_stock_items"`
	OutOfStock         int64           `json:"out_of_stock"`
	RecentTransactions []RecentSale    `json:"recent_transactions"`
	SalesData          SalesProgress   `json:"sales_data"`
}

type DailySales struct {
	Day     string          `json:"day"`
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Value     decimal.Decimal `json:"value"`
}

type GraphData struct {
	Window         Window           `json:"window"`
	DailySales     []DailySales     `json:"daily_sales"`
	MonthlyRevenue []MonthlyRevenue `json:"monthly_revenue"`
	TopProducts    []TopProduct     `json:"top_products"`
}

type CashierMetrics struct {
	Window             Window          `json:"window"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	RevenueChange      decimal.Decimal `json:"revenue_change"`
	RevenueDescription string          `json:"revenue_description"`
	RecentTransactions []RecentSale    `json:"recent_transactions"`
	SalesData          SalesProgress   `json:"sales_data"`
}

type DailyReportLine struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	ProductsCount int             `json:"products_count"`
	Time          string          `json:"time"`
}

type DailyReport struct {
	Date              string            `json:"date"`
	DateFormatted     string            `json:"date_formatted"`
	TotalSales        decimal.Decimal   `json:"total_sales"`
	TotalTransactions int               `json:"total_transactions"`
	RevenueChange     decimal.Decimal   `json:"revenue_change"`
	DailyTarget       decimal.Decimal   `json:"daily_target"`
	Transactions      []DailyReportLine `json:"transactions"`
}

type DashboardService interface {
	AdminMetrics(ctx context.Context, tf Timeframe, month string) (*AdminMetrics, error)
	AdminGraphs(ctx context.Context, tf Timeframe, month string) (*GraphData, error)
	CashierMetrics(ctx context.Context, cashierID uuid.UUID, tf Timeframe, month string) (*CashierMetrics, error)
	DailyReport(ctx context.Context, cashierID uuid.UUID, date string) (*DailyReport, error)
}

// DashboardOptions tunes time handling and graph caching.
type DashboardOptions struct {
	Location *time.Location
	CacheTTL time.Duration
	Now      func() time.Time
}

type dashboardService struct {
	saleRepo      repository.TransactionRepository
	userRepo      repository.UserRepository
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	settings      SettingService
	cache         cache.Cache
	loc           *time.Location
	cacheTTL      time.Duration
	now           func() time.Time
}

func NewDashboardService(
	tRepo repository.TransactionRepository,
	uRepo repository.UserRepository,
	pRepo repository.ProductRepository,
	iRepo repository.InventoryRepository,
	settings SettingService,
	c cache.Cache,
	opts DashboardOptions,
) DashboardService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if c == nil {
		c = cache.NoopCache{}
	}
	return &dashboardService{
		saleRepo:      tRepo,
		userRepo:      uRepo,
		productRepo:   pRepo,
		inventoryRepo: iRepo,
		settings:      settings,
		cache:         c,
		loc:           opts.Location,
		cacheTTL:      opts.CacheTTL,
		now:           opts.Now,
	}
}

func (s *dashboardService) clock() time.Time {
	return s.now().In(s.loc)
}

func toRecentSales(sales []model.Transaction) []RecentSale {
	out := make([]RecentSale, len(sales))
	for i, t := range sales {
		out[i] = RecentSale{
			ID:          t.ID,
			Description: "Sale Transaction #" + t.ID.String(),
			Amount:      t.Total,
			CreatedAt:   t.CreatedAt,
		}
		if t.Cashier != nil {
			out[i].CashierName = t.Cashier.FullName
		}
	}
	return out
}

func (s *dashboardService) AdminMetrics(ctx context.Context, tf Timeframe, month string) (*AdminMetrics, error) {
	w := ResolveWindow(tf, month, s.clock())
	current := repository.SalesFilter{From: w.CurrentStart, To: w.CurrentEnd}
	previous := repository.SalesFilter{From: w.PreviousStart, To: w.CurrentStart}

	out := &AdminMetrics{Window: w, RevenueDescription: w.Description}
	var recent []model.Transaction
	var targets *SalesTargets

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalRevenue, err = s.saleRepo.SumTotal(gctx, current)
		return
	})
	g.Go(func() (err error) {
		out.PreviousRevenue, err = s.saleRepo.SumTotal(gctx, previous)
		return
	})
	g.Go(func() (err error) {
		out.TotalEmployees, err = s.userRepo.CountByRole(gctx, model.RoleUser, nil)
		return
	})
	g.Go(func() (err error) {
		out.NewEmployees, err = s.userRepo.CountByRole(gctx, model.RoleUser, &w.CurrentStart)
		return
	})
	g.Go(func() (err error) {
		out.TotalProducts, err = s.productRepo.Count(gctx)
		return
	})
	g.Go(func() (err error) {
		out.LowStockItems, err = s.inventoryRepo.CountLow(gctx)
		return
	})
	g.Go(func() (err error) {
		out.OutOfStock, err = s.inventoryRepo.CountOut(gctx)
		return
	})
	g.Go(func() (err error) {
		f := current
		f.Limit = adminRecentLimit
		recent, err = s.saleRepo.FindInRange(gctx, f)
		return
	})
	g.Go(func() (err error) {
		targets, err = s.settings.Targets(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.RevenueChange = PercentChange(out.TotalRevenue, out.PreviousRevenue)
	out.RecentTransactions = toRecentSales(recent)
	out.SalesData = SalesProgress{Target: targets.For(w.Timeframe), Current: out.TotalRevenue}
	return out, nil
}

func (s *dashboardService) AdminGraphs(ctx context.Context, tf Timeframe, month string) (*GraphData, error) {
	now := s.clock()
	w := ResolveWindow(tf, month, now)
	out := &GraphData{Window: w}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.DailySales, err = s.dailySales(gctx, w, now)
		return
	})
	g.Go(func() (err error) {
		out.MonthlyRevenue, err = s.monthlyRevenue(gctx, now)
		return
	})
	g.Go(func() (err error) {
		out.TopProducts, err = s.topProducts(gctx, w)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// dailySales buckets revenue per calendar day of the window, stopping at
// today. Year windows have no daily series.
func (s *dashboardService) dailySales(ctx context.Context, w Window, now time.Time) ([]DailySales, error) {
	if w.Timeframe == TimeframeYear {
		return []DailySales{}, nil
	}
	sales, err := s.saleRepo.FindInRange(ctx, repository.SalesFilter{From: w.CurrentStart, To: w.CurrentEnd})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]decimal.Decimal)
	for _, t := range sales {
		key := t.CreatedAt.In(s.loc).Format("2006-01-02")
		byDay[key] = byDay[key].Add(t.Total)
	}

	last := w.CurrentEnd.AddDate(0, 0, -1)
	if today := startOfDay(now); today.Before(last) {
		last = today
	}
	out := []DailySales{}
	for day := w.CurrentStart; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		out = append(out, DailySales{Day: day.Format("02"), Date: key, Revenue: byDay[key]})
	}
	return out, nil
}

func (s *dashboardService) monthlyRevenue(ctx context.Context, now time.Time) ([]MonthlyRevenue, error) {
	thisMonth := startOfMonth(now)
	key := "monthly_revenue_12m:" + thisMonth.Format("2006-01")

	var cached []MonthlyRevenue
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	from := thisMonth.AddDate(0, -(monthsOfRevenue - 1), 0)
	sales, err := s.saleRepo.FindInRange(ctx, repository.SalesFilter{From: from, To: thisMonth.AddDate(0, 1, 0)})
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]decimal.Decimal)
	for _, t := range sales {
		k := t.CreatedAt.In(s.loc).Format("2006-01")
		byMonth[k] = byMonth[k].Add(t.Total)
	}

	out := make([]MonthlyRevenue, 0, monthsOfRevenue)
	for i := 0; i < monthsOfRevenue; i++ {
		m := from.AddDate(0, i, 0)
		out = append(out, MonthlyRevenue{Month: m.Format("Jan 2006"), Revenue: byMonth[m.Format("2006-01")]})
	}

	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *dashboardService) topProducts(ctx context.Context, w Window) ([]TopProduct, error) {
	key := fmt.Sprintf("top_products:%s:%s", w.Timeframe, w.CurrentStart.Format("2006-01-02"))

	var cached []TopProduct
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.saleRepo.TopProducts(ctx, w.CurrentStart, w.CurrentEnd, topProductLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.ProductID
	}
	names, err := s.productRepo.FindNamesUnscoped(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TopProduct, len(rows))
	for i, r := range rows {
		out[i] = TopProduct{ProductID: r.ProductID, Name: names[r.ProductID], Quantity: r.Quantity, Value: r.Revenue}
	}

	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *dashboardService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("dashboard: cache get %s: %v", key, err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	return ok
}

func (s *dashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		log.Printf("dashboard: cache set %s: %v", key, err)
	}
}

func (s *dashboardService) CashierMetrics(ctx context.Context, cashierID uuid.UUID, tf Timeframe, month string) (*CashierMetrics, error) {
	w := ResolveWindow(tf, month, s.clock())
	current := repository.SalesFilter{From: w.CurrentStart, To: w.CurrentEnd, CashierID: &cashierID}
	previous := repository.SalesFilter{From: w.PreviousStart, To: w.CurrentStart, CashierID: &cashierID}

	out := &CashierMetrics{Window: w, RevenueDescription: w.Description}
	var prevRevenue decimal.Decimal
	var recent []model.Transaction
	var targets *SalesTargets

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalRevenue, err = s.saleRepo.SumTotal(gctx, current)
		return
	})
	g.Go(func() (err error) {
		prevRevenue, err = s.saleRepo.SumTotal(gctx, previous)
		return
	})
	g.Go(func() (err error) {
		f := current
		f.Limit = cashierRecentLimit
		recent, err = s.saleRepo.FindInRange(gctx, f)
		return
	})
	g.Go(func() (err error) {
		targets, err = s.settings.Targets(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.RevenueChange = PercentChange(out.TotalRevenue, prevRevenue)
	out.RecentTransactions = toRecentSales(recent)
	out.SalesData = SalesProgress{Target: targets.For(w.Timeframe), Current: out.TotalRevenue}
	return out, nil
}

// DailyReport summarises one cashier's sales for date (YYYY-MM-DD). An empty
// or malformed date means today.
func (s *dashboardService) DailyReport(ctx context.Context, cashierID uuid.UUID, date string) (*DailyReport, error) {
	day := startOfDay(s.clock())
	if date != "" {
		if d, err := time.ParseInLocation("2006-01-02", date, s.loc); err == nil {
			day = d
		}
	}
	next := day.AddDate(0, 0, 1)
	prev := day.AddDate(0, 0, -1)

	sales, err := s.saleRepo.FindInRange(ctx, repository.SalesFilter{From: day, To: next, CashierID: &cashierID, WithItems: true})
	if err != nil {
		return nil, err
	}
	prevTotal, err := s.saleRepo.SumTotal(ctx, repository.SalesFilter{From: prev, To: day, CashierID: &cashierID})
	if err != nil {
		return nil, err
	}
	targets, err := s.settings.Targets(ctx)
	if err != nil {
		return nil, err
	}

	out := &DailyReport{
		Date:              day.Format("2006-01-02"),
		DateFormatted:     day.Format("January 02, 2006"),
		TotalSales:        decimal.Zero,
		TotalTransactions: len(sales),
		DailyTarget:       targets.Daily,
		Transactions:      make([]DailyReportLine, len(sales)),
	}
	for i, t := range sales {
		out.TotalSales = out.TotalSales.Add(t.Total)
		out.Transactions[i] = DailyReportLine{
			ID:            t.ID,
			Amount:        t.Total,
			ProductsCount: len(t.Items),
			Time:          t.CreatedAt.In(s.loc).Format("03:04 PM"),
		}
	}
	out.RevenueChange = PercentChange(out.TotalSales, prevTotal)
	return out, nil
}
