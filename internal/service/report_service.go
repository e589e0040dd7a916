package service

import (
	"context"
	"time"

	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	unknownCashier = "Unknown Cashier"
	unknownStocker = "Unknown Stocker"
)

type EmployeeRanking struct {
	Rank             int             `json:"rank"`
	CashierID        uuid.UUID       `json:"cashier_id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	TransactionCount int64           `json:"transaction_count"`
	TotalSales       decimal.Decimal `json:"total_sales"`
}

type StockerRanking struct {
	Rank            int       `json:"rank"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ItemsStocked    int64     `json:"items_stocked"`
	QuantityStocked int64     `json:"quantity_stocked"`
}

type EmployeeSummary struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalEmployees    int             `json:"total_employees"`
	TotalTransactions int64           `json:"total_transactions"`
}

type StockerSummary struct {
	TotalQuantity int64 `json:"total_quantity"`
	TotalStockers int   `json:"total_stockers"`
	TotalItems    int64 `json:"total_items"`
}

type EmployeeReport struct {
	Window      Window            `json:"window"`
	Description string            `json:"description"`
	Rankings    []EmployeeRanking `json:"rankings"`
	Summary     EmployeeSummary   `json:"summary"`
}

type StockerReport struct {
	Window      Window           `json:"window"`
	Description string           `json:"description"`
	Rankings    []StockerRanking `json:"rankings"`
	Summary     StockerSummary   `json:"summary"`
}

type ReportService interface {
	EmployeeRankings(ctx context.Context, tf Timeframe) (*EmployeeReport, error)
	StockerRankings(ctx context.Context, tf Timeframe) (*StockerReport, error)
}

type reportService struct {
	saleRepo     repository.TransactionRepository
	stockLogRepo repository.StockLogRepository
	userRepo     repository.UserRepository
	loc          *time.Location
	now          func() time.Time
}

func NewReportService(
	tRepo repository.TransactionRepository,
	sRepo repository.StockLogRepository,
	uRepo repository.UserRepository,
	loc *time.Location,
) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{saleRepo: tRepo, stockLogRepo: sRepo, userRepo: uRepo, loc: loc, now: time.Now}
}

func (s *reportService) window(tf Timeframe) Window {
	return ResolveWindow(tf, "", s.now().In(s.loc))
}

func (s *reportService) EmployeeRankings(ctx context.Context, tf Timeframe) (*EmployeeReport, error) {
	w := s.window(tf)
	rows, err := s.saleRepo.SalesByCashier(ctx, w.CurrentStart, w.CurrentEnd)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.CashierID
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &EmployeeReport{
		Window:      w,
		Description: ReportDescription(w.Timeframe),
		Rankings:    make([]EmployeeRanking, len(rows)),
		Summary:     EmployeeSummary{TotalSales: decimal.Zero, TotalEmployees: len(rows)},
	}
	for i, r := range rows {
		name, email := displayName(users, r.CashierID, unknownCashier)
		out.Rankings[i] = EmployeeRanking{
			CashierID:        r.CashierID,
			Name:             name,
			Email:            email,
			TransactionCount: r.TransactionCount,
			TotalSales:       r.TotalSales,
		}
		out.Summary.TotalSales = out.Summary.TotalSales.Add(r.TotalSales)
		out.Summary.TotalTransactions += r.TransactionCount
	}

	AssignRanks(out.Rankings,
		func(r EmployeeRanking) decimal.Decimal { return r.TotalSales },
		func(r *EmployeeRanking, rank int) { r.Rank = rank })
	return out, nil
}

func (s *reportService) StockerRankings(ctx context.Context, tf Timeframe) (*StockerReport, error) {
	w := s.window(tf)
	rows, err := s.stockLogRepo.StockerTotals(ctx, w.CurrentStart, w.CurrentEnd)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.UserID
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &StockerReport{
		Window:      w,
		Description: ReportDescription(w.Timeframe),
		Rankings:    make([]StockerRanking, len(rows)),
		Summary:     StockerSummary{TotalStockers: len(rows)},
	}
	for i, r := range rows {
		name, email := displayName(users, r.UserID, unknownStocker)
		out.Rankings[i] = StockerRanking{
			UserID:          r.UserID,
			Name:            name,
			Email:           email,
			ItemsStocked:    r.ItemsStocked,
			QuantityStocked: r.QuantityStocked,
		}
		out.Summary.TotalQuantity += r.QuantityStocked
		out.Summary.TotalItems += r.ItemsStocked
	}

	AssignRanks(out.Rankings,
		func(r StockerRanking) decimal.Decimal { return decimal.NewFromInt(r.QuantityStocked) },
		func(r *StockerRanking, rank int) { r.Rank = rank })
	return out, nil
}

func displayName(users map[uuid.UUID]model.User, id uuid.UUID, fallback string) (string, string) {
	u, ok := users[id]
	if !ok {
		return fallback, ""
	}
	return u.FullName, u.Email
}
