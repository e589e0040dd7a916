package service

import (
	"context"
	"log"

	"nexus-pos/internal/model"
	"nexus-pos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesTargets are the configured revenue goals per timeframe.
type SalesTargets struct {
	Daily   decimal.Decimal `json:"target_daily_sales"`
	Weekly  decimal.Decimal `json:"target_weekly_sales"`
	Monthly decimal.Decimal `json:"target_monthly_sales"`
	Yearly  decimal.Decimal `json:"target_yearly_sales"`
}

// For picks the target that matches tf.
func (t SalesTargets) For(tf Timeframe) decimal.Decimal {
	switch tf {
	case TimeframeDay:
		return t.Daily
	case TimeframeWeek:
		return t.Weekly
	case TimeframeYear:
		return t.Yearly
	default:
		return t.Monthly
	}
}

type UpdateTargetsRequest struct {
	Daily   decimal.Decimal `json:"target_daily_sales"`
	Weekly  decimal.Decimal `json:"target_weekly_sales"`
	Monthly decimal.Decimal `json:"target_monthly_sales"`
	Yearly  decimal.Decimal `json:"target_yearly_sales"`
}

type SettingService interface {
	Targets(ctx context.Context) (*SalesTargets, error)
	UpdateTargets(ctx context.Context, actor Actor, req UpdateTargetsRequest) (*SalesTargets, error)
}

type settingService struct {
	db          *gorm.DB
	settingRepo repository.SettingRepository
}

func NewSettingService(db *gorm.DB, repo repository.SettingRepository) SettingService {
	return &settingService{db: db, settingRepo: repo}
}

func targetValue(values map[string]string, key string) decimal.Decimal {
	if raw, ok := values[key]; ok {
		if d, err := decimal.NewFromString(raw); err == nil {
			return d
		}
		log.Printf("settings: ignoring malformed %s=%q", key, raw)
	}
	return decimal.NewFromInt(model.DefaultSalesTargets[key])
}

func (s *settingService) Targets(ctx context.Context) (*SalesTargets, error) {
	values, err := s.settingRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	return &SalesTargets{
		Daily:   targetValue(values, model.SettingTargetDaily),
		Weekly:  targetValue(values, model.SettingTargetWeekly),
		Monthly: targetValue(values, model.SettingTargetMonthly),
		Yearly:  targetValue(values, model.SettingTargetYearly),
	}, nil
}

// UpdateTargets writes all four targets in one transaction.
func (s *settingService) UpdateTargets(ctx context.Context, actor Actor, req UpdateTargetsRequest) (*SalesTargets, error) {
	values := []struct {
		key   string
		value decimal.Decimal
	}{
		{model.SettingTargetDaily, req.Daily},
		{model.SettingTargetWeekly, req.Weekly},
		{model.SettingTargetMonthly, req.Monthly},
		{model.SettingTargetYearly, req.Yearly},
	}
	for _, v := range values {
		if v.value.IsNegative() {
			return nil, invalid(v.key, "must not be negative")
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, v := range values {
			if err := s.settingRepo.Upsert(tx, v.key, v.value.String()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("settings: sales targets updated by %s", actor.Email)
	return s.Targets(ctx)
}
