package model

import "time"

// Setting is a global key/value row (sales targets and similar toggles).
type Setting struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sales target keys.
const (
	SettingTargetDaily   = "target_daily_sales"
	SettingTargetWeekly  = "target_weekly_sales"
	SettingTargetMonthly = "target_monthly_sales"
	SettingTargetYearly  = "target_yearly_sales"
)

// DefaultSalesTargets applies when a target was never saved.
var DefaultSalesTargets = map[string]int64{
	SettingTargetDaily:   1500,
	SettingTargetWeekly:  10000,
	SettingTargetMonthly: 50000,
	SettingTargetYearly:  120000,
}
