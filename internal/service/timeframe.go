package service

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Timeframe string

const (
	TimeframeDay   Timeframe = "Day"
	TimeframeWeek  Timeframe = "Week"
	TimeframeMonth Timeframe = "Month"
	TimeframeYear  Timeframe = "Year"
)

// ParseTimeframe is case-insensitive. Empty input yields fallback, anything
// unrecognised yields Month.
func ParseTimeframe(s string, fallback Timeframe) Timeframe {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return fallback
	case "day":
		return TimeframeDay
	case "week":
		return TimeframeWeek
	case "year":
		return TimeframeYear
	default:
		return TimeframeMonth
	}
}

// Window bounds a reporting period. Current is [CurrentStart, CurrentEnd) and
// the comparison period is [PreviousStart, CurrentStart).
type Window struct {
	Timeframe     Timeframe `json:"timeframe"`
	CurrentStart  time.Time `json:"current_start"`
	CurrentEnd    time.Time `json:"current_end"`
	PreviousStart time.Time `json:"previous_start"`
	Description   string    `json:"description"`
	Month         string    `json:"month,omitempty"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// ResolveWindow computes the window for tf in now's location. month (YYYY-MM)
// only applies to Month; an unparsable month falls back to the current one.
func ResolveWindow(tf Timeframe, month string, now time.Time) Window {
	w := Window{Timeframe: tf}
	switch tf {
	case TimeframeDay:
		w.CurrentStart = startOfDay(now)
		w.CurrentEnd = w.CurrentStart.AddDate(0, 0, 1)
		w.PreviousStart = w.CurrentStart.AddDate(0, 0, -1)
		w.Description = "Compared to yesterday"
	case TimeframeWeek:
		w.CurrentStart = startOfWeek(now)
		w.CurrentEnd = w.CurrentStart.AddDate(0, 0, 7)
		w.PreviousStart = w.CurrentStart.AddDate(0, 0, -7)
		w.Description = "Compared to last week"
	case TimeframeYear:
		w.CurrentStart = startOfYear(now)
		w.CurrentEnd = w.CurrentStart.AddDate(1, 0, 0)
		w.PreviousStart = w.CurrentStart.AddDate(-1, 0, 0)
		w.Description = "Compared to last year"
	default:
		w.Timeframe = TimeframeMonth
		w.CurrentStart = startOfMonth(now)
		w.Description = "Compared to last month"
		if month != "" {
			if t, err := time.ParseInLocation("2006-01", month, now.Location()); err == nil {
				w.CurrentStart = t
				w.Month = month
			}
		}
		w.CurrentEnd = w.CurrentStart.AddDate(0, 1, 0)
		w.PreviousStart = w.CurrentStart.AddDate(0, -1, 0)
		if w.Month != "" {
			w.Description = "Compared to " + w.PreviousStart.Format("Jan 2006")
		}
	}
	return w
}

// ReportDescription labels a report window, e.g. "This week".
func ReportDescription(tf Timeframe) string {
	return "This " + strings.ToLower(string(tf))
}

var hundred = decimal.NewFromInt(100)

// PercentChange returns ((current-previous)/previous)*100 rounded to two
// places. A zero previous value yields 100 when current is positive, else 0.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

// AssignRanks sorts items by metric descending and numbers them from 1.
// Ties keep their input order and still receive distinct ranks.
func AssignRanks[T any](items []T, metric func(T) decimal.Decimal, setRank func(*T, int)) {
	sort.SliceStable(items, func(i, j int) bool {
		return metric(items[i]).GreaterThan(metric(items[j]))
	})
	for i := range items {
		setRank(&items[i], i+1)
	}
}
