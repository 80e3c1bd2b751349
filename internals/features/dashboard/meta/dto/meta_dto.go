package dto

import (
	"strings"
	"time"

	"eventhub_backend/internals/helpers/apperror"
)

const (
	Duration7Days  = "7days"
	Duration15Days = "15days"
	Duration1Month = "1month"
)

type MetaQuery struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Duration  string `query:"duration"`
}

// Range is a closed [Start, End] window in UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// Resolve turns the query into a window. An explicit startDate/endDate pair
// wins (endDate runs to the end of its day); otherwise duration picks the
// window ending today, 1month (start of the current month) by default.
func (q MetaQuery) Resolve(now time.Time) (Range, error) {
	now = now.UTC()
	endOfToday := endOfDay(now)

	start, end := strings.TrimSpace(q.StartDate), strings.TrimSpace(q.EndDate)
	if start != "" || end != "" {
		var bad []apperror.FieldError
		s, err := parseDay(start)
		if err != nil {
			bad = append(bad, apperror.FieldError{Path: "startDate", Message: "Invalid date format"})
		}
		e, err := parseDay(end)
		if err != nil {
			bad = append(bad, apperror.FieldError{Path: "endDate", Message: "Invalid date format"})
		}
		if len(bad) == 0 && e.Before(s) {
			bad = append(bad, apperror.FieldError{Path: "endDate", Message: "endDate must not be before startDate"})
		}
		if len(bad) > 0 {
			return Range{}, apperror.Validation(bad)
		}
		return Range{Start: s, End: endOfDay(e)}, nil
	}

	switch strings.TrimSpace(q.Duration) {
	case Duration7Days:
		return Range{Start: startOfDay(now.AddDate(0, 0, -7)), End: endOfToday}, nil
	case Duration15Days:
		return Range{Start: startOfDay(now.AddDate(0, 0, -15)), End: endOfToday}, nil
	case "", Duration1Month:
		return Range{Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), End: endOfToday}, nil
	default:
		return Range{}, apperror.Validation([]apperror.FieldError{{
			Path:    "duration",
			Message: "duration must be one of 7days, 15days, 1month",
		}})
	}
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

/* ===========================
   Response
   =========================== */

type Summary struct {
	TotalUsers   int64   `json:"totalUsers"`
	TotalEvents  int64   `json:"totalEvents"`
	TotalSales   int64   `json:"totalSales"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type ChartPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Charts struct {
	Revenue []ChartPoint `json:"revenue"`
	Users   []ChartPoint `json:"users"`
	Events  []ChartPoint `json:"events"`
}

type MetaResponse struct {
	Summary           Summary          `json:"summary"`
	EventDistribution map[string]int64 `json:"eventDistribution"`
	Charts            Charts           `json:"charts"`
}
