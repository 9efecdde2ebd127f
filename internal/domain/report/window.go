package report

import (
	"time"

	"github.com/inventario/backend/internal/domain/shared"
)

// TimeRange is a symbolic look-back period ending now
type TimeRange string

const (
	TimeRange7Days  TimeRange = "7d"
	TimeRange30Days TimeRange = "30d"
	TimeRange90Days TimeRange = "90d"

	DefaultTimeRange = TimeRange7Days
)

// Days returns the length of the range in days
func (r TimeRange) Days() (int, bool) {
	switch r {
	case TimeRange7Days:
		return 7, true
	case TimeRange30Days:
		return 30, true
	case TimeRange90Days:
		return 90, true
	}
	return 0, false
}

// DateLayout is the accepted format for explicit window bounds
const DateLayout = "2006-01-02"

// Window is the half-open interval [Start, End) in UTC
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Facts keeps the facts sold inside the window
func (w Window) Facts(facts []SaleFact) []SaleFact {
	kept := facts[:0:0]
	for _, f := range facts {
		if w.Contains(f.SoldAt) {
			kept = append(kept, f)
		}
	}
	return kept
}

// ResolveTimeRange turns a symbolic range into a window ending at now.
// An empty token selects the default range.
func ResolveTimeRange(token string, now time.Time) (Window, error) {
	r := TimeRange(token)
	if token == "" {
		r = DefaultTimeRange
	}
	days, ok := r.Days()
	if !ok {
		return Window{}, shared.NewDomainError(shared.ErrInvalidRange.Code, "Invalid time range: "+token+" (expected 7d, 30d or 90d)")
	}
	now = now.UTC()
	return Window{Start: now.AddDate(0, 0, -days), End: now}, nil
}

// WindowFromDates builds a window from two calendar dates. The end date is
// inclusive, so the window closes at midnight after it.
func WindowFromDates(start, end string) (Window, error) {
	if start == "" || end == "" {
		return Window{}, shared.InvalidInput("start_date and end_date are required")
	}
	s, err := time.ParseInLocation(DateLayout, start, time.UTC)
	if err != nil {
		return Window{}, shared.InvalidInput("start_date must use the YYYY-MM-DD format")
	}
	e, err := time.ParseInLocation(DateLayout, end, time.UTC)
	if err != nil {
		return Window{}, shared.InvalidInput("end_date must use the YYYY-MM-DD format")
	}
	if e.Before(s) {
		return Window{}, shared.NewDomainError(shared.ErrInvalidRange.Code, "start_date must not be after end_date")
	}
	return Window{Start: s, End: e.AddDate(0, 0, 1)}, nil
}
