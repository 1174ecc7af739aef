package incentive

import (
	"fmt"
	"time"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

type PeriodKind string

const (
	PeriodAll      PeriodKind = "all"
	PeriodLastDays PeriodKind = "last_days"
	PeriodRange    PeriodKind = "range"
	PeriodMonth    PeriodKind = "month"
)

// Period selects the reporting window for sales rows. The zero value is
// AllTime.
type Period struct {
	Kind  PeriodKind
	Days  int
	Start time.Time
	End   time.Time
	Year  int
	Month time.Month
}

func AllTime() Period { return Period{Kind: PeriodAll} }

// LastDays matches rows dated on or after today minus n days.
func LastDays(n int) Period { return Period{Kind: PeriodLastDays, Days: n} }

// Between matches rows dated in [start, end], both ends inclusive.
func Between(start, end time.Time) Period {
	return Period{Kind: PeriodRange, Start: Day(start), End: Day(end)}
}

func CalendarMonth(year int, month time.Month) Period {
	return Period{Kind: PeriodMonth, Year: year, Month: month}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (p Period) kind() PeriodKind {
	if p.Kind == "" {
		return PeriodAll
	}
	return p.Kind
}

func (p Period) Validate() error {
	switch p.kind() {
	case PeriodAll:
		return nil
	case PeriodLastDays:
		if p.Days < 0 {
			return invalid("period.days", "must not be negative")
		}
	case PeriodRange:
		if p.Start.IsZero() || p.End.IsZero() {
			return invalid("period.range", "start and end are both required")
		}
		if Day(p.End).Before(Day(p.Start)) {
			return invalid("period.range", "end is before start")
		}
	case PeriodMonth:
		if p.Month < time.January || p.Month > time.December {
			return invalid("period.month", fmt.Sprintf("month %d out of range", p.Month))
		}
		if p.Year < 1 {
			return invalid("period.year", "must be positive")
		}
	default:
		return invalid("period.kind", fmt.Sprintf("unknown kind %q", p.Kind))
	}
	return nil
}

// Bounds returns the inclusive day window of the period relative to now.
// bounded is false for AllTime, in which case from and to are zero.
func (p Period) Bounds(now time.Time) (from, to time.Time, bounded bool) {
	today := Day(now)
	switch p.kind() {
	case PeriodLastDays:
		return today.AddDate(0, 0, -p.Days), today, true
	case PeriodRange:
		return Day(p.Start), Day(p.End), true
	case PeriodMonth:
		first := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether a row dated date falls inside the period.
// LastDays has no upper bound, so rows dated in the future still match.
func (p Period) Contains(date, now time.Time) bool {
	from, to, bounded := p.Bounds(now)
	if !bounded {
		return true
	}
	d := Day(date)
	if d.Before(from) {
		return false
	}
	if p.kind() == PeriodLastDays {
		return true
	}
	return !d.After(to)
}

func (p Period) String() string {
	switch p.kind() {
	case PeriodLastDays:
		return fmt.Sprintf("last-%d-days", p.Days)
	case PeriodRange:
		return p.Start.Format("2006-01-02") + "-to-" + p.End.Format("2006-01-02")
	case PeriodMonth:
		return fmt.Sprintf("%s-%d", p.Month, p.Year)
	default:
		return "all-time"
	}
}

// FilterByPeriod returns the records inside the period, preserving order.
// It never fails; an empty window yields an empty slice.
func FilterByPeriod(records []model.SalesRecord, p Period, now time.Time) []model.SalesRecord {
	out := make([]model.SalesRecord, 0, len(records))
	for _, r := range records {
		if p.Contains(r.Date, now) {
			out = append(out, r)
		}
	}
	return out
}
