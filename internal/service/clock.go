package service

import (
	"time"

	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

// Clock returns the current time in the business timezone. Period windows
// are anchored on the calendar day it reports.
type Clock func() time.Time

func NewClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// dateRange turns a period into the SQL day window. Rolling windows stay open
// at the top so rows dated after today still count.
func dateRange(p incentive.Period, now time.Time) repository.DateRange {
	from, to, bounded := p.Bounds(now)
	if !bounded {
		return repository.DateRange{}
	}
	dr := repository.DateRange{From: &from}
	if p.Kind != incentive.PeriodLastDays {
		dr.To = &to
	}
	return dr
}
