package incentive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

func TestPeriod_Contains(t *testing.T) {
	now := time.Date(2025, time.March, 20, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period Period
		date   time.Time
		want   bool
	}{
		{"all time", AllTime(), day(2001, 1, 1), true},
		{"zero value is all time", Period{}, day(2001, 1, 1), true},
		{"last 7 days lower bound", LastDays(7), day(2025, 3, 13), true},
		{"last 7 days before bound", LastDays(7), day(2025, 3, 12), false},
		{"last days has no upper bound", LastDays(7), day(2025, 4, 1), true},
		{"last 0 days is today", LastDays(0), day(2025, 3, 20), true},
		{"range start inclusive", Between(day(2025, 3, 1), day(2025, 3, 5)), day(2025, 3, 1), true},
		{"range end inclusive", Between(day(2025, 3, 1), day(2025, 3, 5)), day(2025, 3, 5), true},
		{"range after end", Between(day(2025, 3, 1), day(2025, 3, 5)), day(2025, 3, 6), false},
		{"month first day", CalendarMonth(2025, time.February), day(2025, 2, 1), true},
		{"month last day", CalendarMonth(2025, time.February), day(2025, 2, 28), true},
		{"month next month", CalendarMonth(2025, time.February), day(2025, 3, 1), false},
		{"time of day ignored", Between(day(2025, 3, 1), day(2025, 3, 5)), time.Date(2025, 3, 5, 18, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Contains(tt.date, now))
		})
	}
}

func TestPeriod_Validate(t *testing.T) {
	assert.NoError(t, AllTime().Validate())
	assert.NoError(t, LastDays(30).Validate())
	assert.NoError(t, CalendarMonth(2025, time.December).Validate())
	assert.ErrorIs(t, CalendarMonth(2025, 13).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Period{Kind: PeriodRange}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Period{Kind: "weekly"}.Validate(), ErrInvalidInput)
}

func TestPeriod_String(t *testing.T) {
	assert.Equal(t, "last-30-days", LastDays(30).String())
	assert.Equal(t, "all-time", AllTime().String())
	assert.Equal(t, "March-2025", CalendarMonth(2025, time.March).String())
	assert.Equal(t, "2025-03-01-to-2025-03-05", Between(day(2025, 3, 1), day(2025, 3, 5)).String())
}

func TestFilterByPeriod(t *testing.T) {
	records := []model.SalesRecord{
		sale("a1", day(2025, 1, 31), "1", "1"),
		sale("a1", day(2025, 2, 1), "1", "1"),
		sale("a2", day(2025, 2, 15), "1", "1"),
	}

	got := FilterByPeriod(records, CalendarMonth(2025, time.February), testNow)
	assert.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].AccountID)

	assert.Empty(t, FilterByPeriod(records, CalendarMonth(2024, time.February), testNow))
	assert.NotNil(t, FilterByPeriod(nil, AllTime(), testNow))
}
