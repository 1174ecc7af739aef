package dto

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
)

const DefaultPreset = "30"

// ParsePeriod reads the reporting window from the query string. start/end
// take precedence over month/year, which take precedence over preset.
func ParsePeriod(c *gin.Context) (incentive.Period, error) {
	start, end := c.Query("start"), c.Query("end")
	if start != "" || end != "" {
		if start == "" || end == "" {
			return incentive.Period{}, errors.New("start and end must be given together")
		}
		from, err := ParseDay(start)
		if err != nil {
			return incentive.Period{}, fmt.Errorf("invalid start: %w", err)
		}
		to, err := ParseDay(end)
		if err != nil {
			return incentive.Period{}, fmt.Errorf("invalid end: %w", err)
		}
		if to.Before(from) {
			return incentive.Period{}, errors.New("start must not be after end")
		}
		return incentive.Between(from, to), nil
	}

	month, year := c.Query("month"), c.Query("year")
	if month != "" || year != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return incentive.Period{}, errors.New("month must be between 1 and 12")
		}
		y, err := strconv.Atoi(year)
		if err != nil || y < 1 {
			return incentive.Period{}, errors.New("year must be a positive number")
		}
		return incentive.CalendarMonth(y, time.Month(m)), nil
	}

	preset := c.DefaultQuery("preset", DefaultPreset)
	if preset == "all" {
		return incentive.AllTime(), nil
	}
	days, err := strconv.Atoi(preset)
	if err != nil || days < 0 {
		return incentive.Period{}, errors.New("preset must be a number of days or 'all'")
	}
	return incentive.LastDays(days), nil
}

// ParseDay parses a YYYY-MM-DD date as midnight UTC.
func ParseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
