package dto

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  incentive.Period
	}{
		{"default preset", "", incentive.LastDays(30)},
		{"day preset", "preset=7", incentive.LastDays(7)},
		{"all time", "preset=all", incentive.AllTime()},
		{"custom range", "start=2025-03-01&end=2025-03-31&preset=7",
			incentive.Between(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))},
		{"calendar month", "month=2&year=2025", incentive.CalendarMonth(2025, time.February)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(contextWithQuery(tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, q := range []string{
		"start=2025-03-01",
		"start=2025-03-05&end=2025-03-01",
		"start=03/01/2025&end=2025-03-05",
		"month=13&year=2025",
		"month=3",
		"preset=-1",
		"preset=week",
	} {
		t.Run(q, func(t *testing.T) {
			_, err := ParsePeriod(contextWithQuery(q))
			assert.Error(t, err)
		})
	}
}
