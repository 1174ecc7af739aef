package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

func buckets(revenues ...string) []repository.TrendBucket {
	out := make([]repository.TrendBucket, len(revenues))
	for i, r := range revenues {
		out[i] = repository.TrendBucket{
			Period:     []string{"2025-01-01", "2025-02-01", "2025-03-01", "2025-04-01"}[i],
			AccountID:  "acc-1",
			Username:   "toko_ayu",
			Clicks:     100,
			Orders:     5,
			Commission: d("100000"),
			Revenue:    d(r),
		}
	}
	return out
}

func TestLinearRegression(t *testing.T) {
	slope, r2 := linearRegression([]float64{1, 2, 3, 4})
	assert.InDelta(t, 1.0, slope, 1e-9)
	assert.InDelta(t, 1.0, r2, 1e-9)

	slope, r2 = linearRegression([]float64{5})
	assert.Zero(t, slope)
	assert.Zero(t, r2)

	slope, r2 = linearRegression([]float64{3, 3, 3})
	assert.Zero(t, slope)
	assert.Equal(t, 1.0, r2)
}

func TestSummarizeTrend(t *testing.T) {
	t.Run("happy: growing revenue", func(t *testing.T) {
		b := buckets("1000000", "2000000", "3000000")
		s := summarizeTrend(b, extractMetricValues(b, "revenue"), "revenue")
		require.Len(t, s.Points, 3)
		assert.Equal(t, "GROWING", s.OverallTrend)
		assert.Equal(t, "UP", s.Points[1].Direction)
		assert.Equal(t, 100.0, s.Points[1].PercentageChange)
		assert.Empty(t, s.Points[0].Direction)
		assert.Equal(t, "toko_ayu", s.Username)
	})

	t.Run("happy: flat series is stable", func(t *testing.T) {
		b := buckets("1000000", "1000000", "1000000")
		s := summarizeTrend(b, extractMetricValues(b, "revenue"), "revenue")
		assert.Equal(t, "STABLE", s.OverallTrend)
		assert.Equal(t, "FLAT", s.Points[2].Direction)
	})

	t.Run("happy: single point is volatile", func(t *testing.T) {
		b := buckets("1000000")
		s := summarizeTrend(b, extractMetricValues(b, "revenue"), "revenue")
		assert.Equal(t, "VOLATILE", s.OverallTrend)
	})
}

func TestExtractMetricValues(t *testing.T) {
	b := buckets("2000000")
	assert.Equal(t, 5.0, extractMetricValues(b, "commission_rate")[0])
	assert.Equal(t, 5.0, extractMetricValues(b, "conversion_rate")[0])
	assert.Equal(t, 100.0, extractMetricValues(b, "clicks")[0])
	assert.Equal(t, 2000000.0, extractMetricValues(b, "unknown")[0])
}
