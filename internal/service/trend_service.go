package service

import (
	"context"
	"math"
	"sort"

	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

type TrendService struct {
	repo *repository.TrendRepository
}

func NewTrendService(repo *repository.TrendRepository) *TrendService {
	return &TrendService{repo: repo}
}

// TrendMetrics lists the metrics a trend can follow.
var TrendMetrics = []string{"revenue", "commission", "orders", "clicks", "commission_rate", "conversion_rate"}

type TrendPoint struct {
	Period           string  `json:"period"`
	Value            float64 `json:"value"`
	PreviousValue    float64 `json:"previous_value,omitempty"`
	AbsoluteChange   float64 `json:"absolute_change"`
	PercentageChange float64 `json:"percentage_change"`
	Direction        string  `json:"direction,omitempty"`
}

type TrendSummary struct {
	AccountID    string       `json:"account_id"`
	Username     string       `json:"username"`
	Metric       string       `json:"metric"`
	Points       []TrendPoint `json:"points"`
	OverallTrend string       `json:"overall_trend"`
	Slope        float64      `json:"slope"`
	RSquared     float64      `json:"r_squared"`
}

// GetTrends follows one metric per account across month (MOM) or week (WOW)
// buckets. Results are ordered by username.
func (s *TrendService) GetTrends(ctx context.Context, accountID, period, metric string, periodsBack int) ([]TrendSummary, error) {
	if periodsBack < 1 {
		periodsBack = 6
	}

	buckets, err := s.repo.GetTrends(ctx, accountID, period, periodsBack)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]repository.TrendBucket)
	order := make([]string, 0)
	for _, b := range buckets {
		if _, ok := grouped[b.AccountID]; !ok {
			order = append(order, b.AccountID)
		}
		grouped[b.AccountID] = append(grouped[b.AccountID], b)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return grouped[order[i]][0].Username < grouped[order[j]][0].Username
	})

	results := make([]TrendSummary, 0, len(order))
	for _, id := range order {
		points := grouped[id]
		values := extractMetricValues(points, metric)
		results = append(results, summarizeTrend(points, values, metric))
	}
	return results, nil
}

func summarizeTrend(points []repository.TrendBucket, values []float64, metric string) TrendSummary {
	trendPoints := make([]TrendPoint, len(values))
	for i, v := range values {
		tp := TrendPoint{
			Period: points[i].Period,
			Value:  round2(v),
		}
		if i > 0 {
			tp.PreviousValue = round2(values[i-1])
			tp.AbsoluteChange = round2(v - values[i-1])
			if values[i-1] != 0 {
				tp.PercentageChange = round2((v - values[i-1]) / values[i-1] * 100)
			}
			switch {
			case math.Abs(tp.PercentageChange) < 1:
				tp.Direction = "FLAT"
			case v > values[i-1]:
				tp.Direction = "UP"
			default:
				tp.Direction = "DOWN"
			}
		}
		trendPoints[i] = tp
	}

	slope, r2 := linearRegression(values)
	overallTrend := "VOLATILE"
	if len(values) >= 2 && r2 >= 0.5 {
		if slope > 0 {
			overallTrend = "GROWING"
		} else if slope < 0 {
			overallTrend = "DECLINING"
		} else {
			overallTrend = "STABLE"
		}
	}

	return TrendSummary{
		AccountID:    points[0].AccountID,
		Username:     points[0].Username,
		Metric:       metric,
		Points:       trendPoints,
		OverallTrend: overallTrend,
		Slope:        round2(slope),
		RSquared:     math.Round(r2*10000) / 10000,
	}
}

func extractMetricValues(buckets []repository.TrendBucket, metric string) []float64 {
	values := make([]float64, len(buckets))
	for i, b := range buckets {
		switch metric {
		case "commission":
			values[i] = b.Commission.InexactFloat64()
		case "orders":
			values[i] = float64(b.Orders)
		case "clicks":
			values[i] = float64(b.Clicks)
		case "commission_rate":
			values[i] = percentOf(b.Commission.InexactFloat64(), b.Revenue.InexactFloat64())
		case "conversion_rate":
			values[i] = percentOf(float64(b.Orders), float64(b.Clicks))
		default:
			values[i] = b.Revenue.InexactFloat64()
		}
	}
	return values
}

func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func linearRegression(values []float64) (slope, rSquared float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, v := range values {
		predicted := slope*float64(i) + intercept
		ssRes += (v - predicted) * (v - predicted)
		ssTot += (v - meanY) * (v - meanY)
	}

	if ssTot == 0 {
		return slope, 1.0
	}
	return slope, 1 - ssRes/ssTot
}
