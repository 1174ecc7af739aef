package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type TrendRepository struct {
	pool *pgxpool.Pool
}

func NewTrendRepository(pool *pgxpool.Pool) *TrendRepository {
	return &TrendRepository{pool: pool}
}

type TrendBucket struct {
	Period     string
	AccountID  string
	Username   string
	Clicks     int
	Orders     int
	Commission decimal.Decimal
	Revenue    decimal.Decimal
}

// GetTrends buckets each account's rows by month (MOM) or ISO week (WOW),
// going periodsBack buckets behind the current one.
func (r *TrendRepository) GetTrends(ctx context.Context, accountID, period string, periodsBack int) ([]TrendBucket, error) {
	truncFunc := "month"
	if period == "WOW" {
		truncFunc = "week"
	}

	intervalStr := fmt.Sprintf("%d %ss", periodsBack, truncFunc)

	query := fmt.Sprintf(`
		SELECT
			DATE_TRUNC('%s', s.date)::date::text AS period,
			s.account_id::text,
			a.username,
			SUM(s.clicks),
			SUM(s.orders),
			SUM(s.gross_commission),
			SUM(s.total_purchases)
		FROM sales_data s
		JOIN accounts a ON a.id = s.account_id
		WHERE s.date >= DATE_TRUNC('%s', NOW()) - $1::interval
			AND ($2 = '' OR s.account_id::text = $2)
		GROUP BY DATE_TRUNC('%s', s.date), s.account_id, a.username
		ORDER BY period ASC, a.username
	`, truncFunc, truncFunc, truncFunc)

	rows, err := r.pool.Query(ctx, query, intervalStr, accountID)
	if err != nil {
		return nil, fmt.Errorf("query trends: %w", err)
	}
	defer rows.Close()

	var results []TrendBucket
	for rows.Next() {
		var b TrendBucket
		if err := rows.Scan(&b.Period, &b.AccountID, &b.Username,
			&b.Clicks, &b.Orders, &b.Commission, &b.Revenue); err != nil {
			return nil, fmt.Errorf("scan trend: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}
