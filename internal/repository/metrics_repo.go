package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SalesTotals are summed metrics over a set of sales rows.
type SalesTotals struct {
	Rows         int
	Accounts     int
	Clicks       int
	Orders       int
	ProductsSold int
	NewBuyers    int
	Commission   decimal.Decimal
	Revenue      decimal.Decimal
}

type DailyRow struct {
	Date         time.Time
	Clicks       int
	Orders       int
	ProductsSold int
	NewBuyers    int
	Commission   decimal.Decimal
	Revenue      decimal.Decimal
}

type AccountRow struct {
	AccountID    string
	Username     string
	CategoryName string
	Status       string
	Days         int
	Clicks       int
	Orders       int
	Commission   decimal.Decimal
	Revenue      decimal.Decimal
}

type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Rows  int `json:"rows"`
}

type MetricsRepository struct {
	pool *pgxpool.Pool
}

func NewMetricsRepository(pool *pgxpool.Pool) *MetricsRepository {
	return &MetricsRepository{pool: pool}
}

func (r *MetricsRepository) Totals(ctx context.Context, accountID string, dr DateRange) (SalesTotals, error) {
	var t SalesTotals
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT account_id),
			COALESCE(SUM(clicks), 0),
			COALESCE(SUM(orders), 0),
			COALESCE(SUM(products_sold), 0),
			COALESCE(SUM(new_buyers), 0),
			COALESCE(SUM(gross_commission), 0),
			COALESCE(SUM(total_purchases), 0)
		FROM sales_data`+salesWhere,
		accountID, dr.From, dr.To,
	).Scan(&t.Rows, &t.Accounts, &t.Clicks, &t.Orders, &t.ProductsSold, &t.NewBuyers, &t.Commission, &t.Revenue)
	if err != nil {
		return SalesTotals{}, fmt.Errorf("query sales totals: %w", err)
	}
	return t, nil
}

// Daily groups rows by day, newest first.
func (r *MetricsRepository) Daily(ctx context.Context, accountID string, dr DateRange) ([]DailyRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			date,
			SUM(clicks),
			SUM(orders),
			SUM(products_sold),
			SUM(new_buyers),
			SUM(gross_commission),
			SUM(total_purchases)
		FROM sales_data`+salesWhere+`
		GROUP BY date
		ORDER BY date DESC`,
		accountID, dr.From, dr.To)
	if err != nil {
		return nil, fmt.Errorf("query daily sales: %w", err)
	}
	defer rows.Close()

	results := make([]DailyRow, 0)
	for rows.Next() {
		var d DailyRow
		if err := rows.Scan(&d.Date, &d.Clicks, &d.Orders, &d.ProductsSold, &d.NewBuyers, &d.Commission, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan daily row: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// ByAccount sums each account's rows, highest revenue first. Accounts with no
// rows in range are left out.
func (r *MetricsRepository) ByAccount(ctx context.Context, dr DateRange) ([]AccountRow, error) {
	rows, err := r.pool.Query(ctx, `
		WITH agg AS (
			SELECT
				account_id,
				COUNT(*) AS days,
				SUM(clicks) AS clicks,
				SUM(orders) AS orders,
				SUM(gross_commission) AS commission,
				SUM(total_purchases) AS revenue
			FROM sales_data`+salesWhere+`
			GROUP BY account_id
		)
		SELECT
			a.id::text, a.username, c.name, a.status,
			agg.days, agg.clicks, agg.orders, agg.commission, agg.revenue
		FROM agg
		JOIN accounts a ON a.id = agg.account_id
		JOIN categories c ON c.id = a.category_id
		ORDER BY agg.revenue DESC, a.username`,
		"", dr.From, dr.To)
	if err != nil {
		return nil, fmt.Errorf("query account sales: %w", err)
	}
	defer rows.Close()

	results := make([]AccountRow, 0)
	for rows.Next() {
		var a AccountRow
		if err := rows.Scan(&a.AccountID, &a.Username, &a.CategoryName, &a.Status,
			&a.Days, &a.Clicks, &a.Orders, &a.Commission, &a.Revenue); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// AvailablePeriods lists the calendar months that hold sales rows, newest
// first.
func (r *MetricsRepository) AvailablePeriods(ctx context.Context) ([]YearMonth, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM date)::int, EXTRACT(MONTH FROM date)::int, COUNT(*)
		FROM sales_data
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC`)
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}
	defer rows.Close()

	results := make([]YearMonth, 0)
	for rows.Next() {
		var ym YearMonth
		if err := rows.Scan(&ym.Year, &ym.Month, &ym.Rows); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		results = append(results, ym)
	}
	return results, rows.Err()
}
