package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

type SalesRepository struct {
	pool *pgxpool.Pool
}

func NewSalesRepository(pool *pgxpool.Pool) *SalesRepository {
	return &SalesRepository{pool: pool}
}

// DateRange bounds a query by calendar day, both ends inclusive. A nil end is
// open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type SalesFilter struct {
	AccountID string
	Range     DateRange
	Limit     int
	Offset    int
}

// Coverage describes the rows stored for one account.
type Coverage struct {
	AccountID string     `json:"account_id"`
	Rows      int        `json:"rows"`
	FirstDate *time.Time `json:"first_date"`
	LastDate  *time.Time `json:"last_date"`
}

const salesColumns = `id::text, account_id::text, date, clicks, orders, gross_commission,
	products_sold, total_purchases, new_buyers, created_at`

const salesWhere = `
	WHERE ($1 = '' OR account_id::text = $1)
		AND ($2::date IS NULL OR date >= $2::date)
		AND ($3::date IS NULL OR date <= $3::date)`

func scanSales(row pgx.Row, s *model.SalesRecord) error {
	return row.Scan(&s.ID, &s.AccountID, &s.Date, &s.Clicks, &s.Orders, &s.GrossCommission,
		&s.ProductsSold, &s.TotalPurchases, &s.NewBuyers, &s.CreatedAt)
}

// List pages through sales rows, newest day first.
func (r *SalesRepository) List(ctx context.Context, f SalesFilter) ([]model.SalesRecord, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales_data`+salesWhere,
		f.AccountID, f.Range.From, f.Range.To).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+salesColumns+` FROM sales_data`+salesWhere+` ORDER BY date DESC, account_id LIMIT $4 OFFSET $5`,
		f.AccountID, f.Range.From, f.Range.To, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query sales: %w", err)
	}
	results, err := collectSales(rows)
	return results, total, err
}

// ListRange returns every row in the range, oldest first.
func (r *SalesRepository) ListRange(ctx context.Context, accountID string, dr DateRange) ([]model.SalesRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+salesColumns+` FROM sales_data`+salesWhere+` ORDER BY date, account_id`,
		accountID, dr.From, dr.To)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	return collectSales(rows)
}

func collectSales(rows pgx.Rows) ([]model.SalesRecord, error) {
	defer rows.Close()

	results := make([]model.SalesRecord, 0)
	for rows.Next() {
		var s model.SalesRecord
		if err := scanSales(rows, &s); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// UpsertBatch writes all records in one transaction. A row for an existing
// (account, day) pair replaces the stored metrics.
func (r *SalesRepository) UpsertBatch(ctx context.Context, records []*model.SalesRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range records {
		batch.Queue(
			`INSERT INTO sales_data (account_id, date, clicks, orders, gross_commission, products_sold, total_purchases, new_buyers)
			VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (account_id, date) DO UPDATE SET
				clicks = EXCLUDED.clicks,
				orders = EXCLUDED.orders,
				gross_commission = EXCLUDED.gross_commission,
				products_sold = EXCLUDED.products_sold,
				total_purchases = EXCLUDED.total_purchases,
				new_buyers = EXCLUDED.new_buyers
			RETURNING id::text, created_at`,
			s.AccountID, s.Date, s.Clicks, s.Orders, s.GrossCommission,
			s.ProductsSold, s.TotalPurchases, s.NewBuyers,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range records {
		if err := br.QueryRow().Scan(&records[i].ID, &records[i].CreatedAt); err != nil {
			br.Close()
			return fmt.Errorf("upsert sales row %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteForAccount removes an account's rows inside the range and reports
// how many went.
func (r *SalesRepository) DeleteForAccount(ctx context.Context, accountID string, dr DateRange) (int64, error) {
	if accountID == "" {
		return 0, fmt.Errorf("delete sales: account id is required")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales_data`+salesWhere, accountID, dr.From, dr.To)
	if err != nil {
		return 0, fmt.Errorf("delete sales: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SalesRepository) Coverage(ctx context.Context, accountID string) (Coverage, error) {
	c := Coverage{AccountID: accountID}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(date), MAX(date) FROM sales_data WHERE account_id::text = $1`, accountID).
		Scan(&c.Rows, &c.FirstDate, &c.LastDate)
	if err != nil {
		return Coverage{}, fmt.Errorf("query coverage: %w", err)
	}
	return c, nil
}
