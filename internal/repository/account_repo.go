package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

type AccountFilter struct {
	Query      string
	Status     string
	CategoryID string
	Limit      int
	Offset     int
}

const accountColumns = `a.id::text, a.username, a.email, a.phone, a.status, a.payment_data,
	a.account_code, a.category_id::text, a.user_id::text, a.created_at`

func scanAccount(row pgx.Row, a *model.Account) error {
	return row.Scan(&a.ID, &a.Username, &a.Email, &a.Phone, &a.Status, &a.PaymentData,
		&a.AccountCode, &a.CategoryID, &a.UserID, &a.CreatedAt)
}

// List matches Query against username, email, account code and category name.
func (r *AccountRepository) List(ctx context.Context, f AccountFilter) ([]model.Account, int, error) {
	where := `
		FROM accounts a
		JOIN categories c ON c.id = a.category_id
		WHERE ($1 = '' OR a.username ILIKE '%' || $1 || '%'
				OR a.email ILIKE '%' || $1 || '%'
				OR a.account_code ILIKE '%' || $1 || '%'
				OR c.name ILIKE '%' || $1 || '%')
			AND ($2 = '' OR a.status = $2)
			AND ($3 = '' OR a.category_id::text = $3)`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) `+where, f.Query, f.Status, f.CategoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s %s ORDER BY a.username LIMIT $4 OFFSET $5`, accountColumns, where),
		f.Query, f.Status, f.CategoryID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	results := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, 0, fmt.Errorf("scan account: %w", err)
		}
		results = append(results, a)
	}
	return results, total, rows.Err()
}

// ListAll returns every account, ordered by username.
func (r *AccountRepository) ListAll(ctx context.Context) ([]model.Account, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM accounts a ORDER BY a.username`)
}

func (r *AccountRepository) ListByPaymentStatus(ctx context.Context, status model.PaymentStatus) ([]model.Account, error) {
	return r.query(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.payment_data = $1 ORDER BY a.username`, status)
}

func (r *AccountRepository) query(ctx context.Context, sql string, args ...any) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	results := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	a := &model.Account{}
	err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts a WHERE a.id::text = $1`, id), a)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id::text = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *AccountRepository) Insert(ctx context.Context, a *model.Account) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO accounts (username, email, phone, status, payment_data, account_code, category_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7::uuid, $8::uuid)
		RETURNING id::text, created_at`,
		a.Username, a.Email, a.Phone, a.Status, a.PaymentData, a.AccountCode, a.CategoryID, a.UserID,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *AccountRepository) Update(ctx context.Context, a *model.Account) error {
	return r.pool.QueryRow(ctx,
		`UPDATE accounts SET username = $2, email = $3, phone = $4, status = $5, payment_data = $6,
			account_code = $7, category_id = $8::uuid, user_id = $9::uuid
		WHERE id::text = $1
		RETURNING created_at`,
		a.ID, a.Username, a.Email, a.Phone, a.Status, a.PaymentData, a.AccountCode, a.CategoryID, a.UserID,
	).Scan(&a.CreatedAt)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// PaymentStatusCounts counts accounts per payment status. Statuses with no
// accounts are absent from the map.
func (r *AccountRepository) PaymentStatusCounts(ctx context.Context) (map[model.PaymentStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT payment_data, COUNT(*) FROM accounts GROUP BY payment_data`)
	if err != nil {
		return nil, fmt.Errorf("count payment statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.PaymentStatus]int)
	for rows.Next() {
		var status model.PaymentStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan payment status: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
