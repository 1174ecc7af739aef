package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// List returns users whose name contains query, case-insensitively.
func (r *UserRepository) List(ctx context.Context, query string) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, name, email, role, managed_accounts, created_at
		FROM users
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name`, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	results := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.ManagedAccounts, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id::text, name, email, role, managed_accounts, created_at FROM users WHERE id::text = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.ManagedAccounts, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, role, managed_accounts) VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at`,
		u.Name, u.Email, u.Role, u.ManagedAccounts,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, email = $3, role = $4, managed_accounts = $5
		WHERE id::text = $1 RETURNING created_at`,
		u.ID, u.Name, u.Email, u.Role, u.ManagedAccounts,
	).Scan(&u.CreatedAt)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
