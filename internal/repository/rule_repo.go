package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

type RuleRepository struct {
	pool *pgxpool.Pool
}

func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

const ruleColumns = `id::text, name, description, min_commission_threshold, commission_rate_min,
	commission_rate_max, base_revenue_threshold, is_active, created_at`

func scanRule(row pgx.Row, r *model.IncentiveRule) error {
	return row.Scan(&r.ID, &r.Name, &r.Description, &r.MinCommissionThreshold, &r.CommissionRateMin,
		&r.CommissionRateMax, &r.BaseRevenueThreshold, &r.IsActive, &r.CreatedAt)
}

// List returns rules in creation order with their tiers attached. Creation
// order is the order the engine tries the rules in.
func (r *RuleRepository) List(ctx context.Context) ([]model.IncentiveRule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ruleColumns+` FROM incentive_rules ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	rules := make([]model.IncentiveRule, 0)
	index := make(map[string]int)
	for rows.Next() {
		var rule model.IncentiveRule
		if err := scanRule(rows, &rule); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rule.Tiers = make([]model.IncentiveTier, 0)
		index[rule.ID] = len(rules)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tiers, err := r.tiers(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, t := range tiers {
		if i, ok := index[t.RuleID]; ok {
			rules[i].Tiers = append(rules[i].Tiers, t)
		}
	}
	return rules, nil
}

func (r *RuleRepository) FindByID(ctx context.Context, id string) (*model.IncentiveRule, error) {
	rule := &model.IncentiveRule{}
	if err := scanRule(r.pool.QueryRow(ctx,
		`SELECT `+ruleColumns+` FROM incentive_rules WHERE id::text = $1`, id), rule); err != nil {
		return nil, err
	}
	tiers, err := r.tiers(ctx, id)
	if err != nil {
		return nil, err
	}
	rule.Tiers = tiers
	return rule, nil
}

func (r *RuleRepository) tiers(ctx context.Context, ruleID string) ([]model.IncentiveTier, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, rule_id::text, revenue_threshold, incentive_rate, created_at
		FROM incentive_tiers
		WHERE ($1 = '' OR rule_id::text = $1)
		ORDER BY rule_id, revenue_threshold`, ruleID)
	if err != nil {
		return nil, fmt.Errorf("query tiers: %w", err)
	}
	defer rows.Close()

	tiers := make([]model.IncentiveTier, 0)
	for rows.Next() {
		var t model.IncentiveTier
		if err := rows.Scan(&t.ID, &t.RuleID, &t.RevenueThreshold, &t.IncentiveRate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

// Insert stores the rule and its tiers in one transaction.
func (r *RuleRepository) Insert(ctx context.Context, rule *model.IncentiveRule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rule transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO incentive_rules (name, description, min_commission_threshold, commission_rate_min,
			commission_rate_max, base_revenue_threshold, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text, created_at`,
		rule.Name, rule.Description, rule.MinCommissionThreshold, rule.CommissionRateMin,
		rule.CommissionRateMax, rule.BaseRevenueThreshold, rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rule: %w", err)
	}

	if err := insertTiers(ctx, tx, rule); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update rewrites the rule and replaces its tier set wholesale.
func (r *RuleRepository) Update(ctx context.Context, rule *model.IncentiveRule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rule transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE incentive_rules SET name = $2, description = $3, min_commission_threshold = $4,
			commission_rate_min = $5, commission_rate_max = $6, base_revenue_threshold = $7, is_active = $8
		WHERE id::text = $1
		RETURNING created_at`,
		rule.ID, rule.Name, rule.Description, rule.MinCommissionThreshold, rule.CommissionRateMin,
		rule.CommissionRateMax, rule.BaseRevenueThreshold, rule.IsActive,
	).Scan(&rule.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM incentive_tiers WHERE rule_id::text = $1`, rule.ID); err != nil {
		return fmt.Errorf("delete tiers: %w", err)
	}
	if err := insertTiers(ctx, tx, rule); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertTiers(ctx context.Context, tx pgx.Tx, rule *model.IncentiveRule) error {
	if len(rule.Tiers) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range rule.Tiers {
		batch.Queue(
			`INSERT INTO incentive_tiers (rule_id, revenue_threshold, incentive_rate)
			VALUES ($1::uuid, $2, $3)
			RETURNING id::text, created_at`,
			rule.ID, t.RevenueThreshold, t.IncentiveRate,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range rule.Tiers {
		rule.Tiers[i].RuleID = rule.ID
		if err := br.QueryRow().Scan(&rule.Tiers[i].ID, &rule.Tiers[i].CreatedAt); err != nil {
			br.Close()
			return fmt.Errorf("insert tier %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM incentive_rules WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
