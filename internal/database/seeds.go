package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/seeddata"
)

type ruleCatalog struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Name                   string      `yaml:"name"`
	Description            string      `yaml:"description"`
	Active                 *bool       `yaml:"active"`
	MinCommissionThreshold string      `yaml:"min_commission_threshold"`
	CommissionRateMin      string      `yaml:"commission_rate_min"`
	CommissionRateMax      string      `yaml:"commission_rate_max"`
	BaseRevenueThreshold   string      `yaml:"base_revenue_threshold"`
	Tiers                  []tierEntry `yaml:"tiers"`
}

type tierEntry struct {
	RevenueThreshold string `yaml:"revenue_threshold"`
	IncentiveRate    string `yaml:"incentive_rate"`
}

// ParseRuleCatalog decodes a YAML rule catalog. Amounts are quoted strings so
// they reach decimal without a float round trip.
func ParseRuleCatalog(data []byte) ([]model.IncentiveRule, error) {
	var cat ruleCatalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse rule catalog: %w", err)
	}

	rules := make([]model.IncentiveRule, 0, len(cat.Rules))
	for _, e := range cat.Rules {
		r := model.IncentiveRule{
			Name:        e.Name,
			Description: e.Description,
			IsActive:    e.Active == nil || *e.Active,
		}
		fields := []struct {
			dst *decimal.Decimal
			src string
			key string
		}{
			{&r.MinCommissionThreshold, e.MinCommissionThreshold, "min_commission_threshold"},
			{&r.CommissionRateMin, e.CommissionRateMin, "commission_rate_min"},
			{&r.CommissionRateMax, e.CommissionRateMax, "commission_rate_max"},
			{&r.BaseRevenueThreshold, e.BaseRevenueThreshold, "base_revenue_threshold"},
		}
		for _, f := range fields {
			v, err := decimal.NewFromString(f.src)
			if err != nil {
				return nil, fmt.Errorf("rule %q %s: %w", e.Name, f.key, err)
			}
			*f.dst = v
		}
		for i, t := range e.Tiers {
			threshold, err := decimal.NewFromString(t.RevenueThreshold)
			if err != nil {
				return nil, fmt.Errorf("rule %q tier %d threshold: %w", e.Name, i, err)
			}
			rate, err := decimal.NewFromString(t.IncentiveRate)
			if err != nil {
				return nil, fmt.Errorf("rule %q tier %d rate: %w", e.Name, i, err)
			}
			r.Tiers = append(r.Tiers, model.IncentiveTier{RevenueThreshold: threshold, IncentiveRate: rate})
		}
		rules = append(rules, r)
	}
	return rules, nil
}

type accountProfile struct {
	Username   string
	Category   string
	Status     model.AccountStatus
	Payment    model.PaymentStatus
	Revenue    [2]int64   // min, max daily revenue in IDR
	Commission [2]float64 // min, max commission rate in percent
}

var categories = []struct {
	Name        string
	Description string
}{
	{"Fashion", "Apparel, shoes and accessories"},
	{"Beauty", "Skincare and cosmetics"},
	{"Electronics", "Gadgets and accessories"},
	{"Home Living", "Furniture, kitchen and decor"},
}

var accountProfiles = []accountProfile{
	{"modis.id", "Fashion", model.AccountActive, model.PaymentValid, [2]int64{2_000_000, 4_000_000}, [2]float64{5.5, 7.0}},
	{"gaya.harian", "Fashion", model.AccountActive, model.PaymentApproved, [2]int64{500_000, 1_500_000}, [2]float64{5.0, 6.5}},
	{"kulit.sehat", "Beauty", model.AccountActive, model.PaymentPriority, [2]int64{1_000_000, 2_500_000}, [2]float64{8.0, 10.0}},
	{"cantik.alami", "Beauty", model.AccountViolation, model.PaymentNotSet, [2]int64{100_000, 400_000}, [2]float64{8.0, 9.0}},
	{"gadget.murah", "Electronics", model.AccountActive, model.PaymentSubmitted, [2]int64{3_000_000, 6_000_000}, [2]float64{1.5, 3.0}},
	{"techzone", "Electronics", model.AccountActive, model.PaymentPriority, [2]int64{1_500_000, 3_000_000}, [2]float64{2.0, 4.0}},
	{"rumah.nyaman", "Home Living", model.AccountActive, model.PaymentValid, [2]int64{800_000, 2_000_000}, [2]float64{5.0, 7.5}},
	{"dapur.kita", "Home Living", model.AccountInactive, model.PaymentNotSet, [2]int64{0, 200_000}, [2]float64{4.0, 6.0}},
}

var demoUsers = []struct {
	Name     string
	Email    string
	Role     model.UserRole
	Accounts []string
}{
	{"Admin", "admin@example.com", model.RoleSuperadmin, nil},
	{"Ayu Lestari", "ayu@example.com", model.RoleUser, []string{"modis.id", "gaya.harian", "rumah.nyaman"}},
	{"Budi Santoso", "budi@example.com", model.RoleUser, []string{"kulit.sehat", "cantik.alami"}},
	{"Citra Dewi", "citra@example.com", model.RoleUser, []string{"gadget.murah", "techzone", "dapur.kita"}},
	{"Dimas Pratama", "dimas@example.com", model.RoleUser, nil},
}

const seedDays = 120

func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	rules, err := ParseRuleCatalog(seeddata.IncentiveRulesYAML)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		var id string
		err := tx.QueryRow(ctx,
			"INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id::text",
			c.Name, c.Description).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.Name, err)
		}
		categoryIDs[c.Name] = id
	}
	log.Info().Int("count", len(categories)).Msg("inserted categories")

	accountIDs := make(map[string]string, len(accountProfiles))
	for i, a := range accountProfiles {
		var id string
		err := tx.QueryRow(ctx,
			`INSERT INTO accounts (username, email, phone, status, payment_data, account_code, category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id::text`,
			a.Username, a.Username+"@mail.example.com", fmt.Sprintf("+62812%07d", rng.Intn(10_000_000)),
			a.Status, a.Payment, fmt.Sprintf("AFF-%03d", i+1), categoryIDs[a.Category]).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert account %s: %w", a.Username, err)
		}
		accountIDs[a.Username] = id
	}
	log.Info().Int("count", len(accountProfiles)).Msg("inserted accounts")

	for _, u := range demoUsers {
		managed := make([]string, 0, len(u.Accounts))
		for _, name := range u.Accounts {
			managed = append(managed, accountIDs[name])
		}
		var userID string
		err := tx.QueryRow(ctx,
			"INSERT INTO users (name, email, role, managed_accounts) VALUES ($1, $2, $3, $4) RETURNING id::text",
			u.Name, u.Email, u.Role, managed).Scan(&userID)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		if len(managed) > 0 {
			if _, err := tx.Exec(ctx,
				"UPDATE accounts SET user_id = $1 WHERE id::text = ANY($2)", userID, managed); err != nil {
				return fmt.Errorf("assign accounts to %s: %w", u.Email, err)
			}
		}
	}
	log.Info().Int("count", len(demoUsers)).Msg("inserted users")

	for _, r := range rules {
		var ruleID string
		err := tx.QueryRow(ctx,
			`INSERT INTO incentive_rules (name, description, min_commission_threshold, commission_rate_min, commission_rate_max, base_revenue_threshold, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id::text`,
			r.Name, r.Description, r.MinCommissionThreshold, r.CommissionRateMin, r.CommissionRateMax,
			r.BaseRevenueThreshold, r.IsActive).Scan(&ruleID)
		if err != nil {
			return fmt.Errorf("insert rule %s: %w", r.Name, err)
		}
		for _, t := range r.Tiers {
			if _, err := tx.Exec(ctx,
				"INSERT INTO incentive_tiers (rule_id, revenue_threshold, incentive_rate) VALUES ($1, $2, $3)",
				ruleID, t.RevenueThreshold, t.IncentiveRate); err != nil {
				return fmt.Errorf("insert tier for %s: %w", r.Name, err)
			}
		}
	}
	log.Info().Int("count", len(rules)).Msg("inserted incentive rules")

	// Daily rows for the last seedDays days, ending today.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	batch := &pgx.Batch{}
	for _, a := range accountProfiles {
		for d := seedDays - 1; d >= 0; d-- {
			date := today.AddDate(0, 0, -d)
			revenue := a.Revenue[0] + rng.Int63n(a.Revenue[1]-a.Revenue[0]+1)
			rate := a.Commission[0] + rng.Float64()*(a.Commission[1]-a.Commission[0])
			commission := decimal.NewFromInt(revenue).Mul(decimal.NewFromFloat(rate)).Div(decimal.NewFromInt(100)).Round(2)
			clicks := 50 + rng.Intn(400)
			orders := clicks * (2 + rng.Intn(8)) / 100
			batch.Queue(
				`INSERT INTO sales_data (account_id, date, clicks, orders, gross_commission, products_sold, total_purchases, new_buyers)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				accountIDs[a.Username], date, clicks, orders, commission,
				orders+rng.Intn(orders+1), decimal.NewFromInt(revenue), rng.Intn(orders+1))
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert sales data: %w", err)
	}
	log.Info().Int("count", batch.Len()).Msg("inserted sales data")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().Msg("seed data generation complete")
	return nil
}
