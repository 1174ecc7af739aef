// Package incentive computes commission-rate incentives for users from their
// accounts' daily sales. Every function is pure: callers pass a snapshot and
// a clock reading, and get a freshly allocated result back.
package incentive

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

// Target is the user an incentive is calculated for.
type Target struct {
	ID                string
	Name              string
	ManagedAccountIDs []string
}

// TargetFromUser builds a Target from a stored user.
func TargetFromUser(u model.User) Target {
	return Target{ID: u.ID, Name: u.Name, ManagedAccountIDs: u.ManagedAccounts}
}

// Snapshot is the data shared by every calculation in one pass. Accounts may
// be nil, in which case managed ids are counted without an existence check.
type Snapshot struct {
	Accounts     []model.Account
	SalesRecords []model.SalesRecord
	Rules        []model.IncentiveRule
}

type Input struct {
	Snapshot
	Target Target
	Period Period
	Now    time.Time
}

// Calculation is the result for one user.
type Calculation struct {
	UserID               string               `json:"user_id"`
	UserName             string               `json:"user_name"`
	TotalRevenue         decimal.Decimal      `json:"total_revenue"`
	TotalCommission      decimal.Decimal      `json:"total_commission"`
	CommissionRate       decimal.Decimal      `json:"commission_rate"`
	ApplicableRule       *model.IncentiveRule `json:"applicable_rule"`
	CurrentTier          *model.IncentiveTier `json:"current_tier"`
	NextTier             *model.IncentiveTier `json:"next_tier"`
	IncentiveAmount      decimal.Decimal      `json:"incentive_amount"`
	ProgressPercentage   decimal.Decimal      `json:"progress_percentage"`
	RemainingToNextTier  decimal.Decimal      `json:"remaining_to_next_tier"`
	ManagedAccountsCount int                  `json:"managed_accounts_count"`
	State                TierState            `json:"state"`
	QualifyingAccounts   []string             `json:"qualifying_accounts"`
	AccountsWithSales    []string             `json:"accounts_with_sales"`
	RuleMatches          []RuleMatch          `json:"rule_matches"`
}

// Calculate validates in and runs the full pipeline for one target.
func Calculate(in Input) (Calculation, error) {
	if err := in.Period.Validate(); err != nil {
		return Calculation{}, err
	}
	if err := validateSnapshot(in.Snapshot); err != nil {
		return Calculation{}, err
	}
	if err := validateTarget(in.Target); err != nil {
		return Calculation{}, err
	}
	return calculate(in.Snapshot, in.Target, in.Period, in.Now), nil
}

// CalculateAll runs the pipeline for every target over one snapshot. The
// snapshot is validated once; results follow target order.
func CalculateAll(snap Snapshot, targets []Target, p Period, now time.Time) ([]Calculation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	for _, t := range targets {
		if err := validateTarget(t); err != nil {
			return nil, err
		}
	}

	filtered := FilterByPeriod(snap.SalesRecords, p, now)
	out := make([]Calculation, 0, len(targets))
	for _, t := range targets {
		out = append(out, run(snap, filtered, t))
	}
	return out, nil
}

func calculate(snap Snapshot, t Target, p Period, now time.Time) Calculation {
	return run(snap, FilterByPeriod(snap.SalesRecords, p, now), t)
}

func run(snap Snapshot, filtered []model.SalesRecord, t Target) Calculation {
	managed := NewAccountSet(t.ManagedAccountIDs)
	g := GroupByAccount(filtered, managed)

	all := Sum(g.Records)
	rate := all.BlendedRate()
	rule := SelectRule(snap.Rules, rate)
	q := Qualify(g, rule)
	tier := ResolveTier(rule, q.Totals.Revenue)

	return Calculation{
		UserID:               t.ID,
		UserName:             t.Name,
		TotalRevenue:         q.Totals.Revenue,
		TotalCommission:      q.Totals.Commission,
		CommissionRate:       rate,
		ApplicableRule:       rule,
		CurrentTier:          tier.Current,
		NextTier:             tier.Next,
		IncentiveAmount:      tier.Incentive,
		ProgressPercentage:   tier.Progress,
		RemainingToNextTier:  tier.Remaining,
		ManagedAccountsCount: CountManagedAccounts(snap.Accounts, managed),
		State:                tier.State,
		QualifyingAccounts:   q.Qualifying,
		AccountsWithSales:    g.Accounts,
		RuleMatches:          EvaluateRules(snap.Rules, rate),
	}
}

func validateTarget(t Target) error {
	if t.ID == "" {
		return invalid("target.id", "must not be empty")
	}
	return nil
}

func validateSnapshot(s Snapshot) error {
	for i, r := range s.SalesRecords {
		field := fmt.Sprintf("sales_records[%d]", i)
		if r.AccountID == "" {
			return invalid(field+".account_id", "must not be empty")
		}
		if r.Date.IsZero() {
			return invalid(field+".date", "must be set")
		}
		if r.GrossCommission.IsNegative() {
			return invalid(field+".gross_commission", "must not be negative")
		}
		if r.TotalPurchases.IsNegative() {
			return invalid(field+".total_purchases", "must not be negative")
		}
	}
	for _, rule := range s.Rules {
		if rule.ID == "" {
			return invalid("rules.id", "must not be empty")
		}
		if err := ValidateRule(rule); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return invalid(fmt.Sprintf("rules[%s].%s", rule.ID, verr.Field), verr.Reason)
			}
			return err
		}
	}
	return nil
}

// Summary aggregates a set of calculations for the overview cards.
type Summary struct {
	TotalIncentives decimal.Decimal `json:"total_incentives"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	ActiveUsers     int             `json:"active_users"`
	QualifiedUsers  int             `json:"qualified_users"`
	Users           int             `json:"users"`
}

func Summarize(calcs []Calculation) Summary {
	s := Summary{TotalIncentives: decimal.Zero, TotalRevenue: decimal.Zero, Users: len(calcs)}
	for _, c := range calcs {
		s.TotalIncentives = s.TotalIncentives.Add(c.IncentiveAmount)
		s.TotalRevenue = s.TotalRevenue.Add(c.TotalRevenue)
		if c.ManagedAccountsCount > 0 {
			s.ActiveUsers++
		}
		if c.IncentiveAmount.IsPositive() {
			s.QualifiedUsers++
		}
	}
	return s
}
