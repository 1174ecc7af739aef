package incentive

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

// UnboundedRateMax is the commission_rate_max that marks a band without an
// upper limit.
var UnboundedRateMax = decimal.NewFromInt(100)

type MatchResult string

const (
	Matched      MatchResult = "matched"
	BelowMinimum MatchResult = "below_minimum"
	AboveMaximum MatchResult = "above_maximum"
)

// RuleMatch explains how one active rule relates to a blended rate.
type RuleMatch struct {
	RuleID   string          `json:"rule_id"`
	RuleName string          `json:"rule_name"`
	RateMin  decimal.Decimal `json:"commission_rate_min"`
	RateMax  decimal.Decimal `json:"commission_rate_max"`
	Result   MatchResult     `json:"result"`
}

func unbounded(rule model.IncentiveRule) bool {
	return rule.CommissionRateMax.Equal(UnboundedRateMax)
}

func classify(rule model.IncentiveRule, rate decimal.Decimal) MatchResult {
	if rate.LessThan(rule.CommissionRateMin) {
		return BelowMinimum
	}
	if !unbounded(rule) && rate.GreaterThan(rule.CommissionRateMax) {
		return AboveMaximum
	}
	return Matched
}

// Matches reports whether rate falls inside the rule's band. Activity is not
// considered.
func Matches(rule model.IncentiveRule, rate decimal.Decimal) bool {
	return classify(rule, rate) == Matched
}

// SelectRule returns the first active rule, in input order, whose band
// contains rate. Overlapping bands are not an error.
func SelectRule(rules []model.IncentiveRule, rate decimal.Decimal) *model.IncentiveRule {
	for i := range rules {
		if rules[i].IsActive && Matches(rules[i], rate) {
			r := cloneRule(rules[i])
			return &r
		}
	}
	return nil
}

// EvaluateRules classifies rate against every active rule in input order.
func EvaluateRules(rules []model.IncentiveRule, rate decimal.Decimal) []RuleMatch {
	out := make([]RuleMatch, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		out = append(out, RuleMatch{
			RuleID:   r.ID,
			RuleName: r.Name,
			RateMin:  r.CommissionRateMin,
			RateMax:  r.CommissionRateMax,
			Result:   classify(r, rate),
		})
	}
	return out
}

func cloneRule(r model.IncentiveRule) model.IncentiveRule {
	if r.Tiers != nil {
		r.Tiers = append([]model.IncentiveTier(nil), r.Tiers...)
	}
	return r
}

// ValidateRule rejects rules that cannot be evaluated meaningfully. It does
// not look at the id, so unsaved rules can be checked too.
func ValidateRule(r model.IncentiveRule) error {
	if r.MinCommissionThreshold.IsNegative() {
		return invalid("min_commission_threshold", "must not be negative")
	}
	if r.BaseRevenueThreshold.IsNegative() {
		return invalid("base_revenue_threshold", "must not be negative")
	}
	if r.CommissionRateMin.IsNegative() || r.CommissionRateMax.IsNegative() {
		return invalid("commission_rate", "must not be negative")
	}
	if r.CommissionRateMin.GreaterThan(r.CommissionRateMax) {
		return invalid("commission_rate", "min is greater than max")
	}
	for i, t := range r.Tiers {
		if t.RevenueThreshold.IsNegative() || t.IncentiveRate.IsNegative() {
			return invalid(fmt.Sprintf("tiers[%d]", i), "threshold and rate must not be negative")
		}
	}
	return nil
}
