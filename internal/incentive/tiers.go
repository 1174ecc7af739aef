package incentive

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

type TierState string

const (
	StateNoRule TierState = "no_rule"
	StateLocked TierState = "locked"
	StateTiered TierState = "tiered"
	StateMaxed  TierState = "maxed"
)

// TierResult is where a revenue figure sits on a rule's tier ladder.
type TierResult struct {
	State     TierState
	Current   *model.IncentiveTier
	Next      *model.IncentiveTier
	Incentive decimal.Decimal
	Progress  decimal.Decimal
	Remaining decimal.Decimal
}

// SortedTiers returns a copy of tiers ordered by revenue threshold. Equal
// thresholds keep their input order.
func SortedTiers(tiers []model.IncentiveTier) []model.IncentiveTier {
	out := make([]model.IncentiveTier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RevenueThreshold.LessThan(out[j].RevenueThreshold)
	})
	return out
}

// percent returns part/whole*100 clamped to [0,100]; zero when whole <= 0.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return clampPercent(part.Div(whole).Mul(hundred))
}

func clampPercent(v decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, decimal.Zero), hundred)
}

func tierPtr(t model.IncentiveTier) *model.IncentiveTier {
	return &t
}

// ResolveTier places revenue on the rule's ladder. A nil rule yields the
// no_rule state with zero amounts.
func ResolveTier(rule *model.IncentiveRule, revenue decimal.Decimal) TierResult {
	res := TierResult{
		State:     StateNoRule,
		Incentive: decimal.Zero,
		Progress:  decimal.Zero,
		Remaining: decimal.Zero,
	}
	if rule == nil {
		return res
	}

	tiers := SortedTiers(rule.Tiers)
	base := rule.BaseRevenueThreshold

	if revenue.LessThan(base) {
		res.State = StateLocked
		if len(tiers) > 0 {
			res.Next = tierPtr(tiers[0])
		}
		res.Progress = percent(revenue, base)
		res.Remaining = base.Sub(revenue)
		return res
	}

	res.State = StateTiered
	current := -1
	for i, t := range tiers {
		if t.RevenueThreshold.LessThanOrEqual(revenue) {
			current = i
		}
	}

	switch {
	case len(tiers) == 0:
		return res
	case current < 0:
		// Above base but short of the first tier.
		first := tiers[0]
		res.Next = tierPtr(first)
		res.Progress = percent(revenue.Sub(base), first.RevenueThreshold.Sub(base))
		res.Remaining = first.RevenueThreshold.Sub(revenue)
		return res
	}

	cur := tiers[current]
	res.Current = tierPtr(cur)
	res.Incentive = revenue.Mul(cur.IncentiveRate).Div(hundred)

	if current == len(tiers)-1 {
		res.State = StateMaxed
		res.Progress = hundred
		return res
	}

	next := tiers[current+1]
	res.Next = tierPtr(next)
	res.Progress = percent(revenue.Sub(cur.RevenueThreshold), next.RevenueThreshold.Sub(cur.RevenueThreshold))
	res.Remaining = next.RevenueThreshold.Sub(revenue)
	return res
}
