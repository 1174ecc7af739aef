package incentive

import (
	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

// Qualification is the outcome of the per-account commission check.
type Qualification struct {
	Qualifying []string
	Excluded   []string
	Totals     Totals
}

// Qualify keeps every account whose own commission reaches the rule's
// minimum. Without a rule the check is skipped and all accounts count.
func Qualify(g Grouping, rule *model.IncentiveRule) Qualification {
	q := Qualification{
		Qualifying: make([]string, 0, len(g.Accounts)),
		Excluded:   make([]string, 0),
		Totals:     Sum(nil),
	}
	for _, id := range g.Accounts {
		t := Sum(g.ByAccount[id])
		if rule != nil && t.Commission.LessThan(rule.MinCommissionThreshold) {
			q.Excluded = append(q.Excluded, id)
			continue
		}
		q.Qualifying = append(q.Qualifying, id)
		q.Totals = q.Totals.Add(t)
	}
	return q
}
