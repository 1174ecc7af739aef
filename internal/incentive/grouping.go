package incentive

import (
	"sort"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

// AccountSet is a set of account ids.
type AccountSet map[string]struct{}

func NewAccountSet(ids []string) AccountSet {
	set := make(AccountSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s AccountSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Grouping holds a user's rows, flat and partitioned by account.
type Grouping struct {
	Records   []model.SalesRecord
	ByAccount map[string][]model.SalesRecord
	// Accounts lists the keys of ByAccount in sorted order so that every
	// pass over the groups is deterministic.
	Accounts []string
}

// GroupByAccount keeps the records whose account is in managed and
// partitions them by account. An empty managed set yields an empty Grouping.
func GroupByAccount(records []model.SalesRecord, managed AccountSet) Grouping {
	g := Grouping{
		Records:   make([]model.SalesRecord, 0),
		ByAccount: make(map[string][]model.SalesRecord),
		Accounts:  make([]string, 0),
	}
	if len(managed) == 0 {
		return g
	}

	for _, r := range records {
		if !managed.Has(r.AccountID) {
			continue
		}
		if _, seen := g.ByAccount[r.AccountID]; !seen {
			g.Accounts = append(g.Accounts, r.AccountID)
		}
		g.Records = append(g.Records, r)
		g.ByAccount[r.AccountID] = append(g.ByAccount[r.AccountID], r)
	}
	sort.Strings(g.Accounts)
	return g
}

// CountManagedAccounts counts the managed ids that exist in accounts. With
// no account collection it falls back to the number of distinct ids.
func CountManagedAccounts(accounts []model.Account, managed AccountSet) int {
	if accounts == nil {
		return len(managed)
	}
	n := 0
	for _, a := range accounts {
		if managed.Has(a.ID) {
			n++
		}
	}
	return n
}
