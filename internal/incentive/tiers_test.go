package incentive

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

func TestResolveTier(t *testing.T) {
	rule := standardRule()

	t.Run("nil rule", func(t *testing.T) {
		res := ResolveTier(nil, dec("100"))
		assert.Equal(t, StateNoRule, res.State)
		assertDec(t, "0", res.Incentive)
		assertDec(t, "0", res.Progress)
	})

	t.Run("locked below base", func(t *testing.T) {
		res := ResolveTier(&rule, dec("20000000"))
		assert.Equal(t, StateLocked, res.State)
		assert.Nil(t, res.Current)
		require.NotNil(t, res.Next)
		assert.Equal(t, "t1", res.Next.ID)
		assertDec(t, "25", res.Progress)
		assertDec(t, "60000000", res.Remaining)
		assertDec(t, "0", res.Incentive)
	})

	t.Run("exactly on a tier threshold", func(t *testing.T) {
		res := ResolveTier(&rule, dec("80000000"))
		assert.Equal(t, StateTiered, res.State)
		require.NotNil(t, res.Current)
		assert.Equal(t, "t1", res.Current.ID)
		assertDec(t, "0", res.Progress)
		assertDec(t, "320000", res.Incentive)
	})

	t.Run("maxed above the last tier", func(t *testing.T) {
		res := ResolveTier(&rule, dec("150000000"))
		assert.Equal(t, StateMaxed, res.State)
		assert.Equal(t, "t2", res.Current.ID)
		assert.Nil(t, res.Next)
		assertDec(t, "100", res.Progress)
		assertDec(t, "0", res.Remaining)
		assertDec(t, "900000", res.Incentive)
	})

	t.Run("above base but short of the first tier", func(t *testing.T) {
		r := standardRule()
		r.BaseRevenueThreshold = dec("60000000")
		res := ResolveTier(&r, dec("70000000"))
		assert.Equal(t, StateTiered, res.State)
		assert.Nil(t, res.Current)
		require.NotNil(t, res.Next)
		assert.Equal(t, "t1", res.Next.ID)
		assertDec(t, "50", res.Progress)
		assertDec(t, "10000000", res.Remaining)
		assertDec(t, "0", res.Incentive)
	})

	t.Run("rule without tiers", func(t *testing.T) {
		r := standardRule()
		r.Tiers = nil

		locked := ResolveTier(&r, dec("40000000"))
		assert.Equal(t, StateLocked, locked.State)
		assert.Nil(t, locked.Next)
		assertDec(t, "50", locked.Progress)

		above := ResolveTier(&r, dec("95000000"))
		assert.Equal(t, StateTiered, above.State)
		assert.Nil(t, above.Current)
		assert.Nil(t, above.Next)
		assertDec(t, "0", above.Progress)
		assertDec(t, "0", above.Remaining)
	})

	t.Run("zero base with zero revenue", func(t *testing.T) {
		r := standardRule()
		r.BaseRevenueThreshold = decimal.Zero
		r.Tiers = []model.IncentiveTier{{ID: "z", RevenueThreshold: decimal.Zero, IncentiveRate: dec("1")}}
		res := ResolveTier(&r, decimal.Zero)
		assert.Equal(t, StateMaxed, res.State)
		assertDec(t, "0", res.Incentive)
	})
}

func TestResolveTier_CurrentTierIsUnique(t *testing.T) {
	rule := standardRule()
	rule.Tiers = []model.IncentiveTier{
		{ID: "t3", RevenueThreshold: dec("100000000"), IncentiveRate: dec("0.8")},
		{ID: "t1", RevenueThreshold: dec("80000000"), IncentiveRate: dec("0.4")},
		{ID: "t2", RevenueThreshold: dec("90000000"), IncentiveRate: dec("0.6")},
	}

	for _, rev := range []string{"80000000", "85000000", "90000000", "99999999.99", "100000000", "250000000"} {
		t.Run(rev, func(t *testing.T) {
			revenue := dec(rev)
			res := ResolveTier(&rule, revenue)
			require.NotNil(t, res.Current)
			assert.True(t, res.Current.RevenueThreshold.LessThanOrEqual(revenue))
			if res.Next != nil {
				assert.True(t, res.Next.RevenueThreshold.GreaterThan(revenue))
			}
		})
	}
}

func TestResolveTier_ProgressAlwaysInRange(t *testing.T) {
	weird := model.IncentiveRule{
		ID:                   "weird",
		BaseRevenueThreshold: dec("-100"),
		Tiers: []model.IncentiveTier{
			{RevenueThreshold: dec("-50"), IncentiveRate: dec("1")},
			{RevenueThreshold: dec("10"), IncentiveRate: dec("2")},
			{RevenueThreshold: dec("10"), IncentiveRate: dec("3")},
		},
	}
	rule := standardRule()

	for _, r := range []*model.IncentiveRule{&weird, &rule} {
		for i := -3; i <= 12; i++ {
			revenue := decimal.NewFromInt(int64(i) * 10_000_000)
			t.Run(fmt.Sprintf("%s/%s", r.ID, revenue), func(t *testing.T) {
				res := ResolveTier(r, revenue)
				assert.False(t, res.Progress.IsNegative())
				assert.True(t, res.Progress.LessThanOrEqual(dec("100")))
			})
		}
	}
}

func TestSortedTiers(t *testing.T) {
	in := []model.IncentiveTier{
		{ID: "b", RevenueThreshold: dec("20")},
		{ID: "a", RevenueThreshold: dec("10")},
		{ID: "c", RevenueThreshold: dec("20")},
	}
	out := SortedTiers(in)

	assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, "b", in[0].ID, "input must stay untouched")
}
