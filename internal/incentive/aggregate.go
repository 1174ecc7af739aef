package incentive

import (
	"github.com/shopspring/decimal"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Totals are summed currency values over a set of sales rows.
type Totals struct {
	Revenue    decimal.Decimal
	Commission decimal.Decimal
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		Revenue:    t.Revenue.Add(o.Revenue),
		Commission: t.Commission.Add(o.Commission),
	}
}

// BlendedRate is commission / revenue * 100, or zero without revenue.
func (t Totals) BlendedRate() decimal.Decimal {
	if !t.Revenue.IsPositive() {
		return decimal.Zero
	}
	return t.Commission.Div(t.Revenue).Mul(hundred)
}

func Sum(records []model.SalesRecord) Totals {
	t := Totals{Revenue: decimal.Zero, Commission: decimal.Zero}
	for _, r := range records {
		t.Revenue = t.Revenue.Add(r.TotalPurchases)
		t.Commission = t.Commission.Add(r.GrossCommission)
	}
	return t
}
