// Package export renders incentive and sales data as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

const (
	noRule         = "No Rule Applied"
	unknownAccount = "Unknown"
)

var IncentiveColumns = []string{
	"User Name",
	"Managed Accounts",
	"Total Revenue (IDR)",
	"Total Commission (IDR)",
	"Commission Rate (%)",
	"Incentive Amount (IDR)",
	"Applied Rule",
	"Current Tier Rate (%)",
	"Progress to Next Tier (%)",
	"Remaining to Next Tier (IDR)",
}

var SalesColumns = []string{
	"Date",
	"Account",
	"Clicks",
	"Orders",
	"Gross Commission (IDR)",
	"Products Sold",
	"Total Purchases (IDR)",
	"New Buyers",
}

// IncentiveFilename names an incentive export after its period, without
// extension.
func IncentiveFilename(p incentive.Period) string {
	return "incentive-overview-" + p.String()
}

func SalesFilename(p incentive.Period) string {
	return "sales-report-" + p.String()
}

func amount(d decimal.Decimal) string {
	return d.Round(2).String()
}

func WriteIncentives(w io.Writer, calcs []incentive.Calculation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(IncentiveColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, c := range calcs {
		ruleName := noRule
		if c.ApplicableRule != nil {
			ruleName = c.ApplicableRule.Name
		}
		tierRate := decimal.Zero
		if c.CurrentTier != nil {
			tierRate = c.CurrentTier.IncentiveRate
		}

		err := cw.Write([]string{
			c.UserName,
			strconv.Itoa(c.ManagedAccountsCount),
			amount(c.TotalRevenue),
			amount(c.TotalCommission),
			c.CommissionRate.StringFixed(2),
			amount(c.IncentiveAmount),
			ruleName,
			tierRate.String(),
			c.ProgressPercentage.StringFixed(1),
			amount(c.RemainingToNextTier),
		})
		if err != nil {
			return fmt.Errorf("write row for %s: %w", c.UserID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSales writes one line per record. usernames maps account ids to
// display names; ids missing from it are written as "Unknown".
func WriteSales(w io.Writer, records []model.SalesRecord, usernames map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SalesColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		name, ok := usernames[r.AccountID]
		if !ok {
			name = unknownAccount
		}
		err := cw.Write([]string{
			r.Date.Format("2006-01-02"),
			name,
			strconv.Itoa(r.Clicks),
			strconv.Itoa(r.Orders),
			amount(r.GrossCommission),
			strconv.Itoa(r.ProductsSold),
			amount(r.TotalPurchases),
			strconv.Itoa(r.NewBuyers),
		})
		if err != nil {
			return fmt.Errorf("write sales row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
