package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
	"github.com/kimostudio/affiliate-dashboard/internal/templates"
)

var hundred = decimal.NewFromInt(100)

type ReportService struct {
	metricsRepo *repository.MetricsRepository
	accountRepo *repository.AccountRepository
	clock       Clock
}

func NewReportService(metricsRepo *repository.MetricsRepository, accountRepo *repository.AccountRepository, clock Clock) *ReportService {
	return &ReportService{metricsRepo: metricsRepo, accountRepo: accountRepo, clock: clock}
}

type ReportTotals struct {
	Rows           int             `json:"rows"`
	Accounts       int             `json:"accounts"`
	Clicks         int             `json:"clicks"`
	Orders         int             `json:"orders"`
	ProductsSold   int             `json:"products_sold"`
	NewBuyers      int             `json:"new_buyers"`
	Commission     decimal.Decimal `json:"gross_commission"`
	Revenue        decimal.Decimal `json:"total_purchases"`
	CommissionRate decimal.Decimal `json:"avg_commission_rate"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

type DailyReport struct {
	Date           time.Time       `json:"date"`
	Clicks         int             `json:"clicks"`
	Orders         int             `json:"orders"`
	ProductsSold   int             `json:"products_sold"`
	NewBuyers      int             `json:"new_buyers"`
	Commission     decimal.Decimal `json:"gross_commission"`
	Revenue        decimal.Decimal `json:"total_purchases"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

type AccountReport struct {
	AccountID      string          `json:"account_id"`
	Username       string          `json:"username"`
	CategoryName   string          `json:"category_name"`
	Status         string          `json:"status"`
	Days           int             `json:"days"`
	Clicks         int             `json:"clicks"`
	Orders         int             `json:"orders"`
	Commission     decimal.Decimal `json:"gross_commission"`
	Revenue        decimal.Decimal `json:"total_purchases"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

type SalesSummary struct {
	Period      string          `json:"period"`
	AccountID   string          `json:"account_id,omitempty"`
	Totals      ReportTotals    `json:"totals"`
	Daily       []DailyReport   `json:"daily"`
	Accounts    []AccountReport `json:"accounts"`
	GeneratedAt string          `json:"generated_at"`
}

type PaymentStatusCount struct {
	Status model.PaymentStatus `json:"status"`
	Count  int                 `json:"count"`
}

type Dashboard struct {
	Summary          *SalesSummary        `json:"summary"`
	PaymentStatus    []PaymentStatusCount `json:"payment_status"`
	PriorityAccounts []model.Account      `json:"priority_accounts"`
}

// ratio returns num / den * 100 rounded to two places, or zero when den is
// not positive.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den).Mul(hundred).Round(2)
}

func totalsReport(t repository.SalesTotals) ReportTotals {
	return ReportTotals{
		Rows:           t.Rows,
		Accounts:       t.Accounts,
		Clicks:         t.Clicks,
		Orders:         t.Orders,
		ProductsSold:   t.ProductsSold,
		NewBuyers:      t.NewBuyers,
		Commission:     t.Commission,
		Revenue:        t.Revenue,
		CommissionRate: ratio(t.Commission, t.Revenue),
		ConversionRate: ratio(decimal.NewFromInt(int64(t.Orders)), decimal.NewFromInt(int64(t.Clicks))),
	}
}

func dailyReport(rows []repository.DailyRow) []DailyReport {
	out := make([]DailyReport, 0, len(rows))
	for _, d := range rows {
		out = append(out, DailyReport{
			Date:           d.Date,
			Clicks:         d.Clicks,
			Orders:         d.Orders,
			ProductsSold:   d.ProductsSold,
			NewBuyers:      d.NewBuyers,
			Commission:     d.Commission,
			Revenue:        d.Revenue,
			ConversionRate: ratio(decimal.NewFromInt(int64(d.Orders)), decimal.NewFromInt(int64(d.Clicks))),
		})
	}
	return out
}

func accountReport(rows []repository.AccountRow, accountID string) []AccountReport {
	out := make([]AccountReport, 0, len(rows))
	for _, a := range rows {
		if accountID != "" && a.AccountID != accountID {
			continue
		}
		out = append(out, AccountReport{
			AccountID:      a.AccountID,
			Username:       a.Username,
			CategoryName:   a.CategoryName,
			Status:         a.Status,
			Days:           a.Days,
			Clicks:         a.Clicks,
			Orders:         a.Orders,
			Commission:     a.Commission,
			Revenue:        a.Revenue,
			CommissionRate: ratio(a.Commission, a.Revenue),
		})
	}
	return out
}

// Summary reports totals, the daily breakdown and the per-account breakdown
// for the period. A non-empty accountID narrows every part to that account.
func (s *ReportService) Summary(ctx context.Context, p incentive.Period, accountID string) (*SalesSummary, error) {
	now := s.clock()
	dr := dateRange(p, now)

	var (
		totals   repository.SalesTotals
		daily    []repository.DailyRow
		accounts []repository.AccountRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.metricsRepo.Totals(gctx, accountID, dr)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = s.metricsRepo.Daily(gctx, accountID, dr)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.metricsRepo.ByAccount(gctx, dr)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load sales summary: %w", err)
	}

	return &SalesSummary{
		Period:      p.String(),
		AccountID:   accountID,
		Totals:      totalsReport(totals),
		Daily:       dailyReport(daily),
		Accounts:    accountReport(accounts, accountID),
		GeneratedAt: now.Format("2006-01-02 15:04:05 MST"),
	}, nil
}

// Dashboard combines the sales summary with the payout workflow counts and
// the accounts flagged for priority payout.
func (s *ReportService) Dashboard(ctx context.Context, p incentive.Period) (*Dashboard, error) {
	var (
		summary  *SalesSummary
		counts   map[model.PaymentStatus]int
		priority []model.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.Summary(gctx, p, "")
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.accountRepo.PaymentStatusCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		priority, err = s.accountRepo.ListByPaymentStatus(gctx, model.PaymentPriority)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		Summary:          summary,
		PaymentStatus:    paymentStatusCounts(counts),
		PriorityAccounts: priority,
	}, nil
}

// paymentStatusCounts lists every status in workflow order, zero-filled.
func paymentStatusCounts(counts map[model.PaymentStatus]int) []PaymentStatusCount {
	out := make([]PaymentStatusCount, 0, len(model.PaymentStatuses))
	for _, st := range model.PaymentStatuses {
		out = append(out, PaymentStatusCount{Status: st, Count: counts[st]})
	}
	return out
}

func (s *ReportService) Periods(ctx context.Context) ([]repository.YearMonth, error) {
	return s.metricsRepo.AvailablePeriods(ctx)
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"toLower": strings.ToLower,
	"idr":     formatIDR,
	"pct":     func(d decimal.Decimal) string { return d.StringFixed(2) + "%" },
}).Parse(templates.Report))

func (s *ReportService) RenderHTML(data *SalesSummary) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// formatIDR renders whole rupiah with dot thousand separators, e.g.
// "Rp 1.250.000".
func formatIDR(d decimal.Decimal) string {
	digits := d.Round(0).Abs().String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if d.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + "Rp " + b.String()
}
