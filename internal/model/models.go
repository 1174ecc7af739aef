package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountViolation AccountStatus = "violation"
	AccountInactive  AccountStatus = "inactive"
)

// PaymentStatus tracks the payout paperwork of an account. The values follow
// the order the back office moves an account through, but nothing enforces
// the order.
type PaymentStatus string

const (
	PaymentNotSet    PaymentStatus = "belum diatur"
	PaymentPriority  PaymentStatus = "utamakan"
	PaymentSubmitted PaymentStatus = "dimasukkan"
	PaymentApproved  PaymentStatus = "disetujui"
	PaymentValid     PaymentStatus = "sah"
)

// PaymentStatuses lists every payment status in workflow order.
var PaymentStatuses = []PaymentStatus{
	PaymentNotSet, PaymentPriority, PaymentSubmitted, PaymentApproved, PaymentValid,
}

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleSuperadmin UserRole = "superadmin"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Account struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Status      AccountStatus `json:"status"`
	PaymentData PaymentStatus `json:"payment_data"`
	AccountCode string        `json:"account_code"`
	CategoryID  string        `json:"category_id"`
	UserID      *string       `json:"user_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// SalesRecord is one account's metrics for one calendar day. Date is always
// midnight UTC; (AccountID, Date) is unique.
type SalesRecord struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	Date            time.Time       `json:"date"`
	Clicks          int             `json:"clicks"`
	Orders          int             `json:"orders"`
	GrossCommission decimal.Decimal `json:"gross_commission"`
	ProductsSold    int             `json:"products_sold"`
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	NewBuyers       int             `json:"new_buyers"`
	CreatedAt       time.Time       `json:"created_at"`
}

type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            UserRole  `json:"role"`
	ManagedAccounts []string  `json:"managed_accounts"`
	CreatedAt       time.Time `json:"created_at"`
}

type IncentiveTier struct {
	ID               string          `json:"id"`
	RuleID           string          `json:"rule_id,omitempty"`
	RevenueThreshold decimal.Decimal `json:"revenue_threshold"`
	IncentiveRate    decimal.Decimal `json:"incentive_rate"`
	CreatedAt        time.Time       `json:"created_at"`
}

// IncentiveRule is a commission-rate band with a revenue tier ladder.
// CommissionRateMax of 100 means the band has no upper bound.
type IncentiveRule struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	Description            string          `json:"description"`
	MinCommissionThreshold decimal.Decimal `json:"min_commission_threshold"`
	CommissionRateMin      decimal.Decimal `json:"commission_rate_min"`
	CommissionRateMax      decimal.Decimal `json:"commission_rate_max"`
	BaseRevenueThreshold   decimal.Decimal `json:"base_revenue_threshold"`
	Tiers                  []IncentiveTier `json:"tiers"`
	IsActive               bool            `json:"is_active"`
	CreatedAt              time.Time       `json:"created_at"`
}
