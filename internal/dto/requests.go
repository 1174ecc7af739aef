package dto

import (
	"github.com/shopspring/decimal"
)

type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

type AccountRequest struct {
	Username    string  `json:"username" binding:"required,max=100"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"phone" binding:"max=50"`
	Status      string  `json:"status" binding:"omitempty,oneof=active violation inactive"`
	PaymentData string  `json:"payment_data"`
	AccountCode string  `json:"account_code" binding:"max=50"`
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	UserID      *string `json:"user_id" binding:"omitempty,uuid"`
}

type UserRequest struct {
	Name            string   `json:"name" binding:"required,max=200"`
	Email           string   `json:"email" binding:"required,email"`
	Role            string   `json:"role" binding:"omitempty,oneof=user superadmin"`
	ManagedAccounts []string `json:"managed_accounts" binding:"omitempty,dive,uuid"`
}

// Money and rate fields accept JSON numbers or numeric strings.
type TierRequest struct {
	RevenueThreshold decimal.Decimal `json:"revenue_threshold"`
	IncentiveRate    decimal.Decimal `json:"incentive_rate"`
}

type RuleRequest struct {
	Name                   string          `json:"name" binding:"required,max=200"`
	Description            string          `json:"description"`
	MinCommissionThreshold decimal.Decimal `json:"min_commission_threshold"`
	CommissionRateMin      decimal.Decimal `json:"commission_rate_min"`
	CommissionRateMax      decimal.Decimal `json:"commission_rate_max"`
	BaseRevenueThreshold   decimal.Decimal `json:"base_revenue_threshold"`
	Tiers                  []TierRequest   `json:"tiers"`
	IsActive               *bool           `json:"is_active"`
}

type SalesRowRequest struct {
	AccountID       string          `json:"account_id" binding:"required"`
	Date            string          `json:"date" binding:"required"`
	Clicks          int             `json:"clicks" binding:"min=0"`
	Orders          int             `json:"orders" binding:"min=0"`
	GrossCommission decimal.Decimal `json:"gross_commission"`
	ProductsSold    int             `json:"products_sold" binding:"min=0"`
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	NewBuyers       int             `json:"new_buyers" binding:"min=0"`
}

type BatchSalesRequest struct {
	Records []SalesRowRequest `json:"records" binding:"required,min=1,max=1000,dive"`
}
