package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

func TestRuleFromRequest(t *testing.T) {
	base := func() *dto.RuleRequest {
		return &dto.RuleRequest{
			Name:                   " Standard ",
			MinCommissionThreshold: d("50000"),
			CommissionRateMin:      d("5"),
			CommissionRateMax:      d("7.99"),
			BaseRevenueThreshold:   d("80000000"),
			Tiers: []dto.TierRequest{
				{RevenueThreshold: d("90000000"), IncentiveRate: d("0.6")},
				{RevenueThreshold: d("80000000"), IncentiveRate: d("0.4")},
			},
		}
	}

	t.Run("happy: tiers are sorted and rule defaults to active", func(t *testing.T) {
		rule, err := ruleFromRequest(base())
		require.NoError(t, err)
		assert.Equal(t, "Standard", rule.Name)
		assert.True(t, rule.IsActive)
		require.Len(t, rule.Tiers, 2)
		assert.True(t, d("80000000").Equal(rule.Tiers[0].RevenueThreshold))
		assert.True(t, d("90000000").Equal(rule.Tiers[1].RevenueThreshold))
	})

	t.Run("happy: explicit inactive", func(t *testing.T) {
		req := base()
		inactive := false
		req.IsActive = &inactive
		rule, err := ruleFromRequest(req)
		require.NoError(t, err)
		assert.False(t, rule.IsActive)
	})

	t.Run("happy: no tiers gives an empty slice", func(t *testing.T) {
		req := base()
		req.Tiers = nil
		rule, err := ruleFromRequest(req)
		require.NoError(t, err)
		assert.NotNil(t, rule.Tiers)
		assert.Empty(t, rule.Tiers)
	})

	t.Run("bad: blank name", func(t *testing.T) {
		req := base()
		req.Name = "  "
		_, err := ruleFromRequest(req)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad: max above 100", func(t *testing.T) {
		req := base()
		req.CommissionRateMax = d("120")
		_, err := ruleFromRequest(req)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad: min above max", func(t *testing.T) {
		req := base()
		req.CommissionRateMin = d("9")
		_, err := ruleFromRequest(req)
		assert.True(t, incentive.IsValidationError(err))
	})

	t.Run("bad: negative tier rate", func(t *testing.T) {
		req := base()
		req.Tiers[0].IncentiveRate = d("-1")
		_, err := ruleFromRequest(req)
		assert.True(t, incentive.IsValidationError(err))
	})
}

func TestUserFromRequest(t *testing.T) {
	t.Run("happy: duplicates dropped in order", func(t *testing.T) {
		u, err := userFromRequest(&dto.UserRequest{
			Name:            "Ayu",
			Email:           "ayu@example.com",
			ManagedAccounts: []string{"b", "a", "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, u.ManagedAccounts)
		assert.Equal(t, model.RoleUser, u.Role)
	})

	t.Run("happy: no accounts gives an empty slice", func(t *testing.T) {
		u, err := userFromRequest(&dto.UserRequest{Name: "Dimas", Email: "dimas@example.com", Role: "superadmin"})
		require.NoError(t, err)
		assert.NotNil(t, u.ManagedAccounts)
		assert.Equal(t, model.RoleSuperadmin, u.Role)
	})

	t.Run("bad: blank name", func(t *testing.T) {
		_, err := userFromRequest(&dto.UserRequest{Name: " ", Email: "x@example.com"})
		var ve *validationErr
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "name", ve.field)
	})
}

func TestAccountFromRequest(t *testing.T) {
	t.Run("happy: defaults", func(t *testing.T) {
		a, err := accountFromRequest(&dto.AccountRequest{Username: "toko_ayu", Email: "toko@example.com"})
		require.NoError(t, err)
		assert.Equal(t, model.AccountActive, a.Status)
		assert.Equal(t, model.PaymentNotSet, a.PaymentData)
	})

	t.Run("happy: payment status with a space", func(t *testing.T) {
		a, err := accountFromRequest(&dto.AccountRequest{Username: "toko_ayu", PaymentData: "belum diatur"})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentNotSet, a.PaymentData)
	})

	t.Run("bad: unknown payment status", func(t *testing.T) {
		_, err := accountFromRequest(&dto.AccountRequest{Username: "toko_ayu", PaymentData: "paid"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
