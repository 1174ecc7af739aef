package incentive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

func band(id, min, max string, active bool) model.IncentiveRule {
	return model.IncentiveRule{
		ID:                id,
		Name:              id,
		CommissionRateMin: dec(min),
		CommissionRateMax: dec(max),
		IsActive:          active,
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		rule model.IncentiveRule
		rate string
		want bool
	}{
		{"inside band", band("r", "5", "7.99", true), "6", true},
		{"on lower bound", band("r", "5", "7.99", true), "5", true},
		{"on upper bound", band("r", "5", "7.99", true), "7.99", true},
		{"between bands", band("r", "5", "7.99", true), "7.995", false},
		{"below", band("r", "5", "7.99", true), "4.99", false},
		{"unbounded max", band("r", "8", "100", true), "250", true},
		{"unbounded max below min", band("r", "8", "100", true), "7.9", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.rule, dec(tt.rate)))
		})
	}
}

func TestSelectRule(t *testing.T) {
	rules := []model.IncentiveRule{
		band("inactive", "0", "100", false),
		band("first", "5", "10", true),
		band("overlap", "6", "100", true),
	}

	t.Run("first active match wins", func(t *testing.T) {
		r := SelectRule(rules, dec("7"))
		require.NotNil(t, r)
		assert.Equal(t, "first", r.ID)
	})

	t.Run("inactive rules are skipped", func(t *testing.T) {
		assert.Nil(t, SelectRule(rules, dec("1")))
	})

	t.Run("unbounded rule catches high rates", func(t *testing.T) {
		r := SelectRule(rules, dec("40"))
		require.NotNil(t, r)
		assert.Equal(t, "overlap", r.ID)
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Nil(t, SelectRule(nil, dec("6")))
	})
}

func TestEvaluateRules(t *testing.T) {
	rules := []model.IncentiveRule{
		band("low", "0", "4.99", true),
		band("off", "5", "7.99", false),
		band("mid", "5", "7.99", true),
		band("high", "8", "100", true),
	}

	got := EvaluateRules(rules, dec("6"))
	require.Len(t, got, 3)
	assert.Equal(t, AboveMaximum, got[0].Result)
	assert.Equal(t, Matched, got[1].Result)
	assert.Equal(t, "mid", got[1].RuleID)
	assert.Equal(t, BelowMinimum, got[2].Result)
}

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule(standardRule()))

	r := standardRule()
	r.MinCommissionThreshold = dec("-1")
	err := ValidateRule(r)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, IsValidationError(err))
}
