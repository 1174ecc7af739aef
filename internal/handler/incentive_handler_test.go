package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimostudio/affiliate-dashboard/internal/export"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
	"github.com/kimostudio/affiliate-dashboard/internal/service"
)

type stubStore struct {
	accounts []model.Account
	sales    []model.SalesRecord
}

func (s *stubStore) ListAll(context.Context) ([]model.Account, error) { return s.accounts, nil }

func (s *stubStore) ListRange(context.Context, string, repository.DateRange) ([]model.SalesRecord, error) {
	return s.sales, nil
}

type stubRules struct{ rules []model.IncentiveRule }

func (s stubRules) List(context.Context) ([]model.IncentiveRule, error) { return s.rules, nil }

type stubUsers struct{ users []model.User }

func (s stubUsers) List(_ context.Context, q string) ([]model.User, error) {
	out := make([]model.User, 0)
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(q)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s stubUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setupIncentiveRouter() http.Handler {
	store := &stubStore{
		accounts: []model.Account{{ID: "acc-1"}, {ID: "acc-2"}},
		sales: []model.SalesRecord{
			{AccountID: "acc-1", Date: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
				GrossCommission: dec("5100000"), TotalPurchases: dec("85000000")},
			{AccountID: "acc-2", Date: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
				GrossCommission: dec("60000"), TotalPurchases: dec("85000000")},
		},
	}
	rules := stubRules{rules: []model.IncentiveRule{{
		ID:                     "standard",
		Name:                   "Standard",
		MinCommissionThreshold: dec("50000"),
		CommissionRateMin:      dec("5"),
		CommissionRateMax:      dec("7.99"),
		BaseRevenueThreshold:   dec("80000000"),
		IsActive:               true,
		Tiers: []model.IncentiveTier{
			{ID: "t1", RevenueThreshold: dec("80000000"), IncentiveRate: dec("0.4")},
			{ID: "t2", RevenueThreshold: dec("90000000"), IncentiveRate: dec("0.6")},
		},
	}}}
	users := stubUsers{users: []model.User{
		{ID: "u-admin", Name: "Admin", Role: model.RoleSuperadmin},
		{ID: "u-ayu", Name: "Ayu", Role: model.RoleUser, ManagedAccounts: []string{"acc-1"}},
		{ID: "u-budi", Name: "Budi", Role: model.RoleUser, ManagedAccounts: []string{"acc-2"}},
	}}
	clock := func() time.Time { return time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC) }

	h := NewIncentiveHandler(service.NewIncentiveService(store, store, rules, users, clock))
	router := newTestRouter()
	api := router.Group("/api/v1")
	api.GET("/incentives", h.List)
	api.GET("/incentives/users/:id", h.User)
	api.GET("/incentives/export.csv", h.ExportCSV)
	return router
}

func TestIncentiveHandler_List(t *testing.T) {
	router := setupIncentiveRouter()

	t.Run("happy: default period", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/incentives", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Period       string `json:"period"`
			Calculations []struct {
				UserName        string `json:"user_name"`
				State           string `json:"state"`
				IncentiveAmount string `json:"incentive_amount"`
			} `json:"calculations"`
			Summary struct {
				Users          int    `json:"users"`
				QualifiedUsers int    `json:"qualified_users"`
				TotalIncentive string `json:"total_incentives"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "last-30-days", resp.Period)
		require.Len(t, resp.Calculations, 2)
		assert.Equal(t, "Ayu", resp.Calculations[0].UserName)
		assert.Equal(t, "tiered", resp.Calculations[0].State)
		assert.Equal(t, "340000", resp.Calculations[0].IncentiveAmount)
		assert.Equal(t, "no_rule", resp.Calculations[1].State)
		assert.Equal(t, 1, resp.Summary.QualifiedUsers)
	})

	t.Run("happy: name search", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/incentives?q=budi", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Budi")
		assert.NotContains(t, w.Body.String(), "Ayu")
	})

	t.Run("bad: preset", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/incentives?preset=soon", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad: half a range", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/incentives?start=2025-03-01", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIncentiveHandler_User(t *testing.T) {
	router := setupIncentiveRouter()

	t.Run("happy: one user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/incentives/users/u-ayu?month=3&year=2025", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"progress_percentage":"50"`)
	})

	t.Run("bad: superadmin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/incentives/users/u-admin", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad: unknown user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/incentives/users/nobody", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestIncentiveHandler_ExportCSV(t *testing.T) {
	router := setupIncentiveRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/incentives/export.csv?month=3&year=2025", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, `attachment; filename="incentive-overview-March-2025.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, export.IncentiveColumns, rows[0])
	assert.Equal(t, "Ayu", rows[1][0])
	assert.Equal(t, "No Rule Applied", rows[2][6])
}
