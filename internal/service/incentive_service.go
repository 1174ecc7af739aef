package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

type AccountLister interface {
	ListAll(ctx context.Context) ([]model.Account, error)
}

type SalesLister interface {
	ListRange(ctx context.Context, accountID string, dr repository.DateRange) ([]model.SalesRecord, error)
}

type RuleLister interface {
	List(ctx context.Context) ([]model.IncentiveRule, error)
}

type UserFinder interface {
	List(ctx context.Context, query string) ([]model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type IncentiveService struct {
	accounts AccountLister
	sales    SalesLister
	rules    RuleLister
	users    UserFinder
	clock    Clock
}

func NewIncentiveService(accounts AccountLister, sales SalesLister, rules RuleLister, users UserFinder, clock Clock) *IncentiveService {
	return &IncentiveService{accounts: accounts, sales: sales, rules: rules, users: users, clock: clock}
}

type Overview struct {
	Period       string                  `json:"period"`
	Calculations []incentive.Calculation `json:"calculations"`
	Summary      incentive.Summary       `json:"summary"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// snapshot loads the shared engine input. Only rows inside the period's day
// window are fetched; the engine filters again against the same clock.
func (s *IncentiveService) snapshot(ctx context.Context, p incentive.Period, now time.Time) (incentive.Snapshot, error) {
	var snap incentive.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Accounts, err = s.accounts.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.SalesRecords, err = s.sales.ListRange(gctx, "", dateRange(p, now))
		return err
	})
	g.Go(func() error {
		var err error
		snap.Rules, err = s.rules.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return incentive.Snapshot{}, fmt.Errorf("load incentive snapshot: %w", err)
	}
	snap.Rules = usableRules(snap.Rules)
	return snap, nil
}

// usableRules drops stored rules the engine would reject, such as rows
// edited by hand in SQL. The rest of the catalog keeps working.
func usableRules(rules []model.IncentiveRule) []model.IncentiveRule {
	out := make([]model.IncentiveRule, 0, len(rules))
	for _, r := range rules {
		err := incentive.ValidateRule(r)
		if err == nil && r.ID == "" {
			err = errors.New("rule has no id")
		}
		if err != nil {
			log.Warn().Err(err).Str("rule_id", r.ID).Str("rule", r.Name).Msg("skipping invalid incentive rule")
			continue
		}
		out = append(out, r)
	}
	return out
}

// Overview calculates incentives for every non-superadmin user whose name
// matches query.
func (s *IncentiveService) Overview(ctx context.Context, p incentive.Period, query string) (*Overview, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	now := s.clock()

	var (
		snap  incentive.Snapshot
		users []model.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.snapshot(gctx, p, now)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.users.List(gctx, query)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	targets := make([]incentive.Target, 0, len(users))
	for _, u := range users {
		if u.Role == model.RoleSuperadmin {
			continue
		}
		targets = append(targets, incentive.TargetFromUser(u))
	}

	// The period is already checked, so a failure here is bad stored data.
	calcs, err := incentive.CalculateAll(snap, targets, p, now)
	if err != nil {
		return nil, fmt.Errorf("calculate incentives from stored data: %v", err)
	}
	for _, c := range calcs {
		incentiveCalculations.WithLabelValues(string(c.State)).Inc()
	}

	summary := incentive.Summarize(calcs)
	log.Debug().
		Str("period", p.String()).
		Int("users", summary.Users).
		Int("qualified", summary.QualifiedUsers).
		Msg("incentive overview calculated")

	return &Overview{
		Period:       p.String(),
		Calculations: calcs,
		Summary:      summary,
		GeneratedAt:  now,
	}, nil
}

// ForUser calculates one user's incentive. Superadmins are not incentivised
// and report as not found.
func (s *IncentiveService) ForUser(ctx context.Context, userID string, p incentive.Period) (*incentive.Calculation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == model.RoleSuperadmin {
		return nil, ErrNotIncentivised
	}

	now := s.clock()
	snap, err := s.snapshot(ctx, p, now)
	if err != nil {
		return nil, err
	}
	calc, err := incentive.Calculate(incentive.Input{
		Snapshot: snap,
		Target:   incentive.TargetFromUser(*u),
		Period:   p,
		Now:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("calculate incentive from stored data: %v", err)
	}
	incentiveCalculations.WithLabelValues(string(calc.State)).Inc()
	return &calc, nil
}
