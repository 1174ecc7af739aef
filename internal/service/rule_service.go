package service

import (
	"context"
	"strings"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/incentive"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

type RuleService struct {
	repo *repository.RuleRepository
}

func NewRuleService(repo *repository.RuleRepository) *RuleService {
	return &RuleService{repo: repo}
}

func (s *RuleService) List(ctx context.Context) ([]model.IncentiveRule, error) {
	return s.repo.List(ctx)
}

func (s *RuleService) Get(ctx context.Context, id string) (*model.IncentiveRule, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RuleService) Create(ctx context.Context, req *dto.RuleRequest) (*model.IncentiveRule, error) {
	rule, err := ruleFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Update replaces the rule, including its whole tier set.
func (s *RuleService) Update(ctx context.Context, id string, req *dto.RuleRequest) (*model.IncentiveRule, error) {
	rule, err := ruleFromRequest(req)
	if err != nil {
		return nil, err
	}
	rule.ID = id
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *RuleService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ruleFromRequest stores tiers sorted by threshold, the order the engine
// reads them in.
func ruleFromRequest(req *dto.RuleRequest) (*model.IncentiveRule, error) {
	rule := &model.IncentiveRule{
		Name:                   strings.TrimSpace(req.Name),
		Description:            req.Description,
		MinCommissionThreshold: req.MinCommissionThreshold,
		CommissionRateMin:      req.CommissionRateMin,
		CommissionRateMax:      req.CommissionRateMax,
		BaseRevenueThreshold:   req.BaseRevenueThreshold,
		IsActive:               req.IsActive == nil || *req.IsActive,
		Tiers:                  make([]model.IncentiveTier, 0, len(req.Tiers)),
	}
	if rule.Name == "" {
		return nil, invalidField("name", "must not be blank")
	}
	if rule.CommissionRateMax.GreaterThan(incentive.UnboundedRateMax) {
		return nil, invalidField("commission_rate_max", "must not exceed %s", incentive.UnboundedRateMax)
	}
	for _, t := range req.Tiers {
		rule.Tiers = append(rule.Tiers, model.IncentiveTier{
			RevenueThreshold: t.RevenueThreshold,
			IncentiveRate:    t.IncentiveRate,
		})
	}
	rule.Tiers = incentive.SortedTiers(rule.Tiers)

	if err := incentive.ValidateRule(*rule); err != nil {
		return nil, err
	}
	return rule, nil
}
