package service

import (
	"context"
	"strings"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

type AccountService struct {
	repo *repository.AccountRepository
}

func NewAccountService(repo *repository.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) List(ctx context.Context, f repository.AccountFilter) ([]model.Account, int, error) {
	return s.repo.List(ctx, f)
}

func (s *AccountService) Get(ctx context.Context, id string) (*model.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) Create(ctx context.Context, req *dto.AccountRequest) (*model.Account, error) {
	a, err := accountFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AccountService) Update(ctx context.Context, id string, req *dto.AccountRequest) (*model.Account, error) {
	a, err := accountFromRequest(req)
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func accountFromRequest(req *dto.AccountRequest) (*model.Account, error) {
	a := &model.Account{
		Username:    strings.TrimSpace(req.Username),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Status:      model.AccountActive,
		PaymentData: model.PaymentNotSet,
		AccountCode: strings.TrimSpace(req.AccountCode),
		CategoryID:  req.CategoryID,
		UserID:      req.UserID,
	}
	if a.Username == "" {
		return nil, invalidField("username", "must not be blank")
	}
	if req.Status != "" {
		a.Status = model.AccountStatus(req.Status)
	}
	if req.PaymentData != "" {
		a.PaymentData = model.PaymentStatus(req.PaymentData)
		if !validPaymentStatus(a.PaymentData) {
			return nil, invalidField("payment_data", "unknown payment status %q", req.PaymentData)
		}
	}
	return a, nil
}

func validPaymentStatus(p model.PaymentStatus) bool {
	for _, s := range model.PaymentStatuses {
		if s == p {
			return true
		}
	}
	return false
}
