package service

import (
	"context"
	"strings"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context, query string) ([]model.User, error) {
	return s.repo.List(ctx, strings.TrimSpace(query))
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, req *dto.UserRequest) (*model.User, error) {
	u, err := userFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, req *dto.UserRequest) (*model.User, error) {
	u, err := userFromRequest(req)
	if err != nil {
		return nil, err
	}
	u.ID = id
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// userFromRequest normalises the managed account list: duplicates are
// dropped and order is kept.
func userFromRequest(req *dto.UserRequest) (*model.User, error) {
	u := &model.User{
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Role:            model.RoleUser,
		ManagedAccounts: make([]string, 0, len(req.ManagedAccounts)),
	}
	if u.Name == "" {
		return nil, invalidField("name", "must not be blank")
	}
	if req.Role != "" {
		u.Role = model.UserRole(req.Role)
	}

	seen := make(map[string]bool, len(req.ManagedAccounts))
	for _, id := range req.ManagedAccounts {
		if seen[id] {
			continue
		}
		seen[id] = true
		u.ManagedAccounts = append(u.ManagedAccounts, id)
	}
	return u, nil
}
