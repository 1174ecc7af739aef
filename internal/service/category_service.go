package service

import (
	"context"
	"strings"

	"github.com/kimostudio/affiliate-dashboard/internal/dto"
	"github.com/kimostudio/affiliate-dashboard/internal/model"
	"github.com/kimostudio/affiliate-dashboard/internal/repository"
)

type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error) {
	c := &model.Category{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if c.Name == "" {
		return nil, invalidField("name", "must not be blank")
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *dto.CategoryRequest) (*model.Category, error) {
	c := &model.Category{ID: id, Name: strings.TrimSpace(req.Name), Description: req.Description}
	if c.Name == "" {
		return nil, invalidField("name", "must not be blank")
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
