package resources

import (
	"context"

	"github.com/voyatra/tripbook/internal/domain"
	"github.com/voyatra/tripbook/internal/repository"
)

type ResourceUseCase interface {
	List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error)
	GetByID(ctx context.Context, kind domain.ResourceKind, id int64) (*domain.Resource, error)
}

type Cache interface {
	GetResources(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error)
	SetResources(ctx context.Context, kind domain.ResourceKind, resources []domain.Resource) error
}

type ResourceService struct {
	repo  repository.ResourceRepository
	cache Cache
}

func NewResourceService(repo repository.ResourceRepository, cache Cache) *ResourceService {
	return &ResourceService{repo: repo, cache: cache}
}

func (s *ResourceService) List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetResources(ctx, kind); err == nil && cached != nil {
			return cached, nil
		}
	}

	resources, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetResources(ctx, kind, resources)
	}
	return resources, nil
}

func (s *ResourceService) GetByID(ctx context.Context, kind domain.ResourceKind, id int64) (*domain.Resource, error) {
	return s.repo.GetByID(ctx, kind, id)
}

var _ ResourceUseCase = (*ResourceService)(nil)
