package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/cityhealth/directory-api/internal/model"
	"github.com/cityhealth/directory-api/internal/repository"
	"github.com/cityhealth/directory-api/internal/search"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
	"github.com/cityhealth/directory-api/pkg/metrics"
)

const (
	listCacheKey = "providers:all"
	listCacheTTL = 30 * time.Second
)

type ProviderServicer interface {
	CreateProvider(ctx context.Context, provider *model.Provider) error
	GetProvider(ctx context.Context, id uuid.UUID) (*model.Provider, error)
	UpdateProvider(ctx context.Context, provider *model.Provider) error
	DeleteProvider(ctx context.Context, id uuid.UUID) error
	ListProviders(ctx context.Context) ([]*model.Provider, error)
	ListOwnProviders(ctx context.Context, ownerUserID uuid.UUID) ([]*model.Provider, error)
	SearchProviders(ctx context.Context, query string, filters *model.SearchFilters) ([]*model.Provider, error)
	ClaimProvider(ctx context.Context, providerID, userID uuid.UUID) (*model.Provider, error)
	ImportProviders(ctx context.Context, rows []model.ProviderImportRow) (int, error)
	AddPhoto(ctx context.Context, actor model.Actor, providerID uuid.UUID, url string) error
	RemovePhoto(ctx context.Context, actor model.Actor, providerID uuid.UUID, url string) error
}

type Service struct {
	repo    repository.ProviderRepository
	cache   *gocache.Cache
	metrics *metrics.DirectoryMetrics
}

func NewService(repo repository.ProviderRepository, m *metrics.DirectoryMetrics) *Service {
	return &Service{
		repo:    repo,
		cache:   gocache.New(listCacheTTL, 2*listCacheTTL),
		metrics: m,
	}
}

func (s *Service) CreateProvider(ctx context.Context, provider *model.Provider) error {
	if err := s.validateProvider(provider); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, provider); err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	s.cache.Delete(listCacheKey)
	return nil
}

func (s *Service) GetProvider(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	provider, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *Service) UpdateProvider(ctx context.Context, provider *model.Provider) error {
	if err := s.validateProvider(provider); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, provider); err != nil {
		return err
	}

	s.cache.Delete(listCacheKey)
	return nil
}

func (s *Service) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(listCacheKey)
	return nil
}

func (s *Service) ListProviders(ctx context.Context) ([]*model.Provider, error) {
	return s.fetchAll(ctx)
}

func (s *Service) ListOwnProviders(ctx context.Context, ownerUserID uuid.UUID) ([]*model.Provider, error) {
	providers, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list own providers: %w", err)
	}
	return providers, nil
}

// SearchProviders fetches the full listing snapshot (cached, ordered by
// business name) and runs the in-memory trilingual filter over it.
func (s *Service) SearchProviders(ctx context.Context, query string, filters *model.SearchFilters) ([]*model.Provider, error) {
	providers, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	results := search.Filter(providers, query, filters)

	if s.metrics != nil {
		s.metrics.SearchQueries.Inc()
		s.metrics.SearchResultSize.Observe(float64(len(results)))
	}
	return results, nil
}

// ClaimProvider transfers an unclaimed preloaded listing to a user account.
func (s *Service) ClaimProvider(ctx context.Context, providerID, userID uuid.UUID) (*model.Provider, error) {
	provider, err := s.repo.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if provider.IsClaimed {
		return nil, apperrors.NewConflict("listing is already claimed")
	}

	provider.OwnerUserID = &userID
	provider.IsClaimed = true
	provider.IsPreloaded = false

	if err := s.repo.Update(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to claim provider: %w", err)
	}

	s.cache.Delete(listCacheKey)
	return provider, nil
}

// ImportProviders bulk-creates preloaded, unclaimed listings. Rows failing
// validation are skipped; the count of created listings is returned.
func (s *Service) ImportProviders(ctx context.Context, rows []model.ProviderImportRow) (int, error) {
	created := 0
	for _, row := range rows {
		provider := &model.Provider{
			ProviderType:          row.ProviderType,
			BusinessName:          row.BusinessName,
			Phone:                 row.Phone,
			Address:               row.Address,
			City:                  row.City,
			Latitude:              row.Latitude,
			Longitude:             row.Longitude,
			IsEmergency:           row.IsEmergency,
			IsPreloaded:           true,
			Photos:                []string{},
			AccessibilityFeatures: []string{},
		}
		if err := s.validateProvider(provider); err != nil {
			continue
		}
		if err := s.repo.Create(ctx, provider); err != nil {
			return created, fmt.Errorf("failed to import provider %q: %w", row.BusinessName, err)
		}
		created++
	}

	s.cache.Delete(listCacheKey)
	return created, nil
}

func (s *Service) AddPhoto(ctx context.Context, actor model.Actor, providerID uuid.UUID, url string) error {
	if url == "" {
		return apperrors.NewValidation("photo URL is required")
	}

	provider, err := s.repo.Get(ctx, providerID)
	if err != nil {
		return err
	}
	if !actor.CanManage(provider) {
		return apperrors.NewForbidden("not the owner of this listing")
	}

	for _, existing := range provider.Photos {
		if existing == url {
			return nil
		}
	}
	provider.Photos = append(provider.Photos, url)

	if err := s.repo.Update(ctx, provider); err != nil {
		return fmt.Errorf("failed to add photo: %w", err)
	}

	s.cache.Delete(listCacheKey)
	return nil
}

func (s *Service) RemovePhoto(ctx context.Context, actor model.Actor, providerID uuid.UUID, url string) error {
	provider, err := s.repo.Get(ctx, providerID)
	if err != nil {
		return err
	}
	if !actor.CanManage(provider) {
		return apperrors.NewForbidden("not the owner of this listing")
	}

	photos := provider.Photos[:0]
	for _, existing := range provider.Photos {
		if existing != url {
			photos = append(photos, existing)
		}
	}
	provider.Photos = photos

	if err := s.repo.Update(ctx, provider); err != nil {
		return fmt.Errorf("failed to remove photo: %w", err)
	}

	s.cache.Delete(listCacheKey)
	return nil
}

func (s *Service) fetchAll(ctx context.Context) ([]*model.Provider, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		if s.metrics != nil {
			s.metrics.SearchCacheHits.Inc()
		}
		return cached.([]*model.Provider), nil
	}

	providers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	s.cache.Set(listCacheKey, providers, listCacheTTL)
	return providers, nil
}

func (s *Service) validateProvider(provider *model.Provider) error {
	if !model.ValidProviderType(provider.ProviderType) {
		return apperrors.NewValidation(fmt.Sprintf("invalid provider type %q", provider.ProviderType))
	}
	if provider.BusinessName == "" {
		return apperrors.NewValidation("business name is required")
	}
	if provider.Phone == "" {
		return apperrors.NewValidation("phone is required")
	}
	if provider.Address == "" {
		return apperrors.NewValidation("address is required")
	}
	for _, f := range provider.AccessibilityFeatures {
		if !model.ValidAccessibilityFeature(f) {
			return apperrors.NewValidation(fmt.Sprintf("unknown accessibility feature %q", f))
		}
	}
	if provider.IsClaimed && provider.OwnerUserID == nil {
		return apperrors.NewValidation("claimed listing must have an owner")
	}
	if provider.IsClaimed && provider.IsPreloaded {
		return apperrors.NewValidation("claimed listing cannot stay preloaded")
	}
	return nil
}
