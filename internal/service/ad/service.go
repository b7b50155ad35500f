package ad

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cityhealth/directory-api/internal/model"
	"github.com/cityhealth/directory-api/internal/repository"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
)

type AdServicer interface {
	CreateAd(ctx context.Context, actor model.Actor, ad *model.Ad) error
	GetAd(ctx context.Context, id uuid.UUID) (*model.Ad, error)
	DeleteAd(ctx context.Context, actor model.Actor, id uuid.UUID) error
	ListActive(ctx context.Context) ([]*model.Ad, error)
	ListForProvider(ctx context.Context, actor model.Actor, providerID uuid.UUID) ([]*model.Ad, error)
	ListPending(ctx context.Context) ([]*model.Ad, error)
	Review(ctx context.Context, id uuid.UUID, approve bool) (*model.Ad, error)
}

type Service struct {
	repo         repository.AdRepository
	providerRepo repository.ProviderRepository
}

func NewService(repo repository.AdRepository, providerRepo repository.ProviderRepository) *Service {
	return &Service{
		repo:         repo,
		providerRepo: providerRepo,
	}
}

func (s *Service) CreateAd(ctx context.Context, actor model.Actor, ad *model.Ad) error {
	if !ad.EndsAt.After(ad.StartsAt) {
		return apperrors.NewValidation("ad window must end after it starts")
	}
	if ad.EndsAt.Before(time.Now()) {
		return apperrors.NewValidation("ad window is already over")
	}

	// Only the owner of a verified listing can run promotions.
	provider, err := s.providerRepo.Get(ctx, ad.ProviderID)
	if err != nil {
		return err
	}
	if !actor.CanManage(provider) {
		return apperrors.NewForbidden("not the owner of this listing")
	}
	if provider.VerificationStatus != model.VerificationStatusVerified {
		return apperrors.NewValidation("only verified providers can create ads")
	}

	ad.Status = model.AdStatusPending
	if err := s.repo.Create(ctx, ad); err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

func (s *Service) GetAd(ctx context.Context, id uuid.UUID) (*model.Ad, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) DeleteAd(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	ad, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, actor, ad.ProviderID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]*model.Ad, error) {
	ads, err := s.repo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list active ads: %w", err)
	}
	return ads, nil
}

// ListForProvider returns every ad of a listing, including pending and
// rejected ones, so it is limited to the owner and admins. The public feed
// goes through ListActive.
func (s *Service) ListForProvider(ctx context.Context, actor model.Actor, providerID uuid.UUID) ([]*model.Ad, error) {
	if err := s.requireOwner(ctx, actor, providerID); err != nil {
		return nil, err
	}

	ads, err := s.repo.ListForProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider ads: %w", err)
	}
	return ads, nil
}

func (s *Service) requireOwner(ctx context.Context, actor model.Actor, providerID uuid.UUID) error {
	provider, err := s.providerRepo.Get(ctx, providerID)
	if err != nil {
		return err
	}
	if !actor.CanManage(provider) {
		return apperrors.NewForbidden("not the owner of this listing")
	}
	return nil
}

func (s *Service) ListPending(ctx context.Context) ([]*model.Ad, error) {
	ads, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending ads: %w", err)
	}
	return ads, nil
}

func (s *Service) Review(ctx context.Context, id uuid.UUID, approve bool) (*model.Ad, error) {
	ad, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ad.Status != model.AdStatusPending {
		return nil, apperrors.NewValidation(fmt.Sprintf("ad has already been reviewed (status %s)", ad.Status))
	}

	if approve {
		ad.Status = model.AdStatusActive
	} else {
		ad.Status = model.AdStatusRejected
	}
	if err := s.repo.Update(ctx, ad); err != nil {
		return nil, fmt.Errorf("failed to update ad: %w", err)
	}
	return ad, nil
}
