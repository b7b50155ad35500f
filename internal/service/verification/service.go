package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cityhealth/directory-api/internal/email"
	"github.com/cityhealth/directory-api/internal/model"
	"github.com/cityhealth/directory-api/internal/repository"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
	"github.com/cityhealth/directory-api/pkg/logger"
	"github.com/cityhealth/directory-api/pkg/metrics"
)

type VerificationServicer interface {
	Submit(ctx context.Context, actor model.Actor, providerID uuid.UUID, documentType string, documentURLs []string) (*model.VerificationRequest, error)
	Review(ctx context.Context, requestID uuid.UUID, decision model.ReviewDecision, reason string, reviewerID uuid.UUID) (*model.VerificationRequest, error)
	ListPending(ctx context.Context) ([]*model.VerificationRequest, error)
	ListForProvider(ctx context.Context, actor model.Actor, providerID uuid.UUID) ([]*model.VerificationRequest, error)
}

type Service struct {
	repo         repository.VerificationRepository
	providerRepo repository.ProviderRepository
	emailSvc     email.Service
	logger       *logger.Logger
	metrics      *metrics.VerificationMetrics
}

func NewService(
	repo repository.VerificationRepository,
	providerRepo repository.ProviderRepository,
	emailSvc email.Service,
	logger *logger.Logger,
	m *metrics.VerificationMetrics,
) *Service {
	return &Service{
		repo:         repo,
		providerRepo: providerRepo,
		emailSvc:     emailSvc,
		logger:       logger,
		metrics:      m,
	}
}

// Submit opens a new verification cycle for a provider. Only the listing
// owner (or an admin) may submit. The profile must be complete and the
// provider must not already be verified or awaiting review; a previously
// rejected provider may re-request, which starts a fresh request document
// while the old one stays for history.
func (s *Service) Submit(ctx context.Context, actor model.Actor, providerID uuid.UUID, documentType string, documentURLs []string) (*model.VerificationRequest, error) {
	provider, err := s.providerRepo.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(provider) {
		return nil, apperrors.NewForbidden("only the listing owner can request verification")
	}
	if !provider.ProfileComplete() {
		return nil, apperrors.NewValidation("profile must be complete before requesting verification: business name, phone, address and provider type are required")
	}
	switch provider.VerificationStatus {
	case model.VerificationStatusVerified:
		return nil, apperrors.NewValidation("provider is already verified")
	case model.VerificationStatusPending:
		return nil, apperrors.NewValidation("a verification request is already pending")
	}
	if len(documentURLs) == 0 {
		return nil, apperrors.NewValidation("at least one document is required")
	}
	if documentType == "" {
		return nil, apperrors.NewValidation("document type is required")
	}

	request := &model.VerificationRequest{
		ProviderID:   providerID,
		UserID:       actor.UserID,
		DocumentType: documentType,
		DocumentURLs: documentURLs,
		Status:       model.VerificationStatusPending,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}

	// Read-model convenience: the provider carries the effective status.
	if err := s.providerRepo.UpdateVerificationStatus(ctx, providerID, model.VerificationStatusPending); err != nil {
		return nil, fmt.Errorf("failed to mark provider pending: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Submissions.Inc()
	}
	s.logger.Info("Verification request submitted",
		"request_id", request.ID.String(),
		"provider_id", providerID.String())

	return request, nil
}

// Review applies an admin decision to a pending request. Approval always
// clears a rejection reason left over from an earlier cycle; relying on the
// field being untouched is not enough.
func (s *Service) Review(ctx context.Context, requestID uuid.UUID, decision model.ReviewDecision, reason string, reviewerID uuid.UUID) (*model.VerificationRequest, error) {
	request, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != model.VerificationStatusPending {
		return nil, apperrors.NewValidation(fmt.Sprintf("request has already been reviewed (status %s)", request.Status))
	}

	now := time.Now()
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &now

	var providerStatus model.VerificationStatus
	switch decision {
	case model.ReviewDecisionApprove:
		request.Status = model.VerificationStatusVerified
		request.RejectionReason = nil
		providerStatus = model.VerificationStatusVerified
	case model.ReviewDecisionReject:
		request.Status = model.VerificationStatusRejected
		if reason != "" {
			request.RejectionReason = &reason
		} else {
			request.RejectionReason = nil
		}
		providerStatus = model.VerificationStatusRejected
	default:
		return nil, apperrors.NewValidation(fmt.Sprintf("unknown review decision %q", decision))
	}

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update verification request: %w", err)
	}

	if err := s.providerRepo.UpdateVerificationStatus(ctx, request.ProviderID, providerStatus); err != nil {
		return nil, fmt.Errorf("failed to update provider status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Reviews.WithLabelValues(string(decision)).Inc()
	}
	s.logger.Info("Verification request reviewed",
		"request_id", request.ID.String(),
		"decision", string(decision))

	s.notify(ctx, request, reason)

	return request, nil
}

func (s *Service) ListPending(ctx context.Context) ([]*model.VerificationRequest, error) {
	requests, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return requests, nil
}

// ListForProvider returns a listing's verification history. The documents
// and rejection reasons in it are for the owner and admins only.
func (s *Service) ListForProvider(ctx context.Context, actor model.Actor, providerID uuid.UUID) ([]*model.VerificationRequest, error) {
	provider, err := s.providerRepo.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(provider) {
		return nil, apperrors.NewForbidden("only the listing owner can view its verification history")
	}

	requests, err := s.repo.ListForProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider requests: %w", err)
	}
	return requests, nil
}

// notify emails the listing contact about the decision. Failures are logged,
// never surfaced: the review itself already committed.
func (s *Service) notify(ctx context.Context, request *model.VerificationRequest, reason string) {
	if s.emailSvc == nil {
		return
	}

	provider, err := s.providerRepo.Get(ctx, request.ProviderID)
	if err != nil || provider.Email == nil {
		return
	}

	if request.Status == model.VerificationStatusVerified {
		err = s.emailSvc.SendVerificationApproved(ctx, *provider.Email, provider.BusinessName)
	} else {
		err = s.emailSvc.SendVerificationRejected(ctx, *provider.Email, provider.BusinessName, reason)
	}
	if err != nil {
		s.logger.Error(err, "Failed to send verification decision email",
			"request_id", request.ID.String())
	}
}
