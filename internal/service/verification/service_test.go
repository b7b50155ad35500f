package verification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityhealth/directory-api/internal/model"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
	"github.com/cityhealth/directory-api/pkg/logger"
)

type fakeProviderRepo struct {
	providers map[uuid.UUID]*model.Provider
}

func newFakeProviderRepo(ps ...*model.Provider) *fakeProviderRepo {
	r := &fakeProviderRepo{providers: make(map[uuid.UUID]*model.Provider)}
	for _, p := range ps {
		r.providers[p.ID] = p
	}
	return r
}

func (r *fakeProviderRepo) Create(_ context.Context, p *model.Provider) error {
	r.providers[p.ID] = p
	return nil
}

func (r *fakeProviderRepo) Get(_ context.Context, id uuid.UUID) (*model.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, apperrors.NewNotFound("provider")
	}
	return p, nil
}

func (r *fakeProviderRepo) Update(_ context.Context, p *model.Provider) error {
	r.providers[p.ID] = p
	return nil
}

func (r *fakeProviderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.providers, id)
	return nil
}

func (r *fakeProviderRepo) List(_ context.Context) ([]*model.Provider, error) {
	out := make([]*model.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProviderRepo) ListByOwner(_ context.Context, owner uuid.UUID) ([]*model.Provider, error) {
	var out []*model.Provider
	for _, p := range r.providers {
		if p.OwnerUserID != nil && *p.OwnerUserID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProviderRepo) UpdateVerificationStatus(_ context.Context, id uuid.UUID, status model.VerificationStatus) error {
	p, ok := r.providers[id]
	if !ok {
		return apperrors.NewNotFound("provider")
	}
	p.VerificationStatus = status
	return nil
}

type fakeVerificationRepo struct {
	requests map[uuid.UUID]*model.VerificationRequest
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{requests: make(map[uuid.UUID]*model.VerificationRequest)}
}

func (r *fakeVerificationRepo) Create(_ context.Context, req *model.VerificationRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeVerificationRepo) Get(_ context.Context, id uuid.UUID) (*model.VerificationRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NewNotFound("verification request")
	}
	return req, nil
}

func (r *fakeVerificationRepo) Update(_ context.Context, req *model.VerificationRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *fakeVerificationRepo) ListPending(_ context.Context) ([]*model.VerificationRequest, error) {
	var out []*model.VerificationRequest
	for _, req := range r.requests {
		if req.Status == model.VerificationStatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeVerificationRepo) ListForProvider(_ context.Context, providerID uuid.UUID) ([]*model.VerificationRequest, error) {
	var out []*model.VerificationRequest
	for _, req := range r.requests {
		if req.ProviderID == providerID {
			out = append(out, req)
		}
	}
	return out, nil
}

func completeProvider() *model.Provider {
	owner := uuid.New()
	p := &model.Provider{
		ProviderType: model.ProviderTypeDoctor,
		BusinessName: "Cabinet Dr. Merabet",
		Phone:        "+213555000000",
		Address:      "1 Rue des Oliviers, Alger",
		OwnerUserID:  &owner,
		IsClaimed:    true,
	}
	p.ID = uuid.New()
	return p
}

func ownerOf(p *model.Provider) model.Actor {
	return model.Actor{UserID: *p.OwnerUserID, Role: model.UserRoleProvider}
}

func newTestService(providerRepo *fakeProviderRepo, repo *fakeVerificationRepo) *Service {
	return NewService(repo, providerRepo, nil, logger.NewLogger(nil), nil)
}

func TestSubmitIncompleteProfile(t *testing.T) {
	provider := completeProvider()
	provider.BusinessName = ""
	providerRepo := newFakeProviderRepo(provider)
	svc := newTestService(providerRepo, newFakeVerificationRepo())

	_, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, model.VerificationStatus(""), provider.VerificationStatus, "provider status must not change")
}

func TestSubmitAlreadyVerified(t *testing.T) {
	provider := completeProvider()
	provider.VerificationStatus = model.VerificationStatusVerified
	svc := newTestService(newFakeProviderRepo(provider), newFakeVerificationRepo())

	_, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSubmitAlreadyPending(t *testing.T) {
	provider := completeProvider()
	provider.VerificationStatus = model.VerificationStatusPending
	svc := newTestService(newFakeProviderRepo(provider), newFakeVerificationRepo())

	_, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSubmitRequiresDocuments(t *testing.T) {
	provider := completeProvider()
	svc := newTestService(newFakeProviderRepo(provider), newFakeVerificationRepo())

	_, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license",nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSubmitMarksProviderPending(t *testing.T) {
	provider := completeProvider()
	providerRepo := newFakeProviderRepo(provider)
	svc := newTestService(providerRepo, newFakeVerificationRepo())

	request, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusPending, request.Status)
	assert.Equal(t, model.VerificationStatusPending, provider.VerificationStatus)
}

func TestSubmitByNonOwner(t *testing.T) {
	provider := completeProvider()
	providerRepo := newFakeProviderRepo(provider)
	repo := newFakeVerificationRepo()
	svc := newTestService(providerRepo, repo)

	stranger := model.Actor{UserID: uuid.New(), Role: model.UserRoleProvider}
	_, err := svc.Submit(context.Background(), stranger, provider.ID, "license", []string{"https://docs/1.pdf"})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Empty(t, repo.requests, "no request may be opened for someone else's listing")
	assert.Equal(t, model.VerificationStatus(""), provider.VerificationStatus)
}

func TestListForProviderRestrictedToOwner(t *testing.T) {
	provider := completeProvider()
	repo := newFakeVerificationRepo()
	svc := newTestService(newFakeProviderRepo(provider), repo)

	_, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.NoError(t, err)

	history, err := svc.ListForProvider(context.Background(), ownerOf(provider), provider.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	stranger := model.Actor{UserID: uuid.New(), Role: model.UserRoleCitizen}
	_, err = svc.ListForProvider(context.Background(), stranger, provider.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err), "document URLs and rejection history stay private")

	admin := model.Actor{UserID: uuid.New(), Role: model.UserRoleAdmin}
	history, err = svc.ListForProvider(context.Background(), admin, provider.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSubmitAfterRejectionStartsNewCycle(t *testing.T) {
	provider := completeProvider()
	provider.VerificationStatus = model.VerificationStatusRejected
	repo := newFakeVerificationRepo()
	svc := newTestService(newFakeProviderRepo(provider), repo)

	request, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/2.pdf"})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusPending, request.Status)
	assert.Equal(t, model.VerificationStatusPending, provider.VerificationStatus)
}

func TestReviewApprove(t *testing.T) {
	provider := completeProvider()
	providerRepo := newFakeProviderRepo(provider)
	repo := newFakeVerificationRepo()
	svc := newTestService(providerRepo, repo)

	request, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.NoError(t, err)

	reviewer := uuid.New()
	reviewed, err := svc.Review(context.Background(), request.ID, model.ReviewDecisionApprove, "", reviewer)
	require.NoError(t, err)

	assert.Equal(t, model.VerificationStatusVerified, reviewed.Status)
	assert.Nil(t, reviewed.RejectionReason)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, reviewer, *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, model.VerificationStatusVerified, provider.VerificationStatus)
}

func TestReviewApproveClearsStaleRejectionReason(t *testing.T) {
	provider := completeProvider()
	repo := newFakeVerificationRepo()
	svc := newTestService(newFakeProviderRepo(provider), repo)

	reason := "documents illegible"
	request := &model.VerificationRequest{
		ProviderID:      provider.ID,
		UserID:          uuid.New(),
		DocumentType:    "license",
		DocumentURLs:    []string{"https://docs/1.pdf"},
		Status:          model.VerificationStatusPending,
		RejectionReason: &reason,
	}
	require.NoError(t, repo.Create(context.Background(), request))

	reviewed, err := svc.Review(context.Background(), request.ID, model.ReviewDecisionApprove, "", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, reviewed.RejectionReason, "approval must wipe any leftover rejection reason")
}

func TestReviewReject(t *testing.T) {
	provider := completeProvider()
	repo := newFakeVerificationRepo()
	svc := newTestService(newFakeProviderRepo(provider), repo)

	request, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), request.ID, model.ReviewDecisionReject, "documents illegible", uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.VerificationStatusRejected, reviewed.Status)
	require.NotNil(t, reviewed.RejectionReason)
	assert.Equal(t, "documents illegible", *reviewed.RejectionReason)
	assert.Equal(t, model.VerificationStatusRejected, provider.VerificationStatus)
}

func TestReviewRejectWithoutReason(t *testing.T) {
	provider := completeProvider()
	repo := newFakeVerificationRepo()
	svc := newTestService(newFakeProviderRepo(provider), repo)

	request, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), request.ID, model.ReviewDecisionReject, "", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, reviewed.RejectionReason)
}

func TestReviewTwiceFails(t *testing.T) {
	provider := completeProvider()
	repo := newFakeVerificationRepo()
	svc := newTestService(newFakeProviderRepo(provider), repo)

	request, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), request.ID, model.ReviewDecisionApprove, "", uuid.New())
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), request.ID, model.ReviewDecisionReject, "late change of heart", uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestReviewUnknownDecision(t *testing.T) {
	provider := completeProvider()
	repo := newFakeVerificationRepo()
	svc := newTestService(newFakeProviderRepo(provider), repo)

	request, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), request.ID, model.ReviewDecision("escalate"), "", uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestListPending(t *testing.T) {
	provider := completeProvider()
	repo := newFakeVerificationRepo()
	svc := newTestService(newFakeProviderRepo(provider), repo)

	request, err := svc.Submit(context.Background(), ownerOf(provider), provider.ID, "license", []string{"https://docs/1.pdf"})
	require.NoError(t, err)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, request.ID, pending[0].ID)

	_, err = svc.Review(context.Background(), request.ID, model.ReviewDecisionApprove, "", uuid.New())
	require.NoError(t, err)

	pending, err = svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}
