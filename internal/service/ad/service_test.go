package ad

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityhealth/directory-api/internal/model"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
)

type fakeAdRepo struct {
	ads map[uuid.UUID]*model.Ad
}

func newFakeAdRepo() *fakeAdRepo {
	return &fakeAdRepo{ads: make(map[uuid.UUID]*model.Ad)}
}

func (r *fakeAdRepo) Create(_ context.Context, ad *model.Ad) error {
	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}
	r.ads[ad.ID] = ad
	return nil
}

func (r *fakeAdRepo) Get(_ context.Context, id uuid.UUID) (*model.Ad, error) {
	ad, ok := r.ads[id]
	if !ok {
		return nil, apperrors.NewNotFound("ad")
	}
	return ad, nil
}

func (r *fakeAdRepo) Update(_ context.Context, ad *model.Ad) error {
	r.ads[ad.ID] = ad
	return nil
}

func (r *fakeAdRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.ads, id)
	return nil
}

func (r *fakeAdRepo) ListActive(_ context.Context, now time.Time) ([]*model.Ad, error) {
	var out []*model.Ad
	for _, ad := range r.ads {
		if ad.Live(now) {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *fakeAdRepo) ListForProvider(_ context.Context, providerID uuid.UUID) ([]*model.Ad, error) {
	var out []*model.Ad
	for _, ad := range r.ads {
		if ad.ProviderID == providerID {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *fakeAdRepo) ListPending(_ context.Context) ([]*model.Ad, error) {
	var out []*model.Ad
	for _, ad := range r.ads {
		if ad.Status == model.AdStatusPending {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *fakeAdRepo) ExpireEnded(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, ad := range r.ads {
		if ad.Status == model.AdStatusActive && !now.Before(ad.EndsAt) {
			ad.Status = model.AdStatusExpired
			n++
		}
	}
	return n, nil
}

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

func (r *fakeProviderRepo) Create(_ context.Context, p *model.Provider) error { return nil }

func (r *fakeProviderRepo) Get(_ context.Context, id uuid.UUID) (*model.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, apperrors.NewNotFound("provider")
	}
	return p, nil
}

func (r *fakeProviderRepo) Update(_ context.Context, _ *model.Provider) error { return nil }

func (r *fakeProviderRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeProviderRepo) List(_ context.Context) ([]*model.Provider, error) { return nil, nil }

func (r *fakeProviderRepo) ListByOwner(_ context.Context, _ uuid.UUID) ([]*model.Provider, error) {
	return nil, nil
}

func (r *fakeProviderRepo) UpdateVerificationStatus(_ context.Context, _ uuid.UUID, _ model.VerificationStatus) error {
	return nil
}

func verifiedProvider() *model.Provider {
	owner := uuid.New()
	p := &model.Provider{
		ProviderType:       model.ProviderTypeClinic,
		BusinessName:       "Clinique El Amal",
		Phone:              "+213555000000",
		Address:            "7 Avenue Pasteur",
		VerificationStatus: model.VerificationStatusVerified,
		OwnerUserID:        &owner,
		IsClaimed:          true,
	}
	p.ID = uuid.New()
	return p
}

func ownerOf(p *model.Provider) model.Actor {
	return model.Actor{UserID: *p.OwnerUserID, Role: model.UserRoleProvider}
}

func newAd(providerID uuid.UUID) *model.Ad {
	now := time.Now()
	return &model.Ad{
		ProviderID: providerID,
		Title:      "Bilan complet",
		ImageURL:   "https://img/ad.png",
		StartsAt:   now.Add(time.Hour),
		EndsAt:     now.Add(72 * time.Hour),
	}
}

func TestCreateAd(t *testing.T) {
	provider := verifiedProvider()
	repo := newFakeAdRepo()
	svc := NewService(repo, newFakeProviderRepo(provider))

	ad := newAd(provider.ID)
	require.NoError(t, svc.CreateAd(context.Background(), ownerOf(provider), ad))
	assert.Equal(t, model.AdStatusPending, ad.Status, "new ads await review")
}

func TestCreateAdUnverifiedProvider(t *testing.T) {
	provider := verifiedProvider()
	provider.VerificationStatus = model.VerificationStatusPending
	svc := NewService(newFakeAdRepo(), newFakeProviderRepo(provider))

	err := svc.CreateAd(context.Background(), ownerOf(provider), newAd(provider.ID))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateAdBadWindow(t *testing.T) {
	provider := verifiedProvider()
	svc := NewService(newFakeAdRepo(), newFakeProviderRepo(provider))

	ad := newAd(provider.ID)
	ad.EndsAt = ad.StartsAt
	err := svc.CreateAd(context.Background(), ownerOf(provider), ad)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	past := newAd(provider.ID)
	past.StartsAt = time.Now().Add(-48 * time.Hour)
	past.EndsAt = time.Now().Add(-24 * time.Hour)
	err = svc.CreateAd(context.Background(), ownerOf(provider), past)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestReviewAd(t *testing.T) {
	provider := verifiedProvider()
	repo := newFakeAdRepo()
	svc := NewService(repo, newFakeProviderRepo(provider))

	ad := newAd(provider.ID)
	require.NoError(t, svc.CreateAd(context.Background(), ownerOf(provider), ad))

	approved, err := svc.Review(context.Background(), ad.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.AdStatusActive, approved.Status)

	// A reviewed ad cannot be reviewed again.
	_, err = svc.Review(context.Background(), ad.ID, false)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateAdByNonOwner(t *testing.T) {
	provider := verifiedProvider()
	repo := newFakeAdRepo()
	svc := NewService(repo, newFakeProviderRepo(provider))

	stranger := model.Actor{UserID: uuid.New(), Role: model.UserRoleCitizen}
	err := svc.CreateAd(context.Background(), stranger, newAd(provider.ID))
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Empty(t, repo.ads)
}

func TestDeleteAdByNonOwner(t *testing.T) {
	provider := verifiedProvider()
	repo := newFakeAdRepo()
	svc := NewService(repo, newFakeProviderRepo(provider))

	ad := newAd(provider.ID)
	require.NoError(t, svc.CreateAd(context.Background(), ownerOf(provider), ad))

	stranger := model.Actor{UserID: uuid.New(), Role: model.UserRoleCitizen}
	err := svc.DeleteAd(context.Background(), stranger, ad.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Len(t, repo.ads, 1, "the ad must survive a stranger's delete")

	require.NoError(t, svc.DeleteAd(context.Background(), ownerOf(provider), ad.ID))
	assert.Empty(t, repo.ads)
}

func TestListForProviderRestrictedToOwner(t *testing.T) {
	provider := verifiedProvider()
	repo := newFakeAdRepo()
	svc := NewService(repo, newFakeProviderRepo(provider))

	require.NoError(t, svc.CreateAd(context.Background(), ownerOf(provider), newAd(provider.ID)))

	ads, err := svc.ListForProvider(context.Background(), ownerOf(provider), provider.ID)
	require.NoError(t, err)
	assert.Len(t, ads, 1)

	stranger := model.Actor{UserID: uuid.New(), Role: model.UserRoleCitizen}
	_, err = svc.ListForProvider(context.Background(), stranger, provider.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestListActiveOnlyServesLiveAds(t *testing.T) {
	provider := verifiedProvider()
	repo := newFakeAdRepo()
	svc := NewService(repo, newFakeProviderRepo(provider))

	live := newAd(provider.ID)
	live.StartsAt = time.Now().Add(-time.Hour)
	require.NoError(t, svc.CreateAd(context.Background(), ownerOf(provider), live))
	_, err := svc.Review(context.Background(), live.ID, true)
	require.NoError(t, err)

	pending := newAd(provider.ID)
	require.NoError(t, svc.CreateAd(context.Background(), ownerOf(provider), pending))

	rejected := newAd(provider.ID)
	require.NoError(t, svc.CreateAd(context.Background(), ownerOf(provider), rejected))
	_, err = svc.Review(context.Background(), rejected.ID, false)
	require.NoError(t, err)

	ads, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, live.ID, ads[0].ID)
}
