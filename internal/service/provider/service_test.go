package provider

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityhealth/directory-api/internal/model"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
)

type fakeRepo struct {
	providers map[uuid.UUID]*model.Provider
	listCalls int
}

func newFakeRepo(ps ...*model.Provider) *fakeRepo {
	r := &fakeRepo{providers: make(map[uuid.UUID]*model.Provider)}
	for _, p := range ps {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.providers[p.ID] = p
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, p *model.Provider) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.providers[p.ID] = p
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, apperrors.NewNotFound("provider")
	}
	return p, nil
}

func (r *fakeRepo) Update(_ context.Context, p *model.Provider) error {
	if _, ok := r.providers[p.ID]; !ok {
		return apperrors.NewNotFound("provider")
	}
	r.providers[p.ID] = p
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.providers[id]; !ok {
		return apperrors.NewNotFound("provider")
	}
	delete(r.providers, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context) ([]*model.Provider, error) {
	r.listCalls++
	out := make([]*model.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, owner uuid.UUID) ([]*model.Provider, error) {
	var out []*model.Provider
	for _, p := range r.providers {
		if p.OwnerUserID != nil && *p.OwnerUserID == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateVerificationStatus(_ context.Context, id uuid.UUID, status model.VerificationStatus) error {
	p, ok := r.providers[id]
	if !ok {
		return apperrors.NewNotFound("provider")
	}
	p.VerificationStatus = status
	return nil
}

func validProvider(name string) *model.Provider {
	return &model.Provider{
		ProviderType: model.ProviderTypeClinic,
		BusinessName: name,
		Phone:        "+213555000000",
		Address:      "1 Rue des Oliviers, Alger",
	}
}

func TestCreateProviderValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	cases := []struct {
		name   string
		mutate func(*model.Provider)
	}{
		{"unknown type", func(p *model.Provider) { p.ProviderType = "spa" }},
		{"missing name", func(p *model.Provider) { p.BusinessName = "" }},
		{"missing phone", func(p *model.Provider) { p.Phone = "" }},
		{"missing address", func(p *model.Provider) { p.Address = "" }},
		{"bad accessibility feature", func(p *model.Provider) { p.AccessibilityFeatures = []string{"teleport"} }},
		{"claimed without owner", func(p *model.Provider) { p.IsClaimed = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProvider("Clinique El Amal")
			tc.mutate(p)
			err := svc.CreateProvider(context.Background(), p)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestCreateProviderOK(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	p := validProvider("Clinique El Amal")
	p.AccessibilityFeatures = []string{model.AccessibilityRamp}
	require.NoError(t, svc.CreateProvider(context.Background(), p))
	assert.Len(t, repo.providers, 1)
}

func TestSearchProvidersUsesCache(t *testing.T) {
	repo := newFakeRepo(validProvider("Clinique El Amal"))
	svc := NewService(repo, nil)

	_, err := svc.SearchProviders(context.Background(), "", nil)
	require.NoError(t, err)
	_, err = svc.SearchProviders(context.Background(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls, "second search must hit the cache")
}

func TestSearchProvidersCacheInvalidatedOnWrite(t *testing.T) {
	repo := newFakeRepo(validProvider("Clinique El Amal"))
	svc := NewService(repo, nil)

	results, err := svc.SearchProviders(context.Background(), "", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NoError(t, svc.CreateProvider(context.Background(), validProvider("Pharmacie Centrale")))

	results, err = svc.SearchProviders(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Len(t, results, 2, "writes must invalidate the listing cache")
}

func TestSearchProvidersFilters(t *testing.T) {
	clinic := validProvider("Clinique El Amal")
	pharmacy := validProvider("Pharmacie Centrale")
	pharmacy.ProviderType = model.ProviderTypePharmacy
	repo := newFakeRepo(clinic, pharmacy)
	svc := NewService(repo, nil)

	results, err := svc.SearchProviders(context.Background(), "pharmacie", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Pharmacie Centrale", results[0].BusinessName)
}

func TestClaimProvider(t *testing.T) {
	listing := validProvider("Cabinet Dr. Merabet")
	listing.IsPreloaded = true
	repo := newFakeRepo(listing)
	svc := NewService(repo, nil)

	userID := uuid.New()
	claimed, err := svc.ClaimProvider(context.Background(), listing.ID, userID)
	require.NoError(t, err)

	assert.True(t, claimed.IsClaimed)
	assert.False(t, claimed.IsPreloaded)
	require.NotNil(t, claimed.OwnerUserID)
	assert.Equal(t, userID, *claimed.OwnerUserID)
}

func TestClaimProviderAlreadyClaimed(t *testing.T) {
	owner := uuid.New()
	listing := validProvider("Cabinet Dr. Merabet")
	listing.IsClaimed = true
	listing.OwnerUserID = &owner
	repo := newFakeRepo(listing)
	svc := NewService(repo, nil)

	_, err := svc.ClaimProvider(context.Background(), listing.ID, uuid.New())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestImportProvidersSkipsInvalidRows(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	rows := []model.ProviderImportRow{
		{ProviderType: model.ProviderTypeDoctor, BusinessName: "Cabinet A", Phone: "+213555", Address: "Rue 1"},
		{ProviderType: "spa", BusinessName: "Bad Row", Phone: "+213555", Address: "Rue 2"},
		{ProviderType: model.ProviderTypePharmacy, BusinessName: "", Phone: "+213555", Address: "Rue 3"},
		{ProviderType: model.ProviderTypeClinic, BusinessName: "Clinique B", Phone: "+213556", Address: "Rue 4"},
	}

	created, err := svc.ImportProviders(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Len(t, repo.providers, 2)

	for _, p := range repo.providers {
		assert.True(t, p.IsPreloaded)
		assert.False(t, p.IsClaimed)
	}
}

func ownedProvider(name string) (*model.Provider, model.Actor) {
	owner := uuid.New()
	p := validProvider(name)
	p.OwnerUserID = &owner
	p.IsClaimed = true
	return p, model.Actor{UserID: owner, Role: model.UserRoleProvider}
}

func TestAddAndRemovePhoto(t *testing.T) {
	listing, owner := ownedProvider("Cabinet Dr. Merabet")
	repo := newFakeRepo(listing)
	svc := NewService(repo, nil)

	require.NoError(t, svc.AddPhoto(context.Background(), owner, listing.ID, "https://img/1.jpg"))
	require.NoError(t, svc.AddPhoto(context.Background(), owner, listing.ID, "https://img/1.jpg"), "duplicate add is a no-op")
	require.NoError(t, svc.AddPhoto(context.Background(), owner, listing.ID, "https://img/2.jpg"))
	assert.Len(t, listing.Photos, 2)

	require.NoError(t, svc.RemovePhoto(context.Background(), owner, listing.ID, "https://img/1.jpg"))
	require.Len(t, listing.Photos, 1)
	assert.Equal(t, "https://img/2.jpg", listing.Photos[0])
}

func TestPhotoMutationRequiresOwner(t *testing.T) {
	listing, _ := ownedProvider("Cabinet Dr. Merabet")
	repo := newFakeRepo(listing)
	svc := NewService(repo, nil)

	stranger := model.Actor{UserID: uuid.New(), Role: model.UserRoleProvider}
	err := svc.AddPhoto(context.Background(), stranger, listing.ID, "https://img/other.jpg")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	assert.Empty(t, listing.Photos, "a non-owner must not touch the gallery")

	err = svc.RemovePhoto(context.Background(), stranger, listing.ID, "https://img/other.jpg")
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))

	// Admins moderate any listing.
	admin := model.Actor{UserID: uuid.New(), Role: model.UserRoleAdmin}
	require.NoError(t, svc.AddPhoto(context.Background(), admin, listing.ID, "https://img/ok.jpg"))
	assert.Len(t, listing.Photos, 1)
}

func TestAddPhotoRequiresURL(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	actor := model.Actor{UserID: uuid.New(), Role: model.UserRoleProvider}
	err := svc.AddPhoto(context.Background(), actor, uuid.New(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
