package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityhealth/directory-api/internal/model"
	pkgauth "github.com/cityhealth/directory-api/pkg/auth"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
	"github.com/cityhealth/directory-api/pkg/logger"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFound("user")
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func newTestService(repo *fakeUserRepo) *Service {
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	return NewService(repo, jwtSvc, nil, logger.NewLogger(nil))
}

func registerReq() *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:    "amine@example.dz",
		Password: "s3cret-pass",
		Name:     "Amine B.",
	}
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	assert.Equal(t, model.UserRoleCitizen, user.Role, "default role is citizen")
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestRegisterProviderRole(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	req := registerReq()
	req.Role = "provider"
	user, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleProvider, user.Role)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "amine@example.dz", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.UserRoleCitizen, claims.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "amine@example.dz", "wrong-pass")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)

	_, err = svc.Login(context.Background(), "nobody@example.dz", "s3cret-pass")
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestRefresh(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "amine@example.dz", "s3cret-pass")
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)

	// An access token is not a refresh token.
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.Error(t, err)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	req := registerReq()
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
