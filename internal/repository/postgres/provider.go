package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cityhealth/directory-api/internal/model"
	"github.com/cityhealth/directory-api/internal/repository"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
)

type providerRepository struct {
	BaseRepository
}

func NewProviderRepository(base BaseRepository) repository.ProviderRepository {
	return &providerRepository{base}
}

const providerColumns = `
	id, owner_user_id, provider_type, specialty_id, business_name, phone,
	email, address, city, latitude, longitude, description, avatar_url,
	cover_image_url, website, photos, verification_status, is_emergency,
	is_preloaded, is_claimed, accessibility_features, home_visit_available,
	created_at, updated_at
`

func (r *providerRepository) Create(ctx context.Context, provider *model.Provider) error {
	query := `
		INSERT INTO providers (
			id, owner_user_id, provider_type, specialty_id, business_name, phone,
			email, address, city, latitude, longitude, description, avatar_url,
			cover_image_url, website, photos, verification_status, is_emergency,
			is_preloaded, is_claimed, accessibility_features, home_visit_available,
			created_at, updated_at
		) VALUES (
			:id, :owner_user_id, :provider_type, :specialty_id, :business_name, :phone,
			:email, :address, :city, :latitude, :longitude, :description, :avatar_url,
			:cover_image_url, :website, :photos, :verification_status, :is_emergency,
			:is_preloaded, :is_claimed, :accessibility_features, :home_visit_available,
			:created_at, :updated_at
		)
	`
	provider.ID = uuid.New()
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, provider); err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *providerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`

	var provider model.Provider
	err := r.db.GetContext(ctx, &provider, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("provider")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &provider, nil
}

func (r *providerRepository) Update(ctx context.Context, provider *model.Provider) error {
	query := `
		UPDATE providers
		SET owner_user_id = :owner_user_id, provider_type = :provider_type,
			specialty_id = :specialty_id, business_name = :business_name,
			phone = :phone, email = :email, address = :address, city = :city,
			latitude = :latitude, longitude = :longitude, description = :description,
			avatar_url = :avatar_url, cover_image_url = :cover_image_url,
			website = :website, photos = :photos,
			verification_status = :verification_status, is_emergency = :is_emergency,
			is_preloaded = :is_preloaded, is_claimed = :is_claimed,
			accessibility_features = :accessibility_features,
			home_visit_available = :home_visit_available, updated_at = :updated_at
		WHERE id = :id
	`
	provider.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, provider)
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("provider")
	}
	return nil
}

func (r *providerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM providers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("provider")
	}
	return nil
}

// List returns all listings ordered by display name; the in-memory search
// engine expects this ordering and preserves it through filtering.
func (r *providerRepository) List(ctx context.Context) ([]*model.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers ORDER BY business_name ASC`

	var providers []*model.Provider
	if err := r.db.SelectContext(ctx, &providers, query); err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

func (r *providerRepository) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*model.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE owner_user_id = $1 ORDER BY business_name ASC`

	var providers []*model.Provider
	if err := r.db.SelectContext(ctx, &providers, query, ownerUserID); err != nil {
		return nil, fmt.Errorf("failed to list providers by owner: %w", err)
	}
	return providers, nil
}

func (r *providerRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status model.VerificationStatus) error {
	query := `UPDATE providers SET verification_status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update verification status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("provider")
	}
	return nil
}
