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

type adRepository struct {
	BaseRepository
}

func NewAdRepository(base BaseRepository) repository.AdRepository {
	return &adRepository{base}
}

func (r *adRepository) Create(ctx context.Context, ad *model.Ad) error {
	query := `
		INSERT INTO ads (
			id, provider_id, title, image_url, target_url, starts_at, ends_at,
			status, created_at, updated_at
		) VALUES (
			:id, :provider_id, :title, :image_url, :target_url, :starts_at, :ends_at,
			:status, :created_at, :updated_at
		)
	`
	ad.ID = uuid.New()
	ad.CreatedAt = time.Now()
	ad.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, ad); err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

func (r *adRepository) Get(ctx context.Context, id uuid.UUID) (*model.Ad, error) {
	query := `
		SELECT id, provider_id, title, image_url, target_url, starts_at, ends_at,
			status, created_at, updated_at
		FROM ads
		WHERE id = $1
	`
	var ad model.Ad
	err := r.db.GetContext(ctx, &ad, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("ad")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ad: %w", err)
	}
	return &ad, nil
}

func (r *adRepository) Update(ctx context.Context, ad *model.Ad) error {
	query := `
		UPDATE ads
		SET title = :title, image_url = :image_url, target_url = :target_url,
			starts_at = :starts_at, ends_at = :ends_at, status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`
	ad.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, ad)
	if err != nil {
		return fmt.Errorf("failed to update ad: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("ad")
	}
	return nil
}

func (r *adRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM ads WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete ad: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("ad")
	}
	return nil
}

func (r *adRepository) ListActive(ctx context.Context, now time.Time) ([]*model.Ad, error) {
	query := `
		SELECT id, provider_id, title, image_url, target_url, starts_at, ends_at,
			status, created_at, updated_at
		FROM ads
		WHERE status = $1 AND starts_at <= $2 AND ends_at > $2
		ORDER BY starts_at DESC
	`
	var ads []*model.Ad
	if err := r.db.SelectContext(ctx, &ads, query, model.AdStatusActive, now); err != nil {
		return nil, fmt.Errorf("failed to list active ads: %w", err)
	}
	return ads, nil
}

func (r *adRepository) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Ad, error) {
	query := `
		SELECT id, provider_id, title, image_url, target_url, starts_at, ends_at,
			status, created_at, updated_at
		FROM ads
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`
	var ads []*model.Ad
	if err := r.db.SelectContext(ctx, &ads, query, providerID); err != nil {
		return nil, fmt.Errorf("failed to list provider ads: %w", err)
	}
	return ads, nil
}

func (r *adRepository) ListPending(ctx context.Context) ([]*model.Ad, error) {
	query := `
		SELECT id, provider_id, title, image_url, target_url, starts_at, ends_at,
			status, created_at, updated_at
		FROM ads
		WHERE status = $1
		ORDER BY created_at ASC
	`
	var ads []*model.Ad
	if err := r.db.SelectContext(ctx, &ads, query, model.AdStatusPending); err != nil {
		return nil, fmt.Errorf("failed to list pending ads: %w", err)
	}
	return ads, nil
}

func (r *adRepository) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE ads SET status = $1, updated_at = $2 WHERE status = $3 AND ends_at <= $2`

	result, err := r.db.ExecContext(ctx, query, model.AdStatusExpired, now, model.AdStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to expire ads: %w", err)
	}
	return result.RowsAffected()
}
