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

type verificationRepository struct {
	BaseRepository
}

func NewVerificationRepository(base BaseRepository) repository.VerificationRepository {
	return &verificationRepository{base}
}

const verificationColumns = `
	id, provider_id, user_id, document_type, document_urls, status,
	rejection_reason, reviewed_by, reviewed_at, created_at
`

func (r *verificationRepository) Create(ctx context.Context, request *model.VerificationRequest) error {
	query := `
		INSERT INTO verification_requests (
			id, provider_id, user_id, document_type, document_urls, status,
			rejection_reason, reviewed_by, reviewed_at, created_at
		) VALUES (
			:id, :provider_id, :user_id, :document_type, :document_urls, :status,
			:rejection_reason, :reviewed_by, :reviewed_at, :created_at
		)
	`
	request.ID = uuid.New()
	request.CreatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("failed to create verification request: %w", err)
	}
	return nil
}

func (r *verificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error) {
	query := `SELECT ` + verificationColumns + ` FROM verification_requests WHERE id = $1`

	var request model.VerificationRequest
	err := r.db.GetContext(ctx, &request, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("verification request")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification request: %w", err)
	}
	return &request, nil
}

// Update rewrites the review fields wholesale: the service layer owns the
// invariant that rejection_reason is cleared on non-rejected statuses, so
// nil values here must overwrite whatever was stored.
func (r *verificationRepository) Update(ctx context.Context, request *model.VerificationRequest) error {
	query := `
		UPDATE verification_requests
		SET status = :status, rejection_reason = :rejection_reason,
			reviewed_by = :reviewed_by, reviewed_at = :reviewed_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, request)
	if err != nil {
		return fmt.Errorf("failed to update verification request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("verification request")
	}
	return nil
}

func (r *verificationRepository) ListPending(ctx context.Context) ([]*model.VerificationRequest, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verification_requests
		WHERE status = $1
		ORDER BY created_at ASC
	`
	var requests []*model.VerificationRequest
	if err := r.db.SelectContext(ctx, &requests, query, model.VerificationStatusPending); err != nil {
		return nil, fmt.Errorf("failed to list pending verification requests: %w", err)
	}
	return requests, nil
}

func (r *verificationRepository) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.VerificationRequest, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verification_requests
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`
	var requests []*model.VerificationRequest
	if err := r.db.SelectContext(ctx, &requests, query, providerID); err != nil {
		return nil, fmt.Errorf("failed to list verification requests: %w", err)
	}
	return requests, nil
}
