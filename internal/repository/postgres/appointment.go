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

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, provider_id, patient_user_id, patient_name, patient_phone,
			start_time, end_time, status, notes, cancel_reason, created_at, updated_at
		) VALUES (
			:id, :provider_id, :patient_user_id, :patient_name, :patient_phone,
			:start_time, :end_time, :status, :notes, :cancel_reason, :created_at, :updated_at
		)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, provider_id, patient_user_id, patient_name, patient_phone,
			start_time, end_time, status, notes, cancel_reason, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("appointment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = :start_time, end_time = :end_time, status = :status,
			notes = :notes, cancel_reason = :cancel_reason, updated_at = :updated_at
		WHERE id = :id
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, provider_id, patient_user_id, patient_name, patient_phone,
			start_time, end_time, status, notes, cancel_reason, created_at, updated_at
		FROM appointments
		WHERE ($1::uuid IS NULL OR provider_id = $1)
		AND ($2::uuid IS NULL OR patient_user_id = $2)
		AND (COALESCE($3, '') = '' OR status = $3)
		AND ($4::timestamptz IS NULL OR start_time >= $4)
		AND ($5::timestamptz IS NULL OR start_time < $5)
		ORDER BY start_time ASC
	`
	providerID := nullableUUID(filters.ProviderID)
	patientID := nullableUUID(filters.PatientUserID)
	startDate := nullableTime(filters.StartDate)
	endDate := nullableTime(filters.EndDate)

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query,
		providerID, patientID, string(filters.Status), startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CheckConflicts(ctx context.Context, providerID uuid.UUID, startTime, endTime time.Time, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE provider_id = $1
		AND status IN ('scheduled', 'confirmed')
		AND start_time < $3
		AND end_time > $2
		AND ($4::uuid IS NULL OR id != $4)
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, providerID, startTime, endTime, excludeID); err != nil {
		return false, fmt.Errorf("failed to check appointment conflicts: %w", err)
	}
	return count > 0, nil
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
