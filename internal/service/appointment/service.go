package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cityhealth/directory-api/internal/model"
	"github.com/cityhealth/directory-api/internal/repository"
	apperrors "github.com/cityhealth/directory-api/pkg/errors"
)

type AppointmentServicer interface {
	Book(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, actor model.Actor, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	Confirm(ctx context.Context, actor model.Actor, id uuid.UUID) error
	Cancel(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) error
	Complete(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type Service struct {
	repo         repository.AppointmentRepository
	providerRepo repository.ProviderRepository
}

func NewService(repo repository.AppointmentRepository, providerRepo repository.ProviderRepository) *Service {
	return &Service{
		repo:         repo,
		providerRepo: providerRepo,
	}
}

func (s *Service) Book(ctx context.Context, appointment *model.Appointment) error {
	if appointment.StartTime.Before(time.Now()) {
		return apperrors.NewValidation("appointment must be in the future")
	}
	if !appointment.EndTime.After(appointment.StartTime) {
		return apperrors.NewValidation("appointment end must be after start")
	}

	// Booking targets a real listing.
	if _, err := s.providerRepo.Get(ctx, appointment.ProviderID); err != nil {
		return err
	}

	conflict, err := s.repo.CheckConflicts(ctx, appointment.ProviderID, appointment.StartTime, appointment.EndTime, nil)
	if err != nil {
		return fmt.Errorf("failed to check conflicts: %w", err)
	}
	if conflict {
		return apperrors.NewConflict("the provider already has an appointment in this time slot")
	}

	appointment.Status = model.AppointmentStatusScheduled
	if err := s.repo.Create(ctx, appointment); err != nil {
		return fmt.Errorf("failed to book appointment: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, appointment, true); err != nil {
		return nil, err
	}
	return appointment, nil
}

// List scopes results to what the actor may see: admins list freely, the
// listing owner lists their own provider's bookings, everyone else gets
// only appointments they booked themselves.
func (s *Service) List(ctx context.Context, actor model.Actor, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if !actor.IsAdmin() {
		if filters.ProviderID != uuid.Nil {
			provider, err := s.providerRepo.Get(ctx, filters.ProviderID)
			if err != nil {
				return nil, err
			}
			if !actor.CanManage(provider) {
				return nil, apperrors.NewForbidden("only the listing owner can view its appointments")
			}
		} else {
			filters.PatientUserID = actor.UserID
		}
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) Confirm(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return s.transition(ctx, actor, id, model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed)
}

func (s *Service) Cancel(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) error {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, appointment, true); err != nil {
		return err
	}
	if appointment.Status == model.AppointmentStatusCancelled ||
		appointment.Status == model.AppointmentStatusCompleted {
		return apperrors.NewValidation(fmt.Sprintf("cannot cancel a %s appointment", appointment.Status))
	}

	appointment.Status = model.AppointmentStatusCancelled
	if reason != "" {
		appointment.CancelReason = &reason
	}
	if err := s.repo.Update(ctx, appointment); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return nil
}

func (s *Service) Complete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return s.transition(ctx, actor, id, model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted)
}

// transition moves an appointment between statuses. Confirm and complete
// are provider-side actions, so the patient is not a valid actor here.
func (s *Service) transition(ctx context.Context, actor model.Actor, id uuid.UUID, from, to model.AppointmentStatus) error {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, appointment, false); err != nil {
		return err
	}
	if appointment.Status != from {
		return apperrors.NewValidation(fmt.Sprintf("appointment is %s, expected %s", appointment.Status, from))
	}

	appointment.Status = to
	if err := s.repo.Update(ctx, appointment); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

// authorize gates access to an appointment. Admins always pass; the booking
// patient passes when patientOK; otherwise the actor must own the listing
// the appointment was booked with.
func (s *Service) authorize(ctx context.Context, actor model.Actor, appointment *model.Appointment, patientOK bool) error {
	if actor.IsAdmin() {
		return nil
	}
	if patientOK && appointment.PatientUserID == actor.UserID {
		return nil
	}

	provider, err := s.providerRepo.Get(ctx, appointment.ProviderID)
	if err != nil {
		return err
	}
	if actor.CanManage(provider) {
		return nil
	}
	return apperrors.NewForbidden("not a party to this appointment")
}
