package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cityhealth/directory-api/internal/model"
)

// All repository interfaces in one file
type (
	// ProviderRepository handles directory listing storage
	ProviderRepository interface {
		Create(ctx context.Context, provider *model.Provider) error
		Get(ctx context.Context, id uuid.UUID) (*model.Provider, error)
		Update(ctx context.Context, provider *model.Provider) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Provider, error)
		ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*model.Provider, error)
		UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status model.VerificationStatus) error
	}

	VerificationRepository interface {
		Create(ctx context.Context, request *model.VerificationRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error)
		Update(ctx context.Context, request *model.VerificationRequest) error
		ListPending(ctx context.Context) ([]*model.VerificationRequest, error)
		ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.VerificationRequest, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		CheckConflicts(ctx context.Context, providerID uuid.UUID, startTime, endTime time.Time, excludeID *uuid.UUID) (bool, error)
	}

	AdRepository interface {
		Create(ctx context.Context, ad *model.Ad) error
		Get(ctx context.Context, id uuid.UUID) (*model.Ad, error)
		Update(ctx context.Context, ad *model.Ad) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListActive(ctx context.Context, now time.Time) ([]*model.Ad, error)
		ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.Ad, error)
		ListPending(ctx context.Context) ([]*model.Ad, error)
		ExpireEnded(ctx context.Context, now time.Time) (int64, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
