package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Directory event types drained through the outbox.
const (
	EventProviderCreate     = "PROVIDER_CREATE"
	EventProviderUpdate     = "PROVIDER_UPDATE"
	EventProviderDelete     = "PROVIDER_DELETE"
	EventProviderClaim      = "PROVIDER_CLAIM"
	EventVerificationSubmit = "VERIFICATION_SUBMIT"
	EventVerificationReview = "VERIFICATION_REVIEW"
	EventAppointmentBook    = "APPOINTMENT_BOOK"
	EventAppointmentCancel  = "APPOINTMENT_CANCEL"
	EventAdCreate           = "AD_CREATE"
	EventAdReview           = "AD_REVIEW"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}
