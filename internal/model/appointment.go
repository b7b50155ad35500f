package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	Base
	ProviderID    uuid.UUID         `db:"provider_id" json:"provider_id"`
	PatientUserID uuid.UUID         `db:"patient_user_id" json:"patient_user_id"`
	PatientName   string            `db:"patient_name" json:"patient_name"`
	PatientPhone  string            `db:"patient_phone" json:"patient_phone"`
	StartTime     time.Time         `db:"start_time" json:"start_time"`
	EndTime       time.Time         `db:"end_time" json:"end_time"`
	Status        AppointmentStatus `db:"status" json:"status"`
	Notes         string            `db:"notes" json:"notes,omitempty"`
	CancelReason  *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type BookAppointmentRequest struct {
	ProviderID   string    `json:"provider_id" binding:"required,uuid"`
	PatientName  string    `json:"patient_name" binding:"required"`
	PatientPhone string    `json:"patient_phone" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
	Notes        string    `json:"notes" binding:"max=1000"`
}

type AppointmentFilters struct {
	ProviderID    uuid.UUID
	PatientUserID uuid.UUID
	Status        AppointmentStatus
	StartDate     time.Time
	EndDate       time.Time
}
