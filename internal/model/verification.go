package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// VerificationRequest is a provider's bid to move from pending/unverified
// toward verified. Requests are reviewed once; a rejected provider starts a
// fresh request, the old one is kept for history.
type VerificationRequest struct {
	ID              uuid.UUID          `db:"id" json:"id"`
	ProviderID      uuid.UUID          `db:"provider_id" json:"provider_id"`
	UserID          uuid.UUID          `db:"user_id" json:"user_id"`
	DocumentType    string             `db:"document_type" json:"document_type"`
	DocumentURLs    pq.StringArray     `db:"document_urls" json:"document_urls"`
	Status          VerificationStatus `db:"status" json:"status"`
	RejectionReason *string            `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ReviewedBy      *uuid.UUID         `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time         `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
}

type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

type SubmitVerificationRequest struct {
	DocumentType string   `json:"document_type" binding:"required"`
	DocumentURLs []string `json:"document_urls" binding:"required,min=1"`
}

type ReviewVerificationRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}
