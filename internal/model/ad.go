package model

import (
	"time"

	"github.com/google/uuid"
)

type AdStatus string

const (
	AdStatusPending  AdStatus = "pending"
	AdStatusActive   AdStatus = "active"
	AdStatusRejected AdStatus = "rejected"
	AdStatusExpired  AdStatus = "expired"
)

// Ad is a promotional banner a provider runs for a bounded window.
// Ads go live only after admin approval.
type Ad struct {
	Base
	ProviderID uuid.UUID `db:"provider_id" json:"provider_id"`
	Title      string    `db:"title" json:"title"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	TargetURL  *string   `db:"target_url" json:"target_url,omitempty"`
	StartsAt   time.Time `db:"starts_at" json:"starts_at"`
	EndsAt     time.Time `db:"ends_at" json:"ends_at"`
	Status     AdStatus  `db:"status" json:"status"`
}

// Live reports whether the ad should be served at the given instant.
func (a *Ad) Live(now time.Time) bool {
	return a.Status == AdStatusActive && !now.Before(a.StartsAt) && now.Before(a.EndsAt)
}

type CreateAdRequest struct {
	Title     string    `json:"title" binding:"required,max=200"`
	ImageURL  string    `json:"image_url" binding:"required,url"`
	TargetURL *string   `json:"target_url" binding:"omitempty,url"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required,gtfield=StartsAt"`
}
