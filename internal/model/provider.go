package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProviderType string

const (
	ProviderTypeDoctor     ProviderType = "doctor"
	ProviderTypeClinic     ProviderType = "clinic"
	ProviderTypeHospital   ProviderType = "hospital"
	ProviderTypePharmacy   ProviderType = "pharmacy"
	ProviderTypeLaboratory ProviderType = "laboratory"
)

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// Accessibility feature vocabulary. Anything outside this set is rejected
// at the storage boundary.
const (
	AccessibilityWheelchair         = "wheelchair"
	AccessibilityParking            = "parking"
	AccessibilityElevator           = "elevator"
	AccessibilityRamp               = "ramp"
	AccessibilityAccessibleRestroom = "accessible_restroom"
	AccessibilityBraille            = "braille"
	AccessibilitySignLanguage       = "sign_language"
)

var AccessibilityFeatures = []string{
	AccessibilityWheelchair,
	AccessibilityParking,
	AccessibilityElevator,
	AccessibilityRamp,
	AccessibilityAccessibleRestroom,
	AccessibilityBraille,
	AccessibilitySignLanguage,
}

// Provider is a healthcare business listing: a doctor's practice, clinic,
// hospital, pharmacy or laboratory. Preloaded listings are seeded by admins
// and have no owner until claimed.
type Provider struct {
	Base
	OwnerUserID           *uuid.UUID         `db:"owner_user_id" json:"owner_user_id,omitempty"`
	ProviderType          ProviderType       `db:"provider_type" json:"provider_type"`
	SpecialtyID           *string            `db:"specialty_id" json:"specialty_id,omitempty"`
	BusinessName          string             `db:"business_name" json:"business_name"`
	Phone                 string             `db:"phone" json:"phone"`
	Email                 *string            `db:"email" json:"email,omitempty"`
	Address               string             `db:"address" json:"address"`
	City                  *string            `db:"city" json:"city,omitempty"`
	Latitude              *float64           `db:"latitude" json:"latitude,omitempty"`
	Longitude             *float64           `db:"longitude" json:"longitude,omitempty"`
	Description           *string            `db:"description" json:"description,omitempty"`
	AvatarURL             *string            `db:"avatar_url" json:"avatar_url,omitempty"`
	CoverImageURL         *string            `db:"cover_image_url" json:"cover_image_url,omitempty"`
	Website               *string            `db:"website" json:"website,omitempty"`
	Photos                pq.StringArray     `db:"photos" json:"photos"`
	VerificationStatus    VerificationStatus `db:"verification_status" json:"verification_status,omitempty"`
	IsEmergency           bool               `db:"is_emergency" json:"is_emergency"`
	IsPreloaded           bool               `db:"is_preloaded" json:"is_preloaded"`
	IsClaimed             bool               `db:"is_claimed" json:"is_claimed"`
	AccessibilityFeatures pq.StringArray     `db:"accessibility_features" json:"accessibility_features"`
	HomeVisitAvailable    bool               `db:"home_visit_available" json:"home_visit_available"`
}

// ProfileComplete reports whether the listing carries enough data to be
// submitted for verification.
func (p *Provider) ProfileComplete() bool {
	return p.BusinessName != "" && p.Phone != "" && p.Address != "" && p.ProviderType != ""
}

func ValidProviderType(t ProviderType) bool {
	switch t {
	case ProviderTypeDoctor, ProviderTypeClinic, ProviderTypeHospital,
		ProviderTypePharmacy, ProviderTypeLaboratory:
		return true
	}
	return false
}

func ValidVerificationStatus(s VerificationStatus) bool {
	switch s {
	case VerificationStatusPending, VerificationStatusVerified, VerificationStatusRejected:
		return true
	}
	return false
}

func ValidAccessibilityFeature(f string) bool {
	for _, known := range AccessibilityFeatures {
		if f == known {
			return true
		}
	}
	return false
}

type CreateProviderRequest struct {
	ProviderType          string   `json:"provider_type" binding:"required,oneof=doctor clinic hospital pharmacy laboratory"`
	BusinessName          string   `json:"business_name" binding:"required"`
	Phone                 string   `json:"phone" binding:"required"`
	Email                 *string  `json:"email" binding:"omitempty,email"`
	Address               string   `json:"address" binding:"required"`
	City                  *string  `json:"city"`
	SpecialtyID           *string  `json:"specialty_id"`
	Latitude              *float64 `json:"latitude"`
	Longitude             *float64 `json:"longitude"`
	Description           *string  `json:"description"`
	Website               *string  `json:"website"`
	IsEmergency           bool     `json:"is_emergency"`
	AccessibilityFeatures []string `json:"accessibility_features"`
	HomeVisitAvailable    bool     `json:"home_visit_available"`
}

type UpdateProviderRequest struct {
	BusinessName          *string  `json:"business_name"`
	Phone                 *string  `json:"phone"`
	Email                 *string  `json:"email"`
	Address               *string  `json:"address"`
	City                  *string  `json:"city"`
	SpecialtyID           *string  `json:"specialty_id"`
	Latitude              *float64 `json:"latitude"`
	Longitude             *float64 `json:"longitude"`
	Description           *string  `json:"description"`
	AvatarURL             *string  `json:"avatar_url"`
	CoverImageURL         *string  `json:"cover_image_url"`
	Website               *string  `json:"website"`
	IsEmergency           *bool    `json:"is_emergency"`
	AccessibilityFeatures []string `json:"accessibility_features"`
	HomeVisitAvailable    *bool    `json:"home_visit_available"`
}

// ProviderImportRow is one listing in an admin bulk import. Imported rows
// become preloaded, unclaimed listings.
type ProviderImportRow struct {
	ProviderType ProviderType `json:"provider_type"`
	BusinessName string       `json:"business_name"`
	Phone        string       `json:"phone"`
	Address      string       `json:"address"`
	City         *string      `json:"city"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	IsEmergency  bool         `json:"is_emergency"`
}
