package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleCitizen  UserRole = "citizen"
	UserRoleProvider UserRole = "provider"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Email        string   `db:"email" json:"email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Name         string   `db:"name" json:"name"`
	Role         UserRole `db:"role" json:"role"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=citizen provider"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   UserRole  `json:"role"`
}

// Actor is the authenticated caller of a request, as asserted by its token.
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}

// CanManage reports whether the actor may act on a listing: its owner, or
// an admin. Unclaimed listings have no owner and only admins pass.
func (a Actor) CanManage(p *Provider) bool {
	if a.IsAdmin() {
		return true
	}
	return p.OwnerUserID != nil && *p.OwnerUserID == a.UserID
}
