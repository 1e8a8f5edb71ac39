package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of platform roles
type Role string

const (
	RoleDonor     Role = "donor"
	RoleHospital  Role = "hospital"
	RoleBloodBank Role = "blood_bank"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the four platform roles
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleHospital, RoleBloodBank, RoleAdmin:
		return true
	}
	return false
}

// CanRespond reports whether the role may act on an emergency request.
// Only medical facilities respond; donors and admins see read-only status.
func (r Role) CanRespond() bool {
	return r == RoleHospital || r == RoleBloodBank
}

// Profile is the identity record joined into dashboard views
type Profile struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	Role             Role       `json:"role" db:"role"`
	FullName         string     `json:"full_name" db:"full_name"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Phone            *string    `json:"phone,omitempty" db:"phone"`
	OrganizationName *string    `json:"organization_name,omitempty" db:"organization_name"`
	Address          *string    `json:"address,omitempty" db:"address"`
	BloodType        *BloodType `json:"blood_type,omitempty" db:"blood_type"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// ProviderInfo is the subset of a profile rendered next to inventory rows
type ProviderInfo struct {
	FullName         string  `json:"full_name" db:"provider_full_name"`
	OrganizationName *string `json:"organization_name,omitempty" db:"provider_organization_name"`
	Phone            *string `json:"phone,omitempty" db:"provider_phone"`
	Address          *string `json:"address,omitempty" db:"provider_address"`
}

// RequesterInfo is the subset of a profile rendered next to SOS requests
type RequesterInfo struct {
	FullName         string  `json:"full_name" db:"requester_full_name"`
	OrganizationName *string `json:"organization_name,omitempty" db:"requester_organization_name"`
	Phone            *string `json:"phone,omitempty" db:"requester_phone"`
}
