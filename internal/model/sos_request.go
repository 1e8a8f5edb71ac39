package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BloodType is one of the eight ABO/Rh groups
type BloodType string

const (
	BloodAPos  BloodType = "A+"
	BloodANeg  BloodType = "A-"
	BloodBPos  BloodType = "B+"
	BloodBNeg  BloodType = "B-"
	BloodABPos BloodType = "AB+"
	BloodABNeg BloodType = "AB-"
	BloodOPos  BloodType = "O+"
	BloodONeg  BloodType = "O-"
)

// BloodTypes lists the eight valid groups
var BloodTypes = []BloodType{
	BloodAPos, BloodANeg, BloodBPos, BloodBNeg,
	BloodABPos, BloodABNeg, BloodOPos, BloodONeg,
}

// Valid reports whether b is a recognized blood group
func (b BloodType) Valid() bool {
	for _, t := range BloodTypes {
		if b == t {
			return true
		}
	}
	return false
}

// OrganType is one of the nine organ categories
type OrganType string

const (
	OrganKidney     OrganType = "kidney"
	OrganLiver      OrganType = "liver"
	OrganHeart      OrganType = "heart"
	OrganLung       OrganType = "lung"
	OrganPancreas   OrganType = "pancreas"
	OrganCornea     OrganType = "cornea"
	OrganBoneMarrow OrganType = "bone_marrow"
	OrganSkin       OrganType = "skin"
	OrganBone       OrganType = "bone"
)

// OrganTypes lists the nine valid categories
var OrganTypes = []OrganType{
	OrganKidney, OrganLiver, OrganHeart, OrganLung, OrganPancreas,
	OrganCornea, OrganBoneMarrow, OrganSkin, OrganBone,
}

// Valid reports whether o is a recognized organ category
func (o OrganType) Valid() bool {
	for _, t := range OrganTypes {
		if o == t {
			return true
		}
	}
	return false
}

// SOSPriority orders requests by urgency, critical highest
type SOSPriority string

const (
	PriorityLow      SOSPriority = "low"
	PriorityMedium   SOSPriority = "medium"
	PriorityHigh     SOSPriority = "high"
	PriorityCritical SOSPriority = "critical"
)

// Rank returns the urgency ordering of a priority, critical highest.
// Unknown values rank below low.
func (p SOSPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Badge describes how a priority or status renders
type Badge struct {
	Label    string `json:"label"`
	Variant  string `json:"variant"`
	Emphasis bool   `json:"emphasis"`
}

// Badge maps a priority to its urgency tier badge. Critical carries the
// emphasis flag so it is always distinguishable from the other tiers.
func (p SOSPriority) Badge() Badge {
	switch p {
	case PriorityCritical:
		return Badge{Label: "CRITICAL PRIORITY", Variant: "critical", Emphasis: true}
	case PriorityHigh:
		return Badge{Label: "HIGH PRIORITY", Variant: "urgent"}
	case PriorityMedium:
		return Badge{Label: "MEDIUM PRIORITY", Variant: "warning"}
	case PriorityLow:
		return Badge{Label: "LOW PRIORITY", Variant: "default"}
	default:
		return Badge{Label: "PRIORITY", Variant: "default"}
	}
}

// SOSStatus is the lifecycle state of an emergency request
type SOSStatus string

const (
	StatusActive       SOSStatus = "active"
	StatusAcknowledged SOSStatus = "acknowledged"
	StatusResponding   SOSStatus = "responding"
	StatusResolved     SOSStatus = "resolved"
	StatusCancelled    SOSStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions
func (s SOSStatus) Terminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// CanTransition reports whether the lifecycle permits moving from s to next.
// Transitions are monotonic toward a terminal state.
func (s SOSStatus) CanTransition(next SOSStatus) bool {
	switch s {
	case StatusActive:
		return next == StatusAcknowledged || next == StatusResponding || next == StatusCancelled
	case StatusAcknowledged, StatusResponding:
		return next == StatusResolved
	default:
		return false
	}
}

// Badge maps a status to one of the five fixed badge states. Values outside
// the closed set fall back to a default bucket rather than failing render.
func (s SOSStatus) Badge() Badge {
	switch s {
	case StatusActive:
		return Badge{Label: "ACTIVE", Variant: "active"}
	case StatusAcknowledged:
		return Badge{Label: "ACKNOWLEDGED", Variant: "pending"}
	case StatusResponding:
		return Badge{Label: "RESPONDING", Variant: "success"}
	case StatusResolved:
		return Badge{Label: "RESOLVED", Variant: "success"}
	case StatusCancelled:
		return Badge{Label: "CANCELLED", Variant: "destructive"}
	default:
		return Badge{Label: "UNKNOWN", Variant: "default"}
	}
}

// SOSAction is a user-initiated action on a request
type SOSAction string

const (
	ActionAcknowledge SOSAction = "acknowledge"
	ActionRespond     SOSAction = "respond"
)

// SOSRequest is one emergency request. Exactly one of BloodType/OrganType is
// the need fact rendered; both may be present in stored data.
type SOSRequest struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	RequesterID  uuid.UUID      `json:"requester_id" db:"requester_id"`
	PatientName  string         `json:"patient_name" db:"patient_name"`
	PatientAge   *int           `json:"patient_age,omitempty" db:"patient_age"`
	BloodType    *BloodType     `json:"blood_type,omitempty" db:"blood_type"`
	OrganType    *OrganType     `json:"organ_type,omitempty" db:"organ_type"`
	Priority     SOSPriority    `json:"priority" db:"priority"`
	Status       SOSStatus      `json:"status" db:"status"`
	LocationName string         `json:"location_name" db:"location_name"`
	ContactPhone string         `json:"contact_phone" db:"contact_phone"`
	Description  *string        `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	Requester    *RequesterInfo `json:"requester,omitempty" db:"-"`
}

// Need returns the single need fact shown for the request
func (r *SOSRequest) Need() string {
	if r.BloodType != nil {
		return string(*r.BloodType)
	}
	if r.OrganType != nil {
		return string(*r.OrganType)
	}
	return ""
}

// AllowedActions returns the actions the viewer may take on the request.
// Both actions require an active request and a responding-capable role;
// terminal and in-flight statuses render no controls.
func (r *SOSRequest) AllowedActions(role Role) []SOSAction {
	if r.Status != StatusActive || !role.CanRespond() {
		return nil
	}
	return []SOSAction{ActionAcknowledge, ActionRespond}
}

// ElapsedLabel buckets the age of the request relative to now: minutes under
// an hour, hours under a day, days beyond. Always floor division, always
// computed at call time.
func (r *SOSRequest) ElapsedLabel(now time.Time) string {
	minutes := int(now.Sub(r.CreatedAt).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%d hours ago", minutes/60)
	default:
		return fmt.Sprintf("%d days ago", minutes/1440)
	}
}
