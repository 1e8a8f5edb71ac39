package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType is the closed set of feed categories. It drives both the
// display label and the filter bucket.
type NotificationType string

const (
	TypeBloodRequest NotificationType = "blood_request"
	TypeBloodDrive   NotificationType = "blood_drive"
	TypeReminder     NotificationType = "reminder"
	TypeThankYou     NotificationType = "thank_you"
	TypeReward       NotificationType = "reward"
	TypeEligibility  NotificationType = "eligibility"
)

// NotificationTypes lists the six fixed categories in display order
var NotificationTypes = []NotificationType{
	TypeBloodRequest,
	TypeBloodDrive,
	TypeReminder,
	TypeThankYou,
	TypeReward,
	TypeEligibility,
}

// Valid reports whether t belongs to the fixed set. Rows with other values
// still render but are excluded from counts.
func (t NotificationType) Valid() bool {
	for _, ft := range NotificationTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// Label returns the display label for a category. Unknown values fall back
// to a generic bucket rather than failing render.
func (t NotificationType) Label() string {
	switch t {
	case TypeBloodRequest:
		return "Blood Request Alert"
	case TypeBloodDrive:
		return "Upcoming Blood Drive"
	case TypeReminder:
		return "Donation Reminder"
	case TypeThankYou:
		return "Thank You Message"
	case TypeReward:
		return "Reward / Incentive"
	case TypeEligibility:
		return "Eligibility Update"
	default:
		return "Notification"
	}
}

// NotificationItem is one feed entry. Meta is an open, type-specific payload
// rendered verbatim; the feed never interprets it.
type NotificationItem struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	Type            NotificationType `json:"type" db:"type"`
	Title           string           `json:"title" db:"title"`
	Body            string           `json:"body" db:"body"`
	Read            bool             `json:"read" db:"read"`
	OutreachStarted bool             `json:"outreach_started" db:"outreach_started"`
	Meta            JSONMap          `json:"meta,omitempty" db:"meta"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}
