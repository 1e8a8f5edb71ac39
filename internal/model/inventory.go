package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// InventoryStatus is the stock state of a unit
type InventoryStatus string

const (
	InventoryAvailable InventoryStatus = "available"
	InventoryReserved  InventoryStatus = "reserved"
	InventoryExpired   InventoryStatus = "expired"
	InventoryUsed      InventoryStatus = "used"
)

func (s InventoryStatus) Valid() bool {
	switch s {
	case InventoryAvailable, InventoryReserved, InventoryExpired, InventoryUsed:
		return true
	}
	return false
}

// Badge maps an inventory status to its display badge, with a default bucket
// for values outside the closed set.
func (s InventoryStatus) Badge() Badge {
	switch s {
	case InventoryAvailable:
		return Badge{Label: "available", Variant: "success"}
	case InventoryReserved:
		return Badge{Label: "reserved", Variant: "warning"}
	case InventoryExpired:
		return Badge{Label: "expired", Variant: "destructive"}
	case InventoryUsed:
		return Badge{Label: "used", Variant: "secondary"}
	default:
		return Badge{Label: string(s), Variant: "default"}
	}
}

// InventoryItem is one stored blood or organ unit
type InventoryItem struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ProviderID     uuid.UUID       `json:"provider_id" db:"provider_id"`
	BloodType      *BloodType      `json:"blood_type,omitempty" db:"blood_type"`
	OrganType      *OrganType      `json:"organ_type,omitempty" db:"organ_type"`
	Quantity       int             `json:"quantity" db:"quantity"`
	Status         InventoryStatus `json:"status" db:"status"`
	CollectionDate time.Time       `json:"collection_date" db:"collection_date"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty" db:"expiry_date"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	Provider       *ProviderInfo   `json:"provider,omitempty" db:"-"`
}

// DaysUntilExpiry returns whole days until expiry, rounded up. Second return
// is false when no expiry date is set.
func (i *InventoryItem) DaysUntilExpiry(now time.Time) (int, bool) {
	if i.ExpiryDate == nil {
		return 0, false
	}
	return int(math.Ceil(i.ExpiryDate.Sub(now).Hours() / 24)), true
}

// ExpiringSoon reports whether the unit expires within the next 7 days.
// Pure function of now and expiry_date, recomputed on every call.
func (i *InventoryItem) ExpiringSoon(now time.Time) bool {
	days, ok := i.DaysUntilExpiry(now)
	return ok && days > 0 && days <= 7
}

// Expired reports whether the expiry date has passed
func (i *InventoryItem) Expired(now time.Time) bool {
	return i.ExpiryDate != nil && i.ExpiryDate.Before(now)
}
