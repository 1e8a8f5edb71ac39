package model

// DashboardStats holds the four aggregate counts shown on the operations view.
// ResponsesLastMonth is an externally supplied figure, not derived here.
type DashboardStats struct {
	TotalDonors        int `json:"total_donors"`
	ActiveSOSRequests  int `json:"active_sos_requests"`
	AvailableUnits     int `json:"available_units"`
	ResponsesLastMonth int `json:"responses_last_month"`
}

// ViewKind selects which composed dashboard a role sees
type ViewKind string

const (
	ViewDonor      ViewKind = "donor"
	ViewOperations ViewKind = "operations"
	ViewDefault    ViewKind = "default"
)

// ViewFor dispatches a role to its dashboard view. Hospital and blood bank
// share the operations view; anything unrecognized gets the default welcome.
func ViewFor(role Role) ViewKind {
	switch role {
	case RoleDonor:
		return ViewDonor
	case RoleHospital, RoleBloodBank:
		return ViewOperations
	default:
		return ViewDefault
	}
}

// DashboardView is the composed, role-specific read model. Sections fill
// independently; a failed fetch leaves its section zeroed rather than
// blocking the rest.
type DashboardView struct {
	Role      Role             `json:"role"`
	View      ViewKind         `json:"view"`
	SOS       []*SOSRequest    `json:"sos_requests"`
	Inventory []*InventoryItem `json:"inventory"`
	Stats     DashboardStats   `json:"stats"`
}
