package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

// Demo dataset identifiers are fixed so the fallback feed is deterministic
// across loads.
var demoIDs = []uuid.UUID{
	uuid.MustParse("d0000000-0000-0000-0000-000000000001"),
	uuid.MustParse("d0000000-0000-0000-0000-000000000002"),
	uuid.MustParse("d0000000-0000-0000-0000-000000000003"),
	uuid.MustParse("d0000000-0000-0000-0000-000000000004"),
	uuid.MustParse("d0000000-0000-0000-0000-000000000005"),
	uuid.MustParse("d0000000-0000-0000-0000-000000000006"),
}

// DemoNotifications returns the fixed fallback dataset served when the store
// is empty or unreachable. The feed is never blank: this is a product
// decision, not an error path. One item per category, newest first.
func DemoNotifications(now time.Time) []*model.NotificationItem {
	items := []*model.NotificationItem{
		{
			ID:    demoIDs[0],
			Type:  model.TypeBloodRequest,
			Title: "Urgent O- Blood Needed",
			Body:  "O- blood urgently required at City Hospital ER.",
			Meta: model.JSONMap{
				"bloodType": "O-",
				"location":  "City Hospital",
			},
		},
		{
			ID:    demoIDs[1],
			Type:  model.TypeBloodDrive,
			Title: "Blood Drive this Weekend",
			Body:  "Join us for a community blood drive at Central Park Hall.",
			Meta: model.JSONMap{
				"date":     "2025-10-01",
				"location": "Central Park Hall",
			},
		},
		{
			ID:    demoIDs[2],
			Type:  model.TypeReminder,
			Title: "Time for Your Next Donation",
			Body:  "You're eligible to donate again this month. Book an appointment now.",
		},
		{
			ID:    demoIDs[3],
			Type:  model.TypeThankYou,
			Title: "Thank You for Donating",
			Body:  "Your recent donation helped save 3 lives. We're grateful!",
			Read:  true,
		},
		{
			ID:    demoIDs[4],
			Type:  model.TypeReward,
			Title: "You've Earned a Badge",
			Body:  "Congratulations! You've unlocked the Bronze Donor Badge.",
		},
		{
			ID:    demoIDs[5],
			Type:  model.TypeEligibility,
			Title: "You're Eligible Again!",
			Body:  "You're now cleared to donate blood. Schedule your next donation today.",
		},
	}
	for i, n := range items {
		n.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		n.UpdatedAt = n.CreatedAt
	}
	return items
}
