package dashboard

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func seedProfile(t *testing.T, store *memory.ProfileStore, role model.Role) *model.Profile {
	t.Helper()
	profile := &model.Profile{
		UserID:   uuid.New(),
		Role:     role,
		FullName: "Test " + string(role),
		Email:    string(role) + "@example.com",
	}
	require.NoError(t, store.Create(context.Background(), profile))
	return profile
}

func TestComposeOperationsView(t *testing.T) {
	profiles := memory.NewProfileStore()
	requests := memory.NewSOSRequestStore()
	inventory := memory.NewInventoryStore()

	viewer := seedProfile(t, profiles, model.RoleHospital)
	seedProfile(t, profiles, model.RoleDonor)
	seedProfile(t, profiles, model.RoleDonor)

	blood := model.BloodAPos
	require.NoError(t, requests.Create(context.Background(), &model.SOSRequest{
		RequesterID:  uuid.New(),
		PatientName:  "p",
		BloodType:    &blood,
		Status:       model.StatusActive,
		LocationName: "l",
		ContactPhone: "c",
	}))
	require.NoError(t, inventory.Create(context.Background(), &model.InventoryItem{
		ProviderID: uuid.New(),
		BloodType:  &blood,
		Quantity:   4,
		Status:     model.InventoryAvailable,
	}))
	require.NoError(t, inventory.Create(context.Background(), &model.InventoryItem{
		ProviderID: uuid.New(),
		BloodType:  &blood,
		Quantity:   2,
		Status:     model.InventoryExpired,
	}))

	svc := NewService(profiles, requests, inventory, testLogger(), 89)
	view := svc.Compose(context.Background(), viewer.UserID)

	assert.Equal(t, model.RoleHospital, view.Role)
	assert.Equal(t, model.ViewOperations, view.View)
	assert.Len(t, view.SOS, 1)
	assert.Len(t, view.Inventory, 1)
	assert.Equal(t, 2, view.Stats.TotalDonors)
	assert.Equal(t, 1, view.Stats.ActiveSOSRequests)
	assert.Equal(t, 4, view.Stats.AvailableUnits)
	assert.Equal(t, 89, view.Stats.ResponsesLastMonth)
}

func TestComposeDonorView(t *testing.T) {
	profiles := memory.NewProfileStore()
	viewer := seedProfile(t, profiles, model.RoleDonor)

	svc := NewService(profiles, memory.NewSOSRequestStore(), memory.NewInventoryStore(), testLogger(), 0)
	view := svc.Compose(context.Background(), viewer.UserID)

	assert.Equal(t, model.ViewDonor, view.View)
}

func TestComposeAdminGetsDefaultView(t *testing.T) {
	profiles := memory.NewProfileStore()
	viewer := seedProfile(t, profiles, model.RoleAdmin)

	svc := NewService(profiles, memory.NewSOSRequestStore(), memory.NewInventoryStore(), testLogger(), 0)
	view := svc.Compose(context.Background(), viewer.UserID)

	assert.Equal(t, model.ViewDefault, view.View)
}

func TestComposeDegradesWhenRoleFetchFails(t *testing.T) {
	profiles := memory.NewProfileStore()
	requests := memory.NewSOSRequestStore()

	blood := model.BloodOPos
	require.NoError(t, requests.Create(context.Background(), &model.SOSRequest{
		RequesterID:  uuid.New(),
		PatientName:  "p",
		BloodType:    &blood,
		Status:       model.StatusActive,
		LocationName: "l",
		ContactPhone: "c",
	}))

	svc := NewService(profiles, requests, memory.NewInventoryStore(), testLogger(), 0)

	// Unknown user: the role section fails but the rest of the view fills
	view := svc.Compose(context.Background(), uuid.New())

	assert.Equal(t, model.Role(""), view.Role)
	assert.Equal(t, model.ViewDefault, view.View)
	assert.Len(t, view.SOS, 1)
}

func TestStatsAreCachedBriefly(t *testing.T) {
	profiles := memory.NewProfileStore()
	viewer := seedProfile(t, profiles, model.RoleHospital)
	seedProfile(t, profiles, model.RoleDonor)

	svc := NewService(profiles, memory.NewSOSRequestStore(), memory.NewInventoryStore(), testLogger(), 0)

	first := svc.Compose(context.Background(), viewer.UserID)
	assert.Equal(t, 1, first.Stats.TotalDonors)

	// New donors do not appear until the cache window passes
	seedProfile(t, profiles, model.RoleDonor)
	second := svc.Compose(context.Background(), viewer.UserID)
	assert.Equal(t, 1, second.Stats.TotalDonors)
}
