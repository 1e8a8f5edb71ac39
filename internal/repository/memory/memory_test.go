package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

func seedInventory(t *testing.T) *InventoryStore {
	t.Helper()
	store := NewInventoryStore()

	aPos := model.BloodAPos
	oNeg := model.BloodONeg
	kidney := model.OrganKidney
	notes := "rare stock"

	require.NoError(t, store.Create(context.Background(), &model.InventoryItem{
		ProviderID: uuid.New(), BloodType: &aPos, Quantity: 2,
		Status: model.InventoryAvailable,
	}))
	require.NoError(t, store.Create(context.Background(), &model.InventoryItem{
		ProviderID: uuid.New(), BloodType: &oNeg, Quantity: 1,
		Status: model.InventoryReserved, Notes: &notes,
	}))
	require.NoError(t, store.Create(context.Background(), &model.InventoryItem{
		ProviderID: uuid.New(), OrganType: &kidney, Quantity: 1,
		Status: model.InventoryAvailable,
	}))
	return store
}

func TestInventoryListFilters(t *testing.T) {
	store := seedInventory(t)

	all, err := store.List(context.Background(), repository.InventoryFilter{}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	reserved, err := store.List(context.Background(),
		repository.InventoryFilter{Status: model.InventoryReserved}, 10)
	require.NoError(t, err)
	require.Len(t, reserved, 1)
	assert.Equal(t, model.BloodONeg, *reserved[0].BloodType)

	kidneys, err := store.List(context.Background(),
		repository.InventoryFilter{OrganType: model.OrganKidney}, 10)
	require.NoError(t, err)
	assert.Len(t, kidneys, 1)

	matched, err := store.List(context.Background(),
		repository.InventoryFilter{Search: "RARE"}, 10)
	require.NoError(t, err)
	assert.Len(t, matched, 1)

	none, err := store.List(context.Background(),
		repository.InventoryFilter{BloodType: model.BloodABNeg}, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInventoryListNewestFirstWithLimit(t *testing.T) {
	store := NewInventoryStore()
	blood := model.BloodAPos
	for i := 0; i < 3; i++ {
		item := &model.InventoryItem{
			ProviderID: uuid.New(), BloodType: &blood, Quantity: 1,
			Status:    model.InventoryAvailable,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Create(context.Background(), item))
	}

	items, err := store.List(context.Background(), repository.InventoryFilter{}, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))
}

func TestUpdateStatusIfRejectsStaleTransition(t *testing.T) {
	store := NewSOSRequestStore()
	blood := model.BloodAPos
	req := &model.SOSRequest{
		RequesterID: uuid.New(), PatientName: "p", BloodType: &blood,
		Status: model.StatusActive, LocationName: "l", ContactPhone: "c",
	}
	require.NoError(t, store.Create(context.Background(), req))

	claimed, err := store.UpdateStatusIf(context.Background(), req.ID,
		model.StatusActive, model.StatusResponding)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResponding, claimed.Status)

	_, err = store.UpdateStatusIf(context.Background(), req.ID,
		model.StatusActive, model.StatusResponding)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}
