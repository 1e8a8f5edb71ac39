package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no expiry date", func(t *testing.T) {
		item := &InventoryItem{}
		_, ok := item.DaysUntilExpiry(now)
		assert.False(t, ok)
	})

	t.Run("partial days round up", func(t *testing.T) {
		expiry := now.Add(36 * time.Hour)
		item := &InventoryItem{ExpiryDate: &expiry}
		days, ok := item.DaysUntilExpiry(now)
		assert.True(t, ok)
		assert.Equal(t, 2, days)
	})

	t.Run("past expiry is negative", func(t *testing.T) {
		expiry := now.Add(-48 * time.Hour)
		item := &InventoryItem{ExpiryDate: &expiry}
		days, ok := item.DaysUntilExpiry(now)
		assert.True(t, ok)
		assert.Equal(t, -2, days)
	})
}

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	in3 := now.Add(3 * 24 * time.Hour)
	in8 := now.Add(8 * 24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	assert.True(t, (&InventoryItem{ExpiryDate: &in3}).ExpiringSoon(now))
	assert.False(t, (&InventoryItem{ExpiryDate: &in8}).ExpiringSoon(now))
	assert.False(t, (&InventoryItem{ExpiryDate: &yesterday}).ExpiringSoon(now))
	assert.False(t, (&InventoryItem{}).ExpiringSoon(now))
}

func TestExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&InventoryItem{ExpiryDate: &past}).Expired(now))
	assert.False(t, (&InventoryItem{ExpiryDate: &future}).Expired(now))
	assert.False(t, (&InventoryItem{}).Expired(now))
}

func TestInventoryStatusBadgeFallback(t *testing.T) {
	badge := InventoryStatus("mystery").Badge()
	assert.Equal(t, "mystery", badge.Label)
	assert.Equal(t, "default", badge.Variant)
}
