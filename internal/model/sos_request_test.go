package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    SOSStatus
		to      SOSStatus
		allowed bool
	}{
		{StatusActive, StatusAcknowledged, true},
		{StatusActive, StatusResponding, true},
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusResolved, false},
		{StatusAcknowledged, StatusResolved, true},
		{StatusAcknowledged, StatusResponding, false},
		{StatusResponding, StatusResolved, true},
		{StatusResponding, StatusCancelled, false},
		{StatusResolved, StatusActive, false},
		{StatusCancelled, StatusResolved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusResolved.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusActive.Terminal())
	assert.False(t, StatusAcknowledged.Terminal())
	assert.False(t, StatusResponding.Terminal())
}

func TestElapsedLabelBuckets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Minute, "30 minutes ago"},
		{59 * time.Minute, "59 minutes ago"},
		{60 * time.Minute, "1 hours ago"},
		{90 * time.Minute, "1 hours ago"},
		{23 * time.Hour, "23 hours ago"},
		{24 * time.Hour, "1 days ago"},
		{49 * time.Hour, "2 days ago"},
	}

	for _, tt := range tests {
		req := &SOSRequest{CreatedAt: now.Add(-tt.age)}
		assert.Equal(t, tt.want, req.ElapsedLabel(now))
	}
}

func TestElapsedLabelClampsFutureTimestamps(t *testing.T) {
	now := time.Now()
	req := &SOSRequest{CreatedAt: now.Add(5 * time.Minute)}
	assert.Equal(t, "0 minutes ago", req.ElapsedLabel(now))
}

func TestAllowedActions(t *testing.T) {
	active := &SOSRequest{Status: StatusActive}

	assert.Equal(t, []SOSAction{ActionAcknowledge, ActionRespond}, active.AllowedActions(RoleHospital))
	assert.Equal(t, []SOSAction{ActionAcknowledge, ActionRespond}, active.AllowedActions(RoleBloodBank))
	assert.Nil(t, active.AllowedActions(RoleDonor))
	assert.Nil(t, active.AllowedActions(RoleAdmin))

	for _, status := range []SOSStatus{StatusAcknowledged, StatusResponding, StatusResolved, StatusCancelled} {
		req := &SOSRequest{Status: status}
		assert.Nil(t, req.AllowedActions(RoleHospital), "status %s", status)
	}
}

func TestNeedPrefersBloodType(t *testing.T) {
	blood := BloodONeg
	organ := OrganKidney

	assert.Equal(t, "O-", (&SOSRequest{BloodType: &blood, OrganType: &organ}).Need())
	assert.Equal(t, "kidney", (&SOSRequest{OrganType: &organ}).Need())
	assert.Equal(t, "", (&SOSRequest{}).Need())
}

func TestPriorityBadges(t *testing.T) {
	critical := PriorityCritical.Badge()
	assert.True(t, critical.Emphasis)
	assert.Equal(t, "CRITICAL PRIORITY", critical.Label)

	for _, p := range []SOSPriority{PriorityLow, PriorityMedium, PriorityHigh} {
		assert.False(t, p.Badge().Emphasis, "priority %s", p)
	}
}

func TestStatusBadgeFallback(t *testing.T) {
	badge := SOSStatus("garbage").Badge()
	assert.Equal(t, "UNKNOWN", badge.Label)
	assert.Equal(t, "default", badge.Variant)
}

func TestPriorityRankOrdering(t *testing.T) {
	assert.Greater(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Greater(t, PriorityLow.Rank(), SOSPriority("bogus").Rank())
}
