package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationTypeValidity(t *testing.T) {
	for _, ft := range NotificationTypes {
		assert.True(t, ft.Valid(), "type %s", ft)
	}
	assert.False(t, NotificationType("promo").Valid())
	assert.False(t, NotificationType("").Valid())
}

func TestNotificationTypeLabels(t *testing.T) {
	assert.Equal(t, "Blood Request Alert", TypeBloodRequest.Label())
	assert.Equal(t, "Upcoming Blood Drive", TypeBloodDrive.Label())
	assert.Equal(t, "Notification", NotificationType("promo").Label())
}

func TestViewForRole(t *testing.T) {
	assert.Equal(t, ViewDonor, ViewFor(RoleDonor))
	assert.Equal(t, ViewOperations, ViewFor(RoleHospital))
	assert.Equal(t, ViewOperations, ViewFor(RoleBloodBank))
	assert.Equal(t, ViewDefault, ViewFor(RoleAdmin))
	assert.Equal(t, ViewDefault, ViewFor(Role("")))
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleHospital.CanRespond())
	assert.True(t, RoleBloodBank.CanRespond())
	assert.False(t, RoleDonor.CanRespond())
	assert.False(t, RoleAdmin.CanRespond())
}
