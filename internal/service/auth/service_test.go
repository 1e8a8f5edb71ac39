package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/security"
)

func newTestService() (*Service, *memory.ProfileStore) {
	store := memory.NewProfileStore()
	svc := NewService(store, security.NewBcryptHasher(4), config.JWTConfig{
		Secret:      "test-secret",
		ExpiryHours: 1,
	})
	return svc, store
}

func registerInput() *RegisterInput {
	return &RegisterInput{
		Email:    "donor@example.com",
		Password: "correct-horse",
		FullName: "Test Donor",
		Role:     model.RoleDonor,
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService()

	profile, token, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "correct-horse", profile.PasswordHash)

	loggedIn, loginToken, err := svc.Login(context.Background(), "donor@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
	assert.Equal(t, profile.ID, loggedIn.ID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "donor@example.com", "wrong")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), registerInput())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService()
	input := registerInput()
	input.Role = "superuser"

	_, _, err := svc.Register(context.Background(), input)
	require.Error(t, err)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	profile, token, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID.String(), claims.ProfileID)
	assert.Equal(t, model.RoleDonor, claims.Role)

	resolved, err := svc.CurrentProfile(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, profile.Email, resolved.Email)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
}
