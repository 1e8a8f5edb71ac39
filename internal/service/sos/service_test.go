package sos

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	brokermem "github.com/bloodlink/bloodlink-api/pkg/messaging/memory"
)

func newTestService() (*Service, *memory.SOSRequestStore, *memory.SOSResponseStore, *brokermem.Broker) {
	requests := memory.NewSOSRequestStore()
	responses := memory.NewSOSResponseStore()
	broker := brokermem.NewBroker()
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewService(requests, responses, broker, log, nil), requests, responses, broker
}

func hospital() *model.Profile {
	return &model.Profile{ID: uuid.New(), Role: model.RoleHospital}
}

func donor() *model.Profile {
	return &model.Profile{ID: uuid.New(), Role: model.RoleDonor}
}

func admin() *model.Profile {
	return &model.Profile{ID: uuid.New(), Role: model.RoleAdmin}
}

func validRequest(requesterID uuid.UUID) *model.SOSRequest {
	blood := model.BloodONeg
	return &model.SOSRequest{
		RequesterID:  requesterID,
		PatientName:  "Jane Doe",
		BloodType:    &blood,
		Priority:     model.PriorityCritical,
		LocationName: "City Hospital",
		ContactPhone: "+15550100",
	}
}

func TestCreateRequestStartsActive(t *testing.T) {
	svc, _, _, broker := newTestService()

	req := validRequest(uuid.New())
	req.Priority = ""
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	assert.Equal(t, model.StatusActive, req.Status)
	assert.Equal(t, model.PriorityMedium, req.Priority)
	assert.Len(t, broker.Published(messaging.ChannelSOSRequests), 1)
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	tests := []struct {
		name   string
		mutate func(*model.SOSRequest)
	}{
		{"missing requester", func(r *model.SOSRequest) { r.RequesterID = uuid.Nil }},
		{"missing patient", func(r *model.SOSRequest) { r.PatientName = "" }},
		{"missing location", func(r *model.SOSRequest) { r.LocationName = "" }},
		{"missing phone", func(r *model.SOSRequest) { r.ContactPhone = "" }},
		{"no need", func(r *model.SOSRequest) { r.BloodType = nil; r.OrganType = nil }},
		{"bad blood type", func(r *model.SOSRequest) { bad := model.BloodType("Z+"); r.BloodType = &bad }},
		{"bad priority", func(r *model.SOSRequest) { r.Priority = "extreme" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(uuid.New())
			tt.mutate(req)
			err := svc.CreateRequest(context.Background(), req)
			require.Error(t, err)
			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
		})
	}
}

func TestRespondClaimsActiveRequest(t *testing.T) {
	svc, _, responses, _ := newTestService()

	req := validRequest(uuid.New())
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	responder := hospital()
	updated, err := svc.Respond(context.Background(), req.ID, responder)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResponding, updated.Status)

	recorded, err := responses.ListForRequest(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, model.ActionRespond, recorded[0].Action)
	assert.Equal(t, responder.ID, recorded[0].ResponderID)
}

func TestSecondClaimLosesWithConflict(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRequest(uuid.New())
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	_, err := svc.Respond(context.Background(), req.ID, hospital())
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), req.ID, hospital())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDonorsCannotRespond(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRequest(uuid.New())
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	for _, profile := range []*model.Profile{donor(), admin()} {
		_, err := svc.Respond(context.Background(), req.ID, profile)
		require.Error(t, err, "role %s", profile.Role)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	}
}

func TestAcknowledgeThenResolve(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRequest(uuid.New())
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	responder := hospital()
	acked, err := svc.Acknowledge(context.Background(), req.ID, responder)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAcknowledged, acked.Status)

	resolved, err := svc.Resolve(context.Background(), req.ID, responder)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, resolved.Status)
}

func TestResolveRequiresClaimedRequest(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRequest(uuid.New())
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	_, err := svc.Resolve(context.Background(), req.ID, hospital())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCancelByRequesterOnly(t *testing.T) {
	svc, _, _, _ := newTestService()

	requester := donor()
	req := validRequest(requester.ID)
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	_, err := svc.Cancel(context.Background(), req.ID, donor())
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	cancelled, err := svc.Cancel(context.Background(), req.ID, requester)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

func TestAdminMayCancelAnyActiveRequest(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRequest(uuid.New())
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	cancelled, err := svc.Cancel(context.Background(), req.ID, admin())
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

func TestCancelledRequestRejectsClaims(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := validRequest(uuid.New())
	require.NoError(t, svc.CreateRequest(context.Background(), req))

	_, err := svc.Cancel(context.Background(), req.ID, admin())
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), req.ID, hospital())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}
