// Package sos implements the emergency request lifecycle. Transitions are
// monotonic toward a terminal state and responder claims go through a
// conditional store update, so two facilities cannot both win the same
// request.
package sos

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

type Service struct {
	repo      repository.SOSRequestRepository
	responses repository.SOSResponseRepository
	broker    messaging.Broker
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(
	repo repository.SOSRequestRepository,
	responses repository.SOSResponseRepository,
	broker messaging.Broker,
	logger *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:      repo,
		responses: responses,
		broker:    broker,
		logger:    logger,
		metrics:   m,
	}
}

// CreateRequest opens a new emergency request in the active state
func (s *Service) CreateRequest(ctx context.Context, req *model.SOSRequest) error {
	if err := s.validateRequest(req); err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}

	req.Status = model.StatusActive
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return fmt.Errorf("failed to create sos request: %w", err)
	}

	s.publishChange(ctx, messaging.OpInsert, req)
	return nil
}

// GetRequest returns one request by id
func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*model.SOSRequest, error) {
	return s.repo.Get(ctx, id)
}

// ListActive returns the newest active requests with requester identity joined
func (s *Service) ListActive(ctx context.Context, limit int) ([]*model.SOSRequest, error) {
	return s.repo.ListActive(ctx, limit)
}

// Acknowledge moves an active request to acknowledged. Informational only:
// it does not claim the response.
func (s *Service) Acknowledge(ctx context.Context, id uuid.UUID, responder *model.Profile) (*model.SOSRequest, error) {
	return s.respond(ctx, id, responder, model.ActionAcknowledge, model.StatusAcknowledged)
}

// Respond claims an active request for the responder's facility. The claim
// is a conditional update on the status column: if the request is no longer
// active the claim fails with a conflict and no second responder succeeds.
func (s *Service) Respond(ctx context.Context, id uuid.UUID, responder *model.Profile) (*model.SOSRequest, error) {
	return s.respond(ctx, id, responder, model.ActionRespond, model.StatusResponding)
}

func (s *Service) respond(ctx context.Context, id uuid.UUID, responder *model.Profile, action model.SOSAction, to model.SOSStatus) (*model.SOSRequest, error) {
	if !responder.Role.CanRespond() {
		return nil, apperrors.Forbidden("only hospitals and blood banks may respond to emergencies", nil)
	}

	req, err := s.repo.UpdateStatusIf(ctx, id, model.StatusActive, to)
	if err != nil {
		if apperrors.IsConflict(err) && s.metrics != nil {
			s.metrics.SOSClaimConflicts.Inc()
		}
		return nil, err
	}

	record := &model.SOSResponse{
		RequestID:   id,
		ResponderID: responder.ID,
		Action:      action,
	}
	if err := s.responses.Create(ctx, record); err != nil {
		// The transition already committed; the missing audit row is logged,
		// not surfaced as a failed response.
		s.logger.Error(err, "failed to record responder action", "request_id", id.String())
	}

	if s.metrics != nil {
		s.metrics.SOSTransitions.WithLabelValues(string(model.StatusActive), string(to)).Inc()
	}
	s.publishChange(ctx, messaging.OpUpdate, req)
	return req, nil
}

// Cancel withdraws an active request. Cancellation is reachable from the
// active state only.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, requester *model.Profile) (*model.SOSRequest, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.RequesterID != requester.ID && requester.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("only the requester may cancel this request", nil)
	}

	req, err := s.repo.UpdateStatusIf(ctx, id, model.StatusActive, model.StatusCancelled)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SOSTransitions.WithLabelValues(string(model.StatusActive), string(model.StatusCancelled)).Inc()
	}
	s.publishChange(ctx, messaging.OpUpdate, req)
	return req, nil
}

// Resolve closes out a request a facility acknowledged or is responding to
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, responder *model.Profile) (*model.SOSRequest, error) {
	if !responder.Role.CanRespond() && responder.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("only responding facilities may resolve a request", nil)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(model.StatusResolved) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot resolve a %s request", current.Status), nil)
	}

	req, err := s.repo.UpdateStatusIf(ctx, id, current.Status, model.StatusResolved)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SOSTransitions.WithLabelValues(string(current.Status), string(model.StatusResolved)).Inc()
	}
	s.publishChange(ctx, messaging.OpUpdate, req)
	return req, nil
}

// ListResponses returns the responder actions recorded against a request
func (s *Service) ListResponses(ctx context.Context, requestID uuid.UUID) ([]*model.SOSResponse, error) {
	return s.responses.ListForRequest(ctx, requestID)
}

func (s *Service) publishChange(ctx context.Context, op messaging.ChangeOp, req *model.SOSRequest) {
	event, err := messaging.NewChangeEvent(op, "sos_requests", req)
	if err != nil {
		s.logger.Error(err, "failed to encode sos change event", "request_id", req.ID.String())
		return
	}
	if err := s.broker.Publish(ctx, messaging.ChannelSOSRequests, event); err != nil {
		s.logger.Error(err, "failed to publish sos change event", "request_id", req.ID.String())
	}
}

func (s *Service) validateRequest(req *model.SOSRequest) error {
	if req.RequesterID == uuid.Nil {
		return fmt.Errorf("requester ID is required")
	}
	if req.PatientName == "" {
		return fmt.Errorf("patient name is required")
	}
	if req.LocationName == "" {
		return fmt.Errorf("location is required")
	}
	if req.ContactPhone == "" {
		return fmt.Errorf("contact phone is required")
	}
	if req.BloodType == nil && req.OrganType == nil {
		return fmt.Errorf("either a blood type or an organ type is required")
	}
	if req.BloodType != nil && !req.BloodType.Valid() {
		return fmt.Errorf("unrecognized blood type %q", *req.BloodType)
	}
	if req.OrganType != nil && !req.OrganType.Valid() {
		return fmt.Errorf("unrecognized organ type %q", *req.OrganType)
	}
	switch req.Priority {
	case "", model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityCritical:
	default:
		return fmt.Errorf("unrecognized priority %q", req.Priority)
	}
	return nil
}
