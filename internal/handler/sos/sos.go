package sos

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/middleware"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/service/sos"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

const defaultListLimit = 20

type Handler struct {
	service *sos.Service
}

func NewHandler(service *sos.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/sos")
	{
		routes.POST("", h.CreateRequest)
		routes.GET("", h.ListActive)
		routes.GET("/:id", h.GetRequest)
		routes.GET("/:id/responses", h.ListResponses)
		routes.POST("/:id/acknowledge", h.Acknowledge)
		routes.POST("/:id/respond", h.Respond)
		routes.POST("/:id/cancel", h.Cancel)
		routes.POST("/:id/resolve", h.Resolve)
	}
}

type createRequest struct {
	PatientName  string            `json:"patient_name" binding:"required"`
	PatientAge   *int              `json:"patient_age,omitempty"`
	BloodType    *model.BloodType  `json:"blood_type,omitempty" binding:"omitempty,bloodtype"`
	OrganType    *model.OrganType  `json:"organ_type,omitempty" binding:"omitempty,organtype"`
	Priority     model.SOSPriority `json:"priority,omitempty" binding:"omitempty,priority"`
	LocationName string            `json:"location_name" binding:"required"`
	ContactPhone string            `json:"contact_phone" binding:"required"`
	Description  *string           `json:"description,omitempty"`
}

// requestView decorates a request with the presentation facts derived from
// its state: age bucket, badges, the single need, and the viewer's actions.
type requestView struct {
	*model.SOSRequest
	Need           string            `json:"need"`
	Elapsed        string            `json:"elapsed"`
	PriorityBadge  model.Badge       `json:"priority_badge"`
	StatusBadge    model.Badge       `json:"status_badge"`
	AllowedActions []model.SOSAction `json:"allowed_actions"`
}

func newRequestView(req *model.SOSRequest, viewer model.Role, now time.Time) *requestView {
	return &requestView{
		SOSRequest:     req,
		Need:           req.Need(),
		Elapsed:        req.ElapsedLabel(now),
		PriorityBadge:  req.Priority.Badge(),
		StatusBadge:    req.Status.Badge(),
		AllowedActions: req.AllowedActions(viewer),
	}
}

func (h *Handler) CreateRequest(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	request := &model.SOSRequest{
		RequesterID:  profile.ID,
		PatientName:  req.PatientName,
		PatientAge:   req.PatientAge,
		BloodType:    req.BloodType,
		OrganType:    req.OrganType,
		Priority:     req.Priority,
		LocationName: req.LocationName,
		ContactPhone: req.ContactPhone,
		Description:  req.Description,
	}

	if err := h.service.CreateRequest(c.Request.Context(), request); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, newRequestView(request, profile.Role, time.Now()))
}

func (h *Handler) ListActive(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	requests, err := h.service.ListActive(c.Request.Context(), defaultListLimit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	now := time.Now()
	views := make([]*requestView, len(requests))
	for i, req := range requests {
		views[i] = newRequestView(req, profile.Role, now)
	}
	httputil.RespondWithSuccess(c, views)
}

func (h *Handler) GetRequest(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request ID", err))
		return
	}

	request, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, newRequestView(request, profile.Role, time.Now()))
}

func (h *Handler) ListResponses(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request ID", err))
		return
	}

	responses, err := h.service.ListResponses(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, responses)
}

func (h *Handler) Acknowledge(c *gin.Context) {
	h.transition(c, h.service.Acknowledge)
}

func (h *Handler) Respond(c *gin.Context) {
	h.transition(c, h.service.Respond)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *Handler) Resolve(c *gin.Context) {
	h.transition(c, h.service.Resolve)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, profile *model.Profile) (*model.SOSRequest, error)) {
	profile := middleware.CurrentProfile(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request ID", err))
		return
	}

	request, err := fn(c.Request.Context(), id, profile)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, newRequestView(request, profile.Role, time.Now()))
}
