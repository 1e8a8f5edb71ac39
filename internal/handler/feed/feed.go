// Package feed exposes the notification feed: the cached sequence, selection,
// filtering, read-state mutations, and the emergency outreach trigger.
package feed

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/feed"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
)

type Handler struct {
	controller *feed.Controller
	repo       repository.NotificationRepository
	broker     messaging.Broker
	logger     *logger.Logger
}

func NewHandler(controller *feed.Controller, repo repository.NotificationRepository, broker messaging.Broker, logger *logger.Logger) *Handler {
	return &Handler{
		controller: controller,
		repo:       repo,
		broker:     broker,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/notifications")
	{
		routes.GET("", h.List)
		routes.POST("", h.Create)
		routes.GET("/counts", h.Counts)
		routes.GET("/selected", h.Selected)
		routes.POST("/read-all", h.MarkAllRead)
		routes.POST("/:id/select", h.Select)
		routes.POST("/:id/read", h.MarkRead)
		routes.POST("/:id/outreach", h.TriggerOutreach)
	}
}

// List returns the feed, optionally narrowed to one category via ?type=
func (h *Handler) List(c *gin.Context) {
	filter := c.DefaultQuery("type", feed.FilterAll)
	httputil.RespondWithSuccess(c, h.controller.Filter(filter))
}

type createNotification struct {
	Type  model.NotificationType `json:"type" binding:"required"`
	Title string                 `json:"title" binding:"required"`
	Body  string                 `json:"body" binding:"required"`
	Meta  model.JSONMap          `json:"meta,omitempty"`
}

// Create persists a notification and publishes the insert so every live
// feed prepends it
func (h *Handler) Create(c *gin.Context) {
	var req createNotification
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if !req.Type.Valid() {
		httputil.RespondWithError(c, apperrors.BadRequest("unrecognized notification type", nil))
		return
	}

	n := &model.NotificationItem{
		Type:  req.Type,
		Title: req.Title,
		Body:  req.Body,
		Meta:  req.Meta,
	}
	if err := h.repo.Create(c.Request.Context(), n); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	event, err := messaging.NewChangeEvent(messaging.OpInsert, "notifications", n)
	if err != nil {
		h.logger.Error(err, "failed to encode notification insert event", "id", n.ID.String())
	} else if err := h.broker.Publish(c.Request.Context(), messaging.ChannelNotifications, event); err != nil {
		h.logger.Error(err, "failed to publish notification insert event", "id", n.ID.String())
	}

	httputil.RespondWithCreated(c, n)
}

func (h *Handler) Counts(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.controller.Counts())
}

func (h *Handler) Selected(c *gin.Context) {
	selected := h.controller.Selected()
	if selected == nil {
		httputil.RespondWithError(c, apperrors.NotFound("notification", nil))
		return
	}
	httputil.RespondWithSuccess(c, selected)
}

func (h *Handler) Select(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid notification ID", err))
		return
	}
	h.controller.Select(id)
	httputil.RespondWithSuccess(c, h.controller.Selected())
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid notification ID", err))
		return
	}
	if err := h.controller.MarkRead(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": id, "read": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.controller.MarkAllRead(c.Request.Context()); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"read": true})
}

func (h *Handler) TriggerOutreach(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid notification ID", err))
		return
	}
	if err := h.controller.TriggerOutreach(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": id, "outreach_started": true})
}
