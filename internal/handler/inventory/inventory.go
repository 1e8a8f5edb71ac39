package inventory

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-api/internal/middleware"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

const defaultListLimit = 50

type Handler struct {
	repo repository.InventoryRepository
}

func NewHandler(repo repository.InventoryRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	routes := rg.Group("/inventory")
	{
		routes.GET("", h.List)
		routes.POST("", h.Create)
	}
}

// itemView decorates a unit with its derived expiry facts
type itemView struct {
	*model.InventoryItem
	StatusBadge  model.Badge `json:"status_badge"`
	DaysToExpiry *int        `json:"days_to_expiry,omitempty"`
	ExpiringSoon bool        `json:"expiring_soon"`
}

func newItemView(item *model.InventoryItem, now time.Time) *itemView {
	view := &itemView{
		InventoryItem: item,
		StatusBadge:   item.Status.Badge(),
		ExpiringSoon:  item.ExpiringSoon(now),
	}
	if days, ok := item.DaysUntilExpiry(now); ok {
		view.DaysToExpiry = &days
	}
	return view
}

func (h *Handler) List(c *gin.Context) {
	filter := repository.InventoryFilter{
		Status:    model.InventoryStatus(c.Query("status")),
		BloodType: model.BloodType(c.Query("blood_type")),
		OrganType: model.OrganType(c.Query("organ_type")),
		Search:    c.Query("q"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		httputil.RespondWithError(c, apperrors.BadRequest("unrecognized inventory status", nil))
		return
	}
	if filter.BloodType != "" && !filter.BloodType.Valid() {
		httputil.RespondWithError(c, apperrors.BadRequest("unrecognized blood type", nil))
		return
	}
	if filter.OrganType != "" && !filter.OrganType.Valid() {
		httputil.RespondWithError(c, apperrors.BadRequest("unrecognized organ type", nil))
		return
	}

	items, err := h.repo.List(c.Request.Context(), filter, defaultListLimit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	now := time.Now()
	views := make([]*itemView, len(items))
	for i, item := range items {
		views[i] = newItemView(item, now)
	}
	httputil.RespondWithSuccess(c, views)
}

type createItem struct {
	BloodType      *model.BloodType `json:"blood_type,omitempty" binding:"omitempty,bloodtype"`
	OrganType      *model.OrganType `json:"organ_type,omitempty" binding:"omitempty,organtype"`
	Quantity       int              `json:"quantity" binding:"required,min=1"`
	CollectionDate time.Time        `json:"collection_date" binding:"required"`
	ExpiryDate     *time.Time       `json:"expiry_date,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

func (h *Handler) Create(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	if !profile.Role.CanRespond() {
		httputil.RespondWithError(c, apperrors.Forbidden("only hospitals and blood banks manage inventory", nil))
		return
	}

	var req createItem
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if req.BloodType == nil && req.OrganType == nil {
		httputil.RespondWithError(c, apperrors.BadRequest("either a blood type or an organ type is required", nil))
		return
	}
	if req.BloodType != nil && !req.BloodType.Valid() {
		httputil.RespondWithError(c, apperrors.BadRequest("unrecognized blood type", nil))
		return
	}
	if req.OrganType != nil && !req.OrganType.Valid() {
		httputil.RespondWithError(c, apperrors.BadRequest("unrecognized organ type", nil))
		return
	}

	item := &model.InventoryItem{
		ProviderID:     profile.ID,
		BloodType:      req.BloodType,
		OrganType:      req.OrganType,
		Quantity:       req.Quantity,
		Status:         model.InventoryAvailable,
		CollectionDate: req.CollectionDate,
		ExpiryDate:     req.ExpiryDate,
		Notes:          req.Notes,
	}
	if err := h.repo.Create(c.Request.Context(), item); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, newItemView(item, time.Now()))
}
