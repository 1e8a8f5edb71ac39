package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-api/internal/middleware"
	"github.com/bloodlink/bloodlink-api/internal/service/dashboard"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

type Handler struct {
	service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetDashboard)
}

// GetDashboard returns the composed role-specific view for the caller. The
// sections are fetched independently, so a partial backend outage degrades
// sections rather than the whole response.
func (h *Handler) GetDashboard(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	view := h.service.Compose(c.Request.Context(), profile.UserID)
	httputil.RespondWithSuccess(c, view)
}
