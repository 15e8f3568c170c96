package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

// DashboardHandler serves the dashboard cards and the map.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get returns the device counts, the alert count and the map
// @Summary Dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.dashboard.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Map returns the OpenStreetMap view of the fleet
// @Summary Fleet map
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.MapView
// @Router /map [get]
func (h *DashboardHandler) Map(c *gin.Context) {
	view, err := h.dashboard.Map(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
