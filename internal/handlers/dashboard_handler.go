package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetfolio/internal/services"
)

// DashboardHandler handles dashboard and rebalancing requests
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get returns the full dashboard payload for the selected year
func (h *DashboardHandler) Get(c *gin.Context) {
	year, err := yearQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Rebalance returns allocation deviations and trade recommendations over the
// full recorded history
func (h *DashboardHandler) Rebalance(c *gin.Context) {
	result, err := h.dashboardService.GetRebalance(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DCA returns the dollar-cost-averaging view over the logged buys, optionally
// narrowed to one asset via ?asset=
func (h *DashboardHandler) DCA(c *gin.Context) {
	dca, err := h.dashboardService.GetDCA(c.Request.Context(), c.Query("asset"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dca)
}
