package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skychimp/newsletter-service/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary Get home page statistics
// @Description Return newsletter counters and three random published posts. Counters are served from cache when caching is enabled.
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardResponse
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.GetDashboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
