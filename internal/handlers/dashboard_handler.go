package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendwise/internal/services"
)

// DashboardHandler serves the spending dashboards.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the user's spending summary for a month.
// @Summary     Get dashboard
// @Description Totals, breakdowns, six-month trend, budget status and a motivational message
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12, default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} services.DashboardSummary
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := parsePeriod(c.Query("month"), c.Query("year"), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.BuildDashboard(c.Request.Context(), userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAdminDashboard returns system-wide activity.
// @Summary     Get admin dashboard
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.AdminDashboard
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.BuildAdminDashboard(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
