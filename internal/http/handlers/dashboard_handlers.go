package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/http/middleware"
	"github.com/you/studiosvc/internal/logging"
)

type DashboardHandlers struct {
	dashboard domain.DashboardService
	log       logging.Logger
}

func NewDashboardHandlers(dashboard domain.DashboardService, log logging.Logger) *DashboardHandlers {
	return &DashboardHandlers{dashboard: dashboard, log: log.With("component", "dashboard_handlers")}
}

func (h *DashboardHandlers) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// RecentBookings lists the newest bookings; ?limit= is clamped by the service
func (h *DashboardHandlers) RecentBookings(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, h.log, domain.NewValidationError("limit", "limit must be a number"))
			return
		}
		limit = n
	}

	bookings, err := h.dashboard.RecentBookings(c.Request.Context(), middleware.PrincipalFrom(c), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bookings})
}
