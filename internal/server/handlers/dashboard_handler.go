package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/young4chicks/brooder/internal/service/reporting"
)

// DashboardHandler exposes dashboards and the sales-agent report.
type DashboardHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *reporting.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Stats returns the headline counts.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Manager returns the headline counts plus stock by type and recent activity.
func (h *DashboardHandler) Manager(c *gin.Context) {
	dash, err := h.svc.ManagerDashboard(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Sales returns the dashboard of the calling sales agent.
func (h *DashboardHandler) Sales(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	dash, err := h.svc.SalesDashboard(c.Request.Context(), actor)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// SalesAgents returns the per-agent sales report for ?start=&end= (YYYY-MM-DD).
func (h *DashboardHandler) SalesAgents(c *gin.Context) {
	start, err := h.svc.ParseDay(c.Query("start"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	end, err := h.svc.ParseDay(c.Query("end"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	report, err := h.svc.SalesAgentReport(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
