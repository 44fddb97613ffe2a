package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"digilib/internal/service"
)

// DashboardHandler handles statistics and dashboard endpoints.
type DashboardHandler struct {
	reportService service.ReportService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(reportService service.ReportService) *DashboardHandler {
	return &DashboardHandler{reportService: reportService}
}

// Summary godoc
// @Summary Public library statistics
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.LibrarySummary
// @Failure 500 {object} errors.ErrorResponse
// @Router /stats [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	summary, err := h.reportService.LibrarySummary(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// MemberDashboard godoc
// @Summary Member dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.MemberDashboard
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/dashboard [get]
func (h *DashboardHandler) MemberDashboard(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	dashboard, err := h.reportService.MemberDashboard(c.Request().Context(), claims.UserID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// StaffDashboard godoc
// @Summary Staff dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.StaffDashboard
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) StaffDashboard(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	dashboard, err := h.reportService.StaffDashboard(c.Request().Context(), claims.UserID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
