package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anandkhari/nfcstudio/internal/infrastructure/nfcapi"
	"github.com/anandkhari/nfcstudio/pkg/response"
)

// AdminHandler proxies the authenticated management surface (profile list,
// dashboard numbers) through to the NFC API with the caller's auth cookie.
type AdminHandler struct {
	API    *nfcapi.Client
	Logger *logrus.Logger
}

func NewAdminHandler(api *nfcapi.Client, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{API: api, Logger: logger}
}

// ListProfiles forwards the paginated, searchable profile listing.
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	q := nfcapi.ListQuery{
		Q:         c.Query("q"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		q.Limit = v
	}
	raw, err := h.API.ListProfiles(c.Request.Context(), forwardCookie(c), q)
	if err != nil {
		upstreamError(c, err, "error fetching profiles")
		return
	}
	response.Success(c, http.StatusOK, raw, "profiles", nil)
}

// DeleteProfile removes a persisted profile.
func (h *AdminHandler) DeleteProfile(c *gin.Context) {
	if err := h.API.DeleteProfile(c.Request.Context(), c.Param("id"), forwardCookie(c)); err != nil {
		upstreamError(c, err, "error deleting profile")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "profile deleted", nil)
}

// DashboardStats returns the aggregate counters for the dashboard header.
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.API.FetchDashboardStats(c.Request.Context(), forwardCookie(c))
	if err != nil {
		upstreamError(c, err, "error fetching dashboard stats")
		return
	}
	response.Success(c, http.StatusOK, stats, "dashboard stats", nil)
}

// ScanAnalytics returns the per-day scan series for the dashboard chart.
func (h *AdminHandler) ScanAnalytics(c *gin.Context) {
	points, err := h.API.FetchScanAnalytics(c.Request.Context(), forwardCookie(c))
	if err != nil {
		upstreamError(c, err, "error fetching scan analytics")
		return
	}
	if points == nil {
		points = []nfcapi.ScanPoint{}
	}
	response.Success(c, http.StatusOK, points, "scan analytics", nil)
}
