package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anandkhari/nfcstudio/internal/container"
	handlers "github.com/anandkhari/nfcstudio/internal/interface/http"
	"github.com/anandkhari/nfcstudio/internal/interface/middleware"
)

// AdminModule wires the management surface. Auth itself is enforced
// upstream, so these routes only carry a per-IP rate limit.
type AdminModule struct {
	Handler *handlers.AdminHandler
}

func NewAdminModule(h *handlers.AdminHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/")
	g.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		g.GET("/profiles", m.Handler.ListProfiles)
		g.DELETE("/profiles/:id", m.Handler.DeleteProfile)
		g.GET("/admin/dashboard-stats", m.Handler.DashboardStats)
		g.GET("/admin/scan-analytics", m.Handler.ScanAnalytics)
	}
}
