package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anandkhari/nfcstudio/internal/container"
	handlers "github.com/anandkhari/nfcstudio/internal/interface/http"
	"github.com/anandkhari/nfcstudio/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/login-admin", loginLimiter, m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.GET("/auth/check-auth", m.Handler.CheckAuth)
}
