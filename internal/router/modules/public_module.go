package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anandkhari/nfcstudio/internal/container"
	handlers "github.com/anandkhari/nfcstudio/internal/interface/http"
	"github.com/anandkhari/nfcstudio/internal/interface/middleware"
)

// PublicModule registers the pages an NFC tap resolves to. These live on
// the root group, not /api, since they are the URLs printed on cards.
type PublicModule struct {
	Handler *handlers.PublicHandler
}

func NewPublicModule(h *handlers.PublicHandler) *PublicModule {
	return &PublicModule{Handler: h}
}

func (m *PublicModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/profile/:id", limiter, m.Handler.Profile)
	rg.GET("/vcf/:id", limiter, m.Handler.VCard)
	rg.POST("/log-save/:id", limiter, m.Handler.LogSave)
	rg.GET("/staging/:draft/:asset", m.Handler.StagedAsset)
}
