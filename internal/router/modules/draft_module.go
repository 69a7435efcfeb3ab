package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anandkhari/nfcstudio/internal/container"
	handlers "github.com/anandkhari/nfcstudio/internal/interface/http"
	"github.com/anandkhari/nfcstudio/internal/interface/middleware"
	"github.com/anandkhari/nfcstudio/pkg/helpers"
)

// DraftModule wires the profile-authoring routes. Everything except Open
// sits behind the draft-session cookie.
type DraftModule struct {
	Handler  *handlers.DraftHandler
	Sessions *helpers.SessionManager
}

func NewDraftModule(h *handlers.DraftHandler, sessions *helpers.SessionManager) *DraftModule {
	return &DraftModule{Handler: h, Sessions: sessions}
}

func (m *DraftModule) Register(rg *gin.RouterGroup) {
	openLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIP(), nil)
	rg.POST("/drafts", openLimiter, m.Handler.Open)

	d := rg.Group("/drafts")
	d.Use(middleware.DraftSession(m.Sessions))
	d.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByDraftID(), middleware.AllowPrivateIP()))
	{
		d.GET("/current", m.Handler.Current)
		d.DELETE("/current", m.Handler.Discard)
		d.PATCH("/fields", m.Handler.UpdateFields)
		d.PUT("/theme", m.Handler.UpdateTheme)

		d.POST("/phones", m.Handler.AddPhone)
		d.PATCH("/phones/:id", m.Handler.UpdatePhone)
		d.DELETE("/phones/:id", m.Handler.RemovePhone)

		d.POST("/emails", m.Handler.AddEmail)
		d.PATCH("/emails/:id", m.Handler.UpdateEmail)
		d.DELETE("/emails/:id", m.Handler.RemoveEmail)

		d.POST("/socials", m.Handler.AddSocial)
		d.PATCH("/socials/:id", m.Handler.UpdateSocial)
		d.DELETE("/socials/:id", m.Handler.RemoveSocial)

		d.POST("/images/:surface", m.Handler.StageImage)
		d.POST("/gallery", m.Handler.StageGallery)
		d.DELETE("/gallery/:id", m.Handler.RemoveGalleryImage)
		d.POST("/gallery/:dir", m.Handler.Carousel)

		d.POST("/save", m.Handler.Save)
		d.GET("/preview", m.Handler.Preview)
	}
}
