package router

import (
	"github.com/anandkhari/nfcstudio/internal/container"
	handlers "github.com/anandkhari/nfcstudio/internal/interface/http"
	"github.com/anandkhari/nfcstudio/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	api := container.GetAPI()
	logger := container.GetLogger()

	authHandler := handlers.NewAuthHandler(api, logger)
	draftHandler := handlers.NewDraftHandler(
		container.GetDrafts(),
		container.GetSessions(),
		container.GetCookies(),
		container.GetRenderer(),
		api.AbsoluteURL,
		logger,
	)
	adminHandler := handlers.NewAdminHandler(api, logger)
	publicHandler := handlers.NewPublicHandler(api, container.GetRenderer(), container.GetStaging(), logger)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewDraftModule(draftHandler, container.GetSessions()))
	r.Add(modules.NewAdminModule(adminHandler))
	r.AddPages(modules.NewPublicModule(publicHandler))
}
