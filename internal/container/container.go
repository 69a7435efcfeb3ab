package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/anandkhari/nfcstudio/config"
	"github.com/anandkhari/nfcstudio/internal/application"
	"github.com/anandkhari/nfcstudio/internal/infrastructure/nfcapi"
	"github.com/anandkhari/nfcstudio/internal/infrastructure/staging"
	"github.com/anandkhari/nfcstudio/internal/render"
	"github.com/anandkhari/nfcstudio/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client

	sessions *helpers.SessionManager
	cookies  *helpers.Manager

	apiClient    *nfcapi.Client
	stagingStore *staging.Store
	draftService *application.DraftService
	renderer     *render.Renderer
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }

func SetSessions(m *helpers.SessionManager) { sessions = m }
func GetSessions() *helpers.SessionManager  { return sessions }
func SetCookies(m *helpers.Manager)         { cookies = m }
func GetCookies() *helpers.Manager          { return cookies }

func SetAPI(c *nfcapi.Client)               { apiClient = c }
func GetAPI() *nfcapi.Client                { return apiClient }
func SetStaging(s *staging.Store)           { stagingStore = s }
func GetStaging() *staging.Store            { return stagingStore }
func SetDrafts(s *application.DraftService) { draftService = s }
func GetDrafts() *application.DraftService  { return draftService }
func SetRenderer(r *render.Renderer)        { renderer = r }
func GetRenderer() *render.Renderer         { return renderer }
