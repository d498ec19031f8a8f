package api

import (
	"log/slog"
	"time"

	"calrelay/internal/api/handlers"
	"calrelay/internal/api/middleware"
	"calrelay/internal/gcal"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// OAuth state nonces are valid for the duration of one consent-screen
// round trip
const stateTTL = 10 * time.Minute

// RouterConfig holds dependencies for the API router
type RouterConfig struct {
	OAuth      *oauth2.Config // nil when the client secret is not configured
	TokenStore gcal.TokenStore
	Manager    *gcal.Manager
	Scheduler  handlers.AppointmentScheduler
	Notifier   handlers.Notifier // optional
	APIKey     string            // empty disables API-key auth
	Logger     *slog.Logger
}

// NewRouter creates and configures the Gin router
func NewRouter(config RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(config.Logger))
	router.Use(middleware.Logging(config.Logger))
	router.Use(middleware.ContentType())

	// Health check (no auth)
	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.GetHealth)

	// One-time authorization flow. These stay public: the consent
	// redirect from Google cannot carry an API key.
	oauthHandler := handlers.NewOAuthHandler(
		config.OAuth,
		config.TokenStore,
		gcal.NewStateStore(stateTTL),
		config.Logger,
	)
	router.GET("/authorize", oauthHandler.Authorize)
	router.GET("/oauth-callback", oauthHandler.Callback)

	// Scheduling endpoint called by the voice-agent platform
	scheduleHandler := handlers.NewScheduleHandler(
		config.Scheduler,
		config.Notifier,
		config.Logger,
	)
	router.POST("/schedule-appointment", middleware.APIKey(config.APIKey), scheduleHandler.CreateAppointment)

	// Admin endpoints
	v1 := router.Group("/v1")
	v1.Use(middleware.APIKey(config.APIKey))
	{
		adminHandler := handlers.NewAdminHandler(
			config.TokenStore,
			config.Manager,
			config.Logger,
		)
		v1.GET("/admin/google/token-status", adminHandler.GetTokenStatus)
		v1.POST("/admin/google/refresh-token", adminHandler.UpdateRefreshToken)
	}

	return router
}
