package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nexus/internal/api/handler"
	"github.com/mcoot/nexus/internal/api/middleware"
	"github.com/mcoot/nexus/internal/api/response"
	"github.com/mcoot/nexus/internal/generator"
	"github.com/mcoot/nexus/internal/services/admin"
	"github.com/mcoot/nexus/internal/services/billing"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/services/settings"
	"github.com/mcoot/nexus/internal/services/studio"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	IdentityService *identity.Service
	StudioService   *studio.Service
	AdminService    *admin.Service
	BillingService  *billing.Service
	SettingsService *settings.Service
	Generator       generator.Generator
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.IdentityService)
	studioHandler := handler.NewStudioHandler(cfg.StudioService)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.Logger)
	accountHandler := handler.NewAccountHandler(cfg.BillingService, cfg.SettingsService)

	// Create middleware
	sessionMiddleware := middleware.RequireSession(cfg.IdentityService)
	creatorMiddleware := middleware.RequireCreator(cfg.AdminService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Session routes
	api.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/session", sessionHandler.Logout).Methods(http.MethodDelete)
	api.HandleFunc("/session/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/session/register", sessionHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/session/demo", sessionHandler.Demo).Methods(http.MethodPost)

	// Studio modules (session required)
	modules := api.PathPrefix("/modules").Subrouter()
	modules.Use(sessionMiddleware)
	modules.HandleFunc("/chat", studioHandler.Chat).Methods(http.MethodPost)
	modules.HandleFunc("/chat/history", studioHandler.History).Methods(http.MethodGet)
	modules.HandleFunc("/chat/history", studioHandler.ClearHistory).Methods(http.MethodDelete)
	modules.HandleFunc("/canvas", studioHandler.Canvas).Methods(http.MethodPost)
	modules.HandleFunc("/canvas/history", studioHandler.Gallery).Methods(http.MethodGet)
	modules.HandleFunc("/voice", studioHandler.Voice).Methods(http.MethodPost)
	modules.HandleFunc("/voice/voices", studioHandler.Voices).Methods(http.MethodGet)
	modules.HandleFunc("/lens", studioHandler.Lens).Methods(http.MethodPost)

	// Admin routes (creator only, checked per request)
	adminRoutes := api.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(creatorMiddleware)
	adminRoutes.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/stats/stream", adminHandler.StatsStream).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/users", adminHandler.Users).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/config/official-url", adminHandler.GetOfficialURL).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/config/official-url", adminHandler.SetOfficialURL).Methods(http.MethodPut)

	// Billing (session required)
	billingRoutes := api.PathPrefix("/billing").Subrouter()
	billingRoutes.Use(sessionMiddleware)
	billingRoutes.HandleFunc("/checkout", accountHandler.Checkout).Methods(http.MethodGet)

	// Open routes
	api.HandleFunc("/share", accountHandler.Share).Methods(http.MethodGet)
	api.HandleFunc("/settings", accountHandler.GetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", accountHandler.UpdateSettings).Methods(http.MethodPut)
	api.HandleFunc("/health", healthHandler(cfg.Generator)).Methods(http.MethodGet)

	return r
}

func healthHandler(gen generator.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status:    "ok",
			Generator: generator.Configured(gen),
		})
	}
}
