package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nexus/internal/services/admin"
	"github.com/mcoot/nexus/internal/services/billing"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/services/settings"
	"github.com/mcoot/nexus/internal/services/studio"
	"github.com/mcoot/nexus/internal/web/handler"
	"github.com/mcoot/nexus/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger          *slog.Logger
	IdentityService *identity.Service
	StudioService   *studio.Service
	AdminService    *admin.Service
	BillingService  *billing.Service
	SettingsService *settings.Service
	StaticDir       string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	sessionMiddleware := middleware.Session(cfg.IdentityService)
	creatorMiddleware := middleware.RequireCreator(cfg.AdminService)

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.IdentityService, cfg.AdminService, cfg.StudioService, cfg.BillingService, cfg.SettingsService, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.IdentityService)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.SettingsService)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Dashboard
	public := r.NewRoute().Subrouter()
	public.Use(recoveryMiddleware)
	public.Use(loggingMiddleware)
	public.Use(flashMiddleware)
	public.Use(sessionMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Session actions
	sessionRoutes := r.PathPrefix("/session").Subrouter()
	sessionRoutes.Use(recoveryMiddleware)
	sessionRoutes.Use(loggingMiddleware)
	sessionRoutes.HandleFunc("/login", sessionHandler.Login).Methods(http.MethodPost)
	sessionRoutes.HandleFunc("/register", sessionHandler.Register).Methods(http.MethodPost)
	sessionRoutes.HandleFunc("/demo", sessionHandler.Demo).Methods(http.MethodPost)
	sessionRoutes.HandleFunc("/logout", sessionHandler.Logout).Methods(http.MethodPost)

	// Creator console (checked on every request)
	adminRoutes := r.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(recoveryMiddleware)
	adminRoutes.Use(loggingMiddleware)
	adminRoutes.Use(flashMiddleware)
	adminRoutes.Use(creatorMiddleware)
	adminRoutes.HandleFunc("", adminHandler.View).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/official-url", adminHandler.SetOfficialURL).Methods(http.MethodPost)

	return r
}
