package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/admin"
	"github.com/mcoot/nexus/internal/services/billing"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/services/settings"
	"github.com/mcoot/nexus/internal/services/studio"
	"github.com/mcoot/nexus/internal/web/middleware"
	"github.com/mcoot/nexus/internal/web/templates/components"
	"github.com/mcoot/nexus/internal/web/templates/layout"
	"github.com/mcoot/nexus/internal/web/templates/pages"
)

// HomeHandler handles the dashboard
type HomeHandler struct {
	identity *identity.Service
	admin    *admin.Service
	studio   *studio.Service
	billing  *billing.Service
	settings *settings.Service
	logger   *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(
	identity *identity.Service,
	admin *admin.Service,
	studio *studio.Service,
	billing *billing.Service,
	settings *settings.Service,
	logger *slog.Logger,
) *HomeHandler {
	return &HomeHandler{
		identity: identity,
		admin:    admin,
		studio:   studio,
		billing:  billing,
		settings: settings,
		logger:   logger,
	}
}

// Home renders the dashboard. Each load with a session counts as a visit.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user != nil {
		if _, err := h.admin.RecordVisit(r.Context()); err != nil {
			h.logger.Warn("visit not recorded", slog.String("error", err.Error()))
		}
	}

	data := pages.DashboardData{
		PageData: pageData(r, h.settings, "Dashboard", user),
	}

	if user != nil {
		for _, c := range model.Capabilities() {
			data.Modules = append(data.Modules, components.ModuleCard{
				Capability: c,
				Affordable: user.IsElite() || user.Credits >= c.Cost(),
				Busy:       h.studio.Busy(c),
			})
		}
		data.CheckoutURL = h.billing.CheckoutURL()
		data.IsCreator = identity.IsPrivileged(h.identity.Policy(), user.Email)

		share, err := h.billing.Share(r.Context())
		if err != nil {
			h.logger.Warn("share payload unavailable", slog.String("error", err.Error()))
		}
		data.ShareURL = share.URL
	}

	render(w, r, pages.Dashboard(data))
}

// pageData fills the common page fields
func pageData(r *http.Request, prefs *settings.Service, title string, user *model.User) layout.PageData {
	data := layout.PageData{
		Title: title,
		User:  user,
		Flash: middleware.GetFlash(r.Context()),
	}
	if p, err := prefs.Get(r.Context()); err == nil {
		data.Theme = p.Theme
		data.Lang = p.Language
	}
	return data
}
