package handler

import (
	"net/http"

	"github.com/mcoot/nexus/internal/services/admin"
	"github.com/mcoot/nexus/internal/services/settings"
	"github.com/mcoot/nexus/internal/web/middleware"
	"github.com/mcoot/nexus/internal/web/templates/components"
	"github.com/mcoot/nexus/internal/web/templates/pages"
)

// AdminHandler handles the creator console
type AdminHandler struct {
	admin    *admin.Service
	settings *settings.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *admin.Service, settings *settings.Service) *AdminHandler {
	return &AdminHandler{admin: admin, settings: settings}
}

// View renders the console
func (h *AdminHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	stats, err := h.admin.Stats(ctx)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	users, err := h.admin.Users(ctx, query)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	officialURL, err := h.admin.OfficialURL(ctx)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]components.DirectoryRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, components.DirectoryRow{User: u, Online: h.admin.IsOnline(u)})
	}

	render(w, r, pages.Admin(pages.AdminData{
		PageData:       pageData(r, h.settings, "Admin", middleware.GetUser(ctx)),
		Stats:          stats,
		Rows:           rows,
		Query:          query,
		OfficialURL:    officialURL,
		RefreshSeconds: h.refreshSeconds(),
	}))
}

// Stats renders the stats block for periodic refresh
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	render(w, r, components.StatsCards(stats, h.refreshSeconds()))
}

// SetOfficialURL handles the official URL form
func (h *AdminHandler) SetOfficialURL(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if err := h.admin.SetOfficialURL(r.Context(), r.FormValue("url")); err != nil {
		middleware.SetFlash(w, "error", "Could not save the official URL")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Official URL saved")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) refreshSeconds() int {
	s := int(h.admin.RefreshInterval().Seconds())
	if s < 1 {
		return 1
	}
	return s
}
