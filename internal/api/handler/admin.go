package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/nexus/internal/api/apierr"
	"github.com/mcoot/nexus/internal/api/request"
	"github.com/mcoot/nexus/internal/api/response"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/admin"
	"github.com/mcoot/nexus/internal/sse"
)

// AdminHandler handles the creator-only dashboard endpoints
type AdminHandler struct {
	admin  *admin.Service
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *admin.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// StatsStream handles GET /api/v1/admin/stats/stream.
// Stats are pushed on connect and on every refresh until the client leaves
// or the session loses creator access.
func (h *AdminHandler) StatsStream(w http.ResponseWriter, r *http.Request) {
	stream, err := sse.Open(w)
	if err != nil {
		WriteError(w, apierr.NewInternalError())
		return
	}

	err = h.admin.Watch(r.Context(), func(stats model.Stats) error {
		return stream.SendJSON("stats", response.StatsFromModel(stats))
	})
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	case errors.Is(err, model.ErrNoSession), errors.Is(err, model.ErrNotCreator):
		_ = stream.SendJSON("error", apierr.Body(err))
	default:
		h.logger.Warn("stats stream ended", slog.String("error", err.Error()))
	}
}

// Users handles GET /api/v1/admin/users?q=
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.UsersResponse{Users: make([]response.AdminUser, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, response.AdminUser{
			User:   response.UserFromModel(&users[i]),
			Online: h.admin.IsOnline(users[i]),
		})
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetOfficialURL handles GET /api/v1/admin/config/official-url
func (h *AdminHandler) GetOfficialURL(w http.ResponseWriter, r *http.Request) {
	u, err := h.admin.OfficialURL(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OfficialURLResponse{URL: u})
}

// SetOfficialURL handles PUT /api/v1/admin/config/official-url
func (h *AdminHandler) SetOfficialURL(w http.ResponseWriter, r *http.Request) {
	var req request.OfficialURLRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.admin.SetOfficialURL(r.Context(), req.URL); err != nil {
		WriteError(w, err)
		return
	}
	h.GetOfficialURL(w, r)
}
