package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/web/middleware"
)

// SessionHandler handles the sign-in forms
type SessionHandler struct {
	identity *identity.Service
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(identity *identity.Service) *SessionHandler {
	return &SessionHandler{identity: identity}
}

// Login handles the login form submission
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, "Invalid form data")
		return
	}

	user, err := h.identity.Login(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		h.fail(w, r, describe(err))
		return
	}

	middleware.SetFlash(w, "success", "Welcome back, "+user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Register handles the registration form submission
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, "Invalid form data")
		return
	}

	user, err := h.identity.Register(r.Context(), r.FormValue("username"), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		h.fail(w, r, describe(err))
		return
	}

	middleware.SetFlash(w, "success", "Welcome, "+user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Demo starts the demo session
func (h *SessionHandler) Demo(w http.ResponseWriter, r *http.Request) {
	if _, err := h.identity.EnterDemo(r.Context()); err != nil {
		h.fail(w, r, describe(err))
		return
	}
	middleware.SetFlash(w, "info", "Demo mode")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context()); err != nil {
		h.fail(w, r, describe(err))
		return
	}
	middleware.SetFlash(w, "info", "Signed out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *SessionHandler) fail(w http.ResponseWriter, r *http.Request, message string) {
	middleware.SetFlash(w, "error", message)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// describe turns a service error into a user-facing notice
func describe(err error) string {
	switch {
	case errors.Is(err, model.ErrUnknownIdentity):
		return "No account exists for this email"
	case errors.Is(err, model.ErrDuplicateUsername):
		return "Username is already taken"
	case errors.Is(err, model.ErrDuplicateEmail):
		return "Email is already registered"
	case errors.Is(err, model.ErrEmptyInput):
		return "Email is required"
	default:
		return "Something went wrong, please try again"
	}
}
