package handler

import (
	"net/http"

	"github.com/mcoot/nexus/internal/api/request"
	"github.com/mcoot/nexus/internal/api/response"
	"github.com/mcoot/nexus/internal/services/identity"
)

// SessionHandler handles login, registration and logout
type SessionHandler struct {
	identity *identity.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(identity *identity.Service) *SessionHandler {
	return &SessionHandler{identity: identity}
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Email == "" {
		WriteError(w, NewInvalidRequestError("email is required"))
		return
	}

	user, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponse{User: response.UserFromModel(user)})
}

// Register handles POST /api/v1/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.identity.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionResponse{User: response.UserFromModel(user)})
}

// Demo handles POST /api/v1/session/demo
func (h *SessionHandler) Demo(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.EnterDemo(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionResponse{User: response.UserFromModel(user)})
}

// Logout handles DELETE /api/v1/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.Current(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponse{User: response.UserFromModel(user)})
}
