package handler

import (
	"net/http"

	"github.com/mcoot/nexus/internal/api/request"
	"github.com/mcoot/nexus/internal/api/response"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/billing"
	"github.com/mcoot/nexus/internal/services/settings"
)

// AccountHandler handles billing, sharing and preferences
type AccountHandler struct {
	billing  *billing.Service
	settings *settings.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(billing *billing.Service, settings *settings.Service) *AccountHandler {
	return &AccountHandler{billing: billing, settings: settings}
}

// Share handles GET /api/v1/share
func (h *AccountHandler) Share(w http.ResponseWriter, r *http.Request) {
	payload, err := h.billing.Share(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, payload)
}

// Checkout handles GET /api/v1/billing/checkout.
// The link is fire-and-forget; nothing here changes the tier.
func (h *AccountHandler) Checkout(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.CheckoutResponse{
		URL:      h.billing.CheckoutURL(),
		Item:     billing.ItemName,
		Amount:   billing.Amount,
		Currency: billing.Currency,
	})
}

// GetSettings handles GET /api/v1/settings
func (h *AccountHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.settings.Get(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SettingsFromModel(prefs))
}

// UpdateSettings handles PUT /api/v1/settings
func (h *AccountHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.SettingsRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	prefs, err := h.settings.Update(r.Context(), model.Preferences{
		Theme:    model.Theme(req.Theme),
		Language: req.Language,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SettingsFromModel(prefs))
}
