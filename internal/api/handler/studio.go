package handler

import (
	"net/http"

	"github.com/mcoot/nexus/internal/api/request"
	"github.com/mcoot/nexus/internal/api/response"
	"github.com/mcoot/nexus/internal/services/studio"
)

// StudioHandler handles the credit-metered modules
type StudioHandler struct {
	studio *studio.Service
}

// NewStudioHandler creates a new studio handler
func NewStudioHandler(studio *studio.Service) *StudioHandler {
	return &StudioHandler{studio: studio}
}

// Chat handles POST /api/v1/modules/chat
func (h *StudioHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req request.ChatRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	reply, err := h.studio.Chat(r.Context(), req.Prompt)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ChatResponse{Reply: response.MessageFromModel(*reply)})
}

// History handles GET /api/v1/modules/chat/history
func (h *StudioHandler) History(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.studio.ChatHistory(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryFromModel(msgs))
}

// ClearHistory handles DELETE /api/v1/modules/chat/history
func (h *StudioHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.studio.ClearChat(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Canvas handles POST /api/v1/modules/canvas
func (h *StudioHandler) Canvas(w http.ResponseWriter, r *http.Request) {
	var req request.CanvasRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	art, err := h.studio.Paint(r.Context(), req.Prompt)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ArtworkFromModel(*art))
}

// Gallery handles GET /api/v1/modules/canvas/history
func (h *StudioHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	arts := h.studio.Gallery()
	resp := response.GalleryResponse{Artworks: make([]response.Artwork, 0, len(arts))}
	for _, a := range arts {
		resp.Artworks = append(resp.Artworks, response.ArtworkFromModel(a))
	}

	response.JSON(w, http.StatusOK, resp)
}

// Voice handles POST /api/v1/modules/voice
func (h *StudioHandler) Voice(w http.ResponseWriter, r *http.Request) {
	var req request.VoiceRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	speech, err := h.studio.Speak(r.Context(), req.Text, req.Voice)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SpeechFromModel(speech))
}

// Voices handles GET /api/v1/modules/voice/voices
func (h *StudioHandler) Voices(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.VoicesResponse{
		Default: studio.DefaultVoice,
		Voices:  studio.Voices(),
	})
}

// Lens handles POST /api/v1/modules/lens
func (h *StudioHandler) Lens(w http.ResponseWriter, r *http.Request) {
	var req request.LensRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	img, err := studio.ParseImage(req.Image)
	if err != nil {
		WriteError(w, err)
		return
	}

	analysis, err := h.studio.Inspect(r.Context(), img, req.Prompt)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AnalysisResponse{Analysis: analysis})
}
