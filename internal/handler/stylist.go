package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/auth"
	"github.com/OfirNeeman/ai-stylist/internal/service"
)

// StylistHandler exposes the recommendation endpoint. The hosted-model
// call happens server-side so the API key never reaches a client.
type StylistHandler struct {
	stylist *service.StylistService
	logger  *slog.Logger
}

// NewStylistHandler creates a StylistHandler.
func NewStylistHandler(stylist *service.StylistService, logger *slog.Logger) *StylistHandler {
	return &StylistHandler{stylist: stylist, logger: logger}
}

// HandleRecommendations generates a fresh recommendation bundle for the
// authenticated user's profile and the given filters. Nothing is cached;
// the client is expected to debounce.
//
// HTTP: POST /recommendations (bearer)
func (h *StylistHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	var req struct {
		Budget       float64 `json:"budget"`
		ClothingType string  `json:"clothingType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	rec, err := h.stylist.Recommend(r.Context(), username, req.Budget, req.ClothingType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
