package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/auth"
	"github.com/OfirNeeman/ai-stylist/internal/model"
	"github.com/OfirNeeman/ai-stylist/internal/service"
)

// maxImageBytes caps profile photo uploads. Phone photos run a few MB;
// anything bigger is not a photo we can usefully analyze.
const maxImageBytes = 10 << 20

// ProfileHandler exposes the authenticated profile and closet endpoints.
// Every route here sits behind auth.RequireAuth, so the username is
// always present in the request context.
type ProfileHandler struct {
	stylist *service.StylistService
	logger  *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(stylist *service.StylistService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{stylist: stylist, logger: logger}
}

// HandleSaveProfile replaces the user's style profile.
//
// HTTP: POST /save-profile (bearer)
func (h *ProfileHandler) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	var req struct {
		Profile *model.UserProfile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.stylist.SaveProfile(r.Context(), username, req.Profile); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": req.Profile,
	})
}

// HandleSaveItems replaces the user's saved closet.
//
// HTTP: POST /save-items (bearer)
func (h *ProfileHandler) HandleSaveItems(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	var req struct {
		Items []model.ClothingItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	saved, err := h.stylist.SaveItems(r.Context(), username, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"savedItems": saved,
	})
}

// HandleUploadProfileImage accepts a multipart photo upload, runs the
// vision analysis, and commits the derived profile.
//
// HTTP: POST /upload-profile-image (bearer, multipart field "image")
func (h *ProfileHandler) HandleUploadProfileImage(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, apperror.ValidationFailed("image", "No image uploaded"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "No image uploaded"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "No image uploaded"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	profile, err := h.stylist.AnalyzeProfileImage(r.Context(), username, data, mimeType)
	if err != nil {
		h.logger.Warn("image analysis failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"profile": profile,
	})
}
