package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/model"
	"github.com/OfirNeeman/ai-stylist/internal/service"
)

// AuthHandler exposes the credential endpoints:
//
//   - HandleSignup  → register a new account, respond with a session token
//   - HandleLogin   → verify credentials, respond with a fresh token
//   - HandleGetUser → resolve a stored token back into the user record
//
// Handlers decode the request, call the service, and encode the response.
// No business rules live here.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// credentialsRequest is the body of both /signup and /login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse is the body of both /signup and /login: the session token
// plus the full user record so the client can hydrate in one round trip.
type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.auth.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// HandleLogin verifies a username/password pair.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// HandleGetUser resolves a stored token into the current user record.
// Clients call it on startup to rehydrate a session; any failure means
// the stored token is dead and must be discarded.
//
// HTTP: POST /get-user
func (h *AuthHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Unauthorized("Invalid token"))
		return
	}

	user, err := h.auth.GetUserByToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}
