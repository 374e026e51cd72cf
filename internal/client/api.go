// Package client is the terminal frontend: an HTTP client for the
// stylist API, a session state machine, the profile wizard, a debounced
// recommendation fetcher, and the REPL that ties them together.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/model"
)

// API is the typed HTTP client for the stylist server.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI creates an API client for the given server base URL.
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

// AuthResult mirrors the /signup and /login response body.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Signup registers a new account.
func (a *API) Signup(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	err := a.postJSON(ctx, "/signup", "", map[string]string{
		"username": username, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates an existing account.
func (a *API) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	err := a.postJSON(ctx, "/login", "", map[string]string{
		"username": username, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser resolves a stored token into the current user record.
func (a *API) GetUser(ctx context.Context, token string) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	err := a.postJSON(ctx, "/get-user", "", map[string]string{"token": token}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// SaveProfile replaces the server-side profile.
func (a *API) SaveProfile(ctx context.Context, token string, profile *model.UserProfile) error {
	return a.postJSON(ctx, "/save-profile", token, map[string]any{"profile": profile}, nil)
}

// SaveItems replaces the server-side closet and returns what the server
// actually stored.
func (a *API) SaveItems(ctx context.Context, token string, items []model.ClothingItem) ([]model.ClothingItem, error) {
	var out struct {
		SavedItems []model.ClothingItem `json:"savedItems"`
	}
	err := a.postJSON(ctx, "/save-items", token, map[string]any{"items": items}, &out)
	if err != nil {
		return nil, err
	}
	return out.SavedItems, nil
}

// Recommend requests a fresh recommendation bundle.
func (a *API) Recommend(ctx context.Context, token string, budget float64, clothingType string) (*model.StyleRecommendation, error) {
	var out model.StyleRecommendation
	err := a.postJSON(ctx, "/recommendations", token, map[string]any{
		"budget": budget, "clothingType": clothingType,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadProfileImage sends a photo as multipart form data and returns
// the profile the server derived from it.
func (a *API) UploadProfileImage(ctx context.Context, token, filename string, data []byte, mimeType string) (*model.UserProfile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("client: building upload: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("client: building upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client: building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/upload-profile-image", &buf)
	if err != nil {
		return nil, fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var out struct {
		Profile *model.UserProfile `json:"profile"`
	}
	if err := a.do(req, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// postJSON sends one JSON POST. token, when non-empty, rides the bearer
// header. out, when non-nil, receives the decoded success body.
func (a *API) postJSON(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("client: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return a.do(req, out)
}

// do executes the request and maps error responses back onto the same
// apperror sentinels the server used, so client code can errors.Is its
// way through failures exactly like server code does.
func (a *API) do(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: calling server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return mapStatusError(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("client: decoding response: %w", err)
		}
	}
	return nil
}

func mapStatusError(status int, body []byte) error {
	var er struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &er)
	if er.Message == "" {
		er.Message = fmt.Sprintf("server returned status %d", status)
	}

	// Rebuild the server's sentinel with its message verbatim. A taken
	// username shares the 400 status with validation failures, so the
	// error type field disambiguates.
	if er.Error == "conflict" {
		return &apperror.AppError{Err: apperror.ErrConflict, Message: er.Message}
	}
	switch status {
	case http.StatusBadRequest:
		return &apperror.AppError{Err: apperror.ErrValidation, Message: er.Message}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &apperror.AppError{Err: apperror.ErrUnauthorized, Message: er.Message}
	case http.StatusNotFound:
		return &apperror.AppError{Err: apperror.ErrNotFound, Message: er.Message}
	case http.StatusTooManyRequests:
		return &apperror.AppError{Err: apperror.ErrQuota, Message: er.Message}
	case http.StatusBadGateway:
		return &apperror.AppError{Err: apperror.ErrAnalysis, Message: er.Message}
	default:
		return fmt.Errorf("client: %s", er.Message)
	}
}
