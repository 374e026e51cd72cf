package client

import (
	"context"
	"fmt"

	"github.com/OfirNeeman/ai-stylist/internal/model"
)

// State is the session lifecycle position. Transitions:
//
//	Loading ──hydrate ok, profile set──────▶ Ready
//	Loading ──hydrate ok, no profile───────▶ NeedsProfile
//	Loading ──no token / dead token────────▶ Anonymous
//	Anonymous ──signup─────────────────────▶ NeedsProfile
//	Anonymous ──login──────────────────────▶ NeedsProfile | Ready
//	NeedsProfile ──profile saved───────────▶ Ready
//	any ──logout───────────────────────────▶ Anonymous
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateNeedsProfile
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateNeedsProfile:
		return "needs-profile"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is the client-side state machine. It owns the token, the
// in-memory user record, and the TokenStore; the store is touched only
// here, at state transitions, never from command code.
type Session struct {
	api   *API
	store *TokenStore

	state State
	token string
	user  *model.User
}

// NewSession creates a Session in the Loading state. Call Hydrate before
// anything else.
func NewSession(api *API, store *TokenStore) *Session {
	return &Session{api: api, store: store, state: StateLoading}
}

func (s *Session) State() State      { return s.state }
func (s *Session) User() *model.User { return s.user }
func (s *Session) Token() string     { return s.token }

// Hydrate resolves the stored token into a live session. Every failure
// path, from an unreadable file to a rejected token, clears the stored
// token and lands in Anonymous; a stale session must never wedge the
// client.
func (s *Session) Hydrate(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil || token == "" {
		s.toAnonymous()
		return err
	}

	user, err := s.api.GetUser(ctx, token)
	if err != nil {
		_ = s.store.Clear()
		s.toAnonymous()
		return nil // a dead token is an expected outcome, not an error
	}

	s.token = token
	s.applyUser(user)
	return nil
}

// Signup registers a new account and enters NeedsProfile (a fresh
// account never has a profile).
func (s *Session) Signup(ctx context.Context, username, password string) error {
	result, err := s.api.Signup(ctx, username, password)
	if err != nil {
		return err
	}
	return s.adopt(result)
}

// Login authenticates and enters NeedsProfile or Ready depending on
// whether a profile is already on record.
func (s *Session) Login(ctx context.Context, username, password string) error {
	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.adopt(result)
}

// Logout drops the session and the stored token.
func (s *Session) Logout() error {
	err := s.store.Clear()
	s.toAnonymous()
	return err
}

// SaveProfile pushes a profile to the server and, on success, advances
// to Ready. On failure the session state is untouched.
func (s *Session) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	if err := s.api.SaveProfile(ctx, s.token, profile); err != nil {
		return err
	}
	s.user.Profile = profile
	s.state = StateReady
	return nil
}

// AdoptProfile records a server-derived profile (from photo analysis,
// which the server has already committed) and advances to Ready.
func (s *Session) AdoptProfile(profile *model.UserProfile) {
	s.user.Profile = profile
	s.state = StateReady
}

// ToggleItem flips one item in the closet, keyed by image URL, and
// persists the result. The local closet is only updated with what the
// server confirms.
func (s *Session) ToggleItem(ctx context.Context, item model.ClothingItem) error {
	next := model.ToggleItem(s.user.SavedItems, item)
	saved, err := s.api.SaveItems(ctx, s.token, next)
	if err != nil {
		return err
	}
	s.user.SavedItems = saved
	return nil
}

// adopt installs a fresh auth result and persists its token.
func (s *Session) adopt(result *AuthResult) error {
	s.token = result.Token
	s.applyUser(result.User)
	if err := s.store.Save(result.Token); err != nil {
		return fmt.Errorf("session is live but the token could not be persisted: %w", err)
	}
	return nil
}

func (s *Session) applyUser(user *model.User) {
	s.user = user
	if user.HasProfile() {
		s.state = StateReady
	} else {
		s.state = StateNeedsProfile
	}
}

func (s *Session) toAnonymous() {
	s.state = StateAnonymous
	s.token = ""
	s.user = nil
}
