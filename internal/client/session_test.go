package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/model"
)

// fakeServer emulates just enough of the stylist API for session tests.
// Tokens are "tok-<username>"; anything else is rejected.
type fakeServer struct {
	users map[string]*model.User // username → record; password is always "pw"
}

func newFakeServer() *fakeServer {
	return &fakeServer{users: make(map[string]*model.User)}
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	fail := func(w http.ResponseWriter, status int, errType, msg string) {
		writeJSON(w, status, map[string]string{"error": errType, "message": msg})
	}
	userFromToken := func(r *http.Request) (*model.User, bool) {
		auth := r.Header.Get("Authorization")
		if len(auth) < 8 {
			return nil, false
		}
		u, ok := f.users[auth[len("Bearer tok-"):]]
		return u, ok
	}

	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := f.users[req.Username]; ok {
			fail(w, http.StatusBadRequest, "conflict", "user already exists: "+req.Username)
			return
		}
		u := &model.User{Username: req.Username, SavedItems: []model.ClothingItem{}}
		f.users[req.Username] = u
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-" + req.Username, "user": u})
	})

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		u, ok := f.users[req.Username]
		if !ok || req.Password != "pw" {
			fail(w, http.StatusBadRequest, "validation_error", "Invalid credentials")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-" + req.Username, "user": u})
	})

	mux.HandleFunc("/get-user", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Token string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Token) < 5 {
			fail(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
			return
		}
		u, ok := f.users[req.Token[len("tok-"):]]
		if !ok {
			fail(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": u})
	})

	mux.HandleFunc("/save-profile", func(w http.ResponseWriter, r *http.Request) {
		u, ok := userFromToken(r)
		if !ok {
			fail(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
			return
		}
		var req struct {
			Profile *model.UserProfile `json:"profile"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Profile == nil || req.Profile.Validate() != nil {
			fail(w, http.StatusBadRequest, "validation_error", "invalid profile")
			return
		}
		u.Profile = req.Profile
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": req.Profile})
	})

	mux.HandleFunc("/save-items", func(w http.ResponseWriter, r *http.Request) {
		u, ok := userFromToken(r)
		if !ok {
			fail(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
			return
		}
		var req struct {
			Items []model.ClothingItem `json:"items"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Items == nil {
			req.Items = []model.ClothingItem{}
		}
		u.SavedItems = req.Items
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "savedItems": req.Items})
	})

	return mux
}

type sessionEnv struct {
	fake    *fakeServer
	session *Session
	store   *TokenStore
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()

	fake := newFakeServer()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := NewTokenStoreAt(filepath.Join(t.TempDir(), "token"))
	session := NewSession(NewAPI(srv.URL), store)
	return &sessionEnv{fake: fake, session: session, store: store}
}

func readyProfile() *model.UserProfile {
	return &model.UserProfile{
		Aesthetic: model.AestheticGrunge,
		BodyShape: model.BodyShapeApple,
		HairColor: "black",
		SkinTone:  "pale",
		EyeColor:  "gray",
	}
}

// =========================================================================
// TESTS
// =========================================================================

func TestSession_StartsLoading(t *testing.T) {
	env := newSessionEnv(t)
	if env.session.State() != StateLoading {
		t.Fatalf("initial state = %v, want Loading", env.session.State())
	}
}

func TestHydrate_NoTokenLandsAnonymous(t *testing.T) {
	env := newSessionEnv(t)

	if err := env.session.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if env.session.State() != StateAnonymous {
		t.Fatalf("state = %v, want Anonymous", env.session.State())
	}
}

func TestHydrate_DeadTokenClearedAndAnonymous(t *testing.T) {
	env := newSessionEnv(t)
	if err := env.store.Save("tok-ghost"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := env.session.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if env.session.State() != StateAnonymous {
		t.Fatalf("state = %v, want Anonymous", env.session.State())
	}
	if tok, _ := env.store.Load(); tok != "" {
		t.Errorf("dead token not cleared from disk: %q", tok)
	}
}

func TestHydrate_TokenWithProfileLandsReady(t *testing.T) {
	env := newSessionEnv(t)
	env.fake.users["alice"] = &model.User{
		Username: "alice", Profile: readyProfile(), SavedItems: []model.ClothingItem{},
	}
	if err := env.store.Save("tok-alice"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := env.session.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if env.session.State() != StateReady {
		t.Fatalf("state = %v, want Ready", env.session.State())
	}
	if env.session.User().Username != "alice" {
		t.Errorf("user = %q", env.session.User().Username)
	}
}

func TestHydrate_TokenWithoutProfileLandsNeedsProfile(t *testing.T) {
	env := newSessionEnv(t)
	env.fake.users["bob"] = &model.User{Username: "bob", SavedItems: []model.ClothingItem{}}
	if err := env.store.Save("tok-bob"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := env.session.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	if env.session.State() != StateNeedsProfile {
		t.Fatalf("state = %v, want NeedsProfile", env.session.State())
	}
}

func TestSignup_EntersNeedsProfileAndPersistsToken(t *testing.T) {
	env := newSessionEnv(t)
	_ = env.session.Hydrate(context.Background())

	if err := env.session.Signup(context.Background(), "carol", "pw"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if env.session.State() != StateNeedsProfile {
		t.Fatalf("state = %v, want NeedsProfile", env.session.State())
	}
	if tok, _ := env.store.Load(); tok != "tok-carol" {
		t.Errorf("persisted token = %q", tok)
	}
}

func TestSignup_ConflictKeepsAnonymous(t *testing.T) {
	env := newSessionEnv(t)
	env.fake.users["carol"] = &model.User{Username: "carol"}
	_ = env.session.Hydrate(context.Background())

	err := env.session.Signup(context.Background(), "carol", "pw")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Signup() error = %v, want ErrConflict", err)
	}
	if env.session.State() != StateAnonymous {
		t.Fatalf("state = %v, want Anonymous after failed signup", env.session.State())
	}
}

func TestLogin_WithProfileEntersReady(t *testing.T) {
	env := newSessionEnv(t)
	env.fake.users["alice"] = &model.User{
		Username: "alice", Profile: readyProfile(), SavedItems: []model.ClothingItem{},
	}
	_ = env.session.Hydrate(context.Background())

	if err := env.session.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if env.session.State() != StateReady {
		t.Fatalf("state = %v, want Ready", env.session.State())
	}
}

func TestSaveProfile_AdvancesToReady(t *testing.T) {
	env := newSessionEnv(t)
	_ = env.session.Hydrate(context.Background())
	if err := env.session.Signup(context.Background(), "dora", "pw"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := env.session.SaveProfile(context.Background(), readyProfile()); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if env.session.State() != StateReady {
		t.Fatalf("state = %v, want Ready", env.session.State())
	}
}

func TestSaveProfile_FailureKeepsNeedsProfile(t *testing.T) {
	env := newSessionEnv(t)
	_ = env.session.Hydrate(context.Background())
	if err := env.session.Signup(context.Background(), "dora", "pw"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	bad := readyProfile()
	bad.Aesthetic = "Cottagecore"
	err := env.session.SaveProfile(context.Background(), bad)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("SaveProfile(bad) error = %v, want ErrValidation", err)
	}
	if env.session.State() != StateNeedsProfile {
		t.Fatalf("state = %v, want NeedsProfile", env.session.State())
	}
}

func TestToggleItem_AddThenRemove(t *testing.T) {
	env := newSessionEnv(t)
	env.fake.users["alice"] = &model.User{
		Username: "alice", Profile: readyProfile(), SavedItems: []model.ClothingItem{},
	}
	_ = env.store.Save("tok-alice")
	_ = env.session.Hydrate(context.Background())

	item := model.ClothingItem{Name: "Leather Jacket", ImageURL: "https://picsum.photos/seed/j/400/600"}

	if err := env.session.ToggleItem(context.Background(), item); err != nil {
		t.Fatalf("first ToggleItem() error = %v", err)
	}
	if len(env.session.User().SavedItems) != 1 {
		t.Fatalf("closet = %d items, want 1", len(env.session.User().SavedItems))
	}

	if err := env.session.ToggleItem(context.Background(), item); err != nil {
		t.Fatalf("second ToggleItem() error = %v", err)
	}
	if len(env.session.User().SavedItems) != 0 {
		t.Fatalf("closet = %d items, want 0 after second toggle", len(env.session.User().SavedItems))
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	env := newSessionEnv(t)
	_ = env.session.Hydrate(context.Background())
	if err := env.session.Signup(context.Background(), "erin", "pw"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := env.session.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if env.session.State() != StateAnonymous {
		t.Fatalf("state = %v, want Anonymous", env.session.State())
	}
	if env.session.Token() != "" || env.session.User() != nil {
		t.Error("token or user survived logout")
	}
	if tok, _ := env.store.Load(); tok != "" {
		t.Errorf("stored token survived logout: %q", tok)
	}
}
