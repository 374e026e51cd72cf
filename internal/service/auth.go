// Package service holds the business logic, between HTTP handlers and the
// repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT)
//
// Services never read HTTP requests and never set headers. Handlers never
// touch the database. That separation is what keeps both sides testable.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/auth"
	"github.com/OfirNeeman/ai-stylist/internal/model"
	"github.com/OfirNeeman/ai-stylist/internal/repository"
)

// AuthService handles signup, login, and token-bound user lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Called from server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued token so the handler
// can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup registers a new account and logs it in.
//
// The username must be unused: the repository's Create surfaces
// ErrConflict for duplicates and never mutates the existing record.
// A fresh user has no profile and an empty closet, which is what routes
// the client into the profile builder after signup.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "username and password are required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		SavedItems:   []model.ClothingItem{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %s: %w", username, err)
	}

	s.logger.Info("user signed up", slog.String("username", username))

	token, err := s.tokens.Issue(username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", username, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a username/password pair and issues a fresh token.
//
// An unknown username and a wrong password both return the same
// "Invalid credentials" error: distinguishing them would let an attacker
// enumerate which usernames exist. The failure is a validation error
// (400 on the wire) — unauthorized is reserved for rejected tokens on an
// established session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.ValidationFailed("credentials", "Invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.ValidationFailed("credentials", "Invalid credentials")
	}

	s.logger.Info("user logged in", slog.String("username", username))

	token, err := s.tokens.Issue(username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", username, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByToken verifies a token and returns the current persisted record
// for the username it binds. Used by /get-user when a client rehydrates
// its session from a stored token.
//
// Any verification failure (expired, tampered, garbage) collapses into
// one Unauthorized outcome; the cause is logged but not surfaced.
func (s *AuthService) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	username, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug("token rejected", slog.String("error", err.Error()))
		return nil, apperror.Unauthorized("Invalid token")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// A valid token for a vanished user still reads as unauthorized.
		return nil, apperror.Unauthorized("Invalid token")
	}

	return user, nil
}
