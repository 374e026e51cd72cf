// Package auth provides JWT token issuing and verification plus password
// hashing for the stylist API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client POSTs /signup or /login with a username and password
// 2. Server verifies credentials and issues a signed JWT bound to the username
// 3. Client stores the token (and nothing else) across restarts
// 4. On every authenticated request the token rides the Authorization header;
//    middleware verifies it and sets the username in the request context
//
// The token is stateless: the server keeps no record of issued tokens.
// Validity is purely a function of the HMAC signature and the expiry claim,
// so "logout" is simply the client discarding its copy.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is how long an issued session token stays valid. After this the
// client must log in again; there is no refresh-token flow.
const tokenTTL = time.Hour

// TokenService issues and verifies the signed session tokens.
// It holds the HMAC secret, which must come from configuration — the same
// secret signs and verifies, so rotating it invalidates every live session.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: STYLIST_JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The standard "sub" (Subject) claim carries the
// username; expiry and issued-at are the registered claims.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given username.
//
// Signing algorithm: HS256 (HMAC-SHA256). Symmetric, single-server — the
// same deployment that issues tokens verifies them.
func (s *TokenService) Issue(username string) (string, error) {
	return s.IssueWithDuration(username, tokenTTL)
}

// IssueWithDuration creates a token with a custom expiry. The server always
// uses the fixed TTL; tests use this to mint already-expired tokens.
func (s *TokenService) IssueWithDuration(username string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "ai-stylist",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a token string and returns the username it binds.
//
// The jwt library checks the signature, the expiry, the issuer, and that the
// algorithm really is HS256 (jwt.WithValidMethods closes the algorithm
// confusion hole where a token claims "none" and sails through).
//
// Expired and tampered tokens return different wrapped errors here, but
// callers are expected to collapse both into the same client-visible
// "Invalid token" outcome.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("ai-stylist"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
