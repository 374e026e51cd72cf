package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/model"
	"github.com/OfirNeeman/ai-stylist/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// profileEnvelope is the on-disk form of a profile blob.
//
// The blob is versioned so the schema can evolve without a migration pass
// over existing rows: {"v":1,"profile":{...}}. Rows written before the
// envelope existed hold the bare profile object; decodeProfile still
// accepts those as version 0.
type profileEnvelope struct {
	Version int                `json:"v"`
	Profile *model.UserProfile `json:"profile"`
}

const profileVersion = 1

// encodeProfile serializes a profile into its versioned envelope.
// A nil profile encodes to the empty string, stored as NULL.
func encodeProfile(p *model.UserProfile) (string, error) {
	if p == nil {
		return "", nil
	}
	raw, err := json.Marshal(profileEnvelope{Version: profileVersion, Profile: p})
	if err != nil {
		return "", fmt.Errorf("encoding profile: %w", err)
	}
	return string(raw), nil
}

// decodeProfile parses a stored profile blob.
//
// Policy: a malformed blob degrades to an absent profile rather than
// failing the read. A row that cannot be decoded behaves exactly like a
// user who never completed the wizard, and the app re-collects the
// profile instead of locking the account out.
func decodeProfile(raw string) *model.UserProfile {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}

	var env profileEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Profile != nil {
		return env.Profile
	}

	// Legacy (pre-envelope) rows hold the bare object.
	var legacy model.UserProfile
	if err := json.Unmarshal([]byte(raw), &legacy); err == nil && legacy.Aesthetic != "" {
		return &legacy
	}

	return nil
}

// decodeSavedItems parses a stored saved-items blob, degrading to an
// empty closet on garbage. The slice is never nil so JSON responses
// render [] rather than null.
func decodeSavedItems(raw string) []model.ClothingItem {
	items := []model.ClothingItem{}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []model.ClothingItem{}
	}
	return items
}

// Create inserts a new user row. The username primary key enforces
// uniqueness; a duplicate insert surfaces as apperror.ErrConflict and
// never touches the existing row.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	items, err := json.Marshal(user.SavedItems)
	if err != nil {
		return fmt.Errorf("sqlite: encoding saved items: %w", err)
	}
	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, profile, saved_items)
		 VALUES (?, ?, ?, ?)`,
		user.Username,
		user.PasswordHash,
		nullable(profile),
		string(items),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByUsername retrieves a user by username.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var (
		u          model.User
		profile    sql.NullString
		savedItems sql.NullString
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT username, password_hash, profile, saved_items
		 FROM users WHERE username = ?`,
		username,
	).Scan(&u.Username, &u.PasswordHash, &profile, &savedItems)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", username, err)
	}

	u.Profile = decodeProfile(profile.String)
	u.SavedItems = decodeSavedItems(savedItems.String)

	return &u, nil
}

// UpdateProfile replaces the stored profile wholesale.
// Returns apperror.ErrNotFound if the username does not exist.
func (db *DB) UpdateProfile(ctx context.Context, username string, profile *model.UserProfile) error {
	encoded, err := encodeProfile(profile)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET profile = ? WHERE username = ?`,
		nullable(encoded), username,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile for %s: %w", username, err)
	}

	return requireRow(res, username)
}

// UpdateSavedItems replaces the stored closet wholesale.
// Returns apperror.ErrNotFound if the username does not exist.
func (db *DB) UpdateSavedItems(ctx context.Context, username string, items []model.ClothingItem) error {
	if items == nil {
		items = []model.ClothingItem{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("sqlite: encoding saved items: %w", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET saved_items = ? WHERE username = ?`,
		string(encoded), username,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating saved items for %s: %w", username, err)
	}

	return requireRow(res, username)
}

// requireRow converts an UPDATE that matched nothing into ErrNotFound.
func requireRow(res sql.Result, username string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", username)
	}
	return nil
}

// nullable turns an empty string into a SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation reports whether err is a primary-key/unique
// constraint failure. modernc.org/sqlite exposes these as a wrapped
// sqlite error whose message carries the standard SQLite constraint
// text, so matching on the message is the portable check.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: users.username")
}
