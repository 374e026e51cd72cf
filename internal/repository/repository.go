// Package repository declares the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/OfirNeeman/ai-stylist/internal/model"
)

// UserRepository is the single persisted collection in the system: a map
// from unique username to password hash, optional profile, and saved items.
//
// Contract:
//   - Create fails with apperror.ErrConflict if the username exists.
//   - GetByUsername fails with apperror.ErrNotFound if it doesn't.
//   - UpdateProfile and UpdateSavedItems fail with apperror.ErrNotFound
//     for an absent username, and always replace wholesale.
//
// Uniqueness of the username is the only schema invariant storage
// enforces. Profile and saved items are opaque serialized blobs: a
// malformed blob degrades to absent/empty on read instead of failing.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, username string, profile *model.UserProfile) error
	UpdateSavedItems(ctx context.Context, username string, items []model.ClothingItem) error
}
