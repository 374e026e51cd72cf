package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OfirNeeman/ai-stylist/internal/apperror"
	"github.com/OfirNeeman/ai-stylist/internal/model"
	"github.com/OfirNeeman/ai-stylist/internal/repository"
)

// Budget bounds for recommendation requests. These mirror the range the
// client's slider offers; values outside are a validation error, not a
// clamp, so a buggy client fails loudly.
const (
	MinBudget = 20
	MaxBudget = 500
)

// ModelClient is the capability the stylist service needs from the hosted
// models: turn a profile plus filters into a recommendation bundle, and
// turn a photo into a profile. internal/stylist provides the Gemini
// implementation; tests provide fakes.
type ModelClient interface {
	Recommend(ctx context.Context, profile *model.UserProfile, budget float64, clothingType string) (*model.StyleRecommendation, error)
	AnalyzeImage(ctx context.Context, data []byte, mimeType string) (*model.UserProfile, error)
}

// StylistService orchestrates profile management, the saved closet, and
// hosted-model calls on behalf of an authenticated user.
type StylistService struct {
	users  repository.UserRepository
	models ModelClient
	logger *slog.Logger
}

// NewStylistService creates a StylistService.
func NewStylistService(users repository.UserRepository, models ModelClient, logger *slog.Logger) *StylistService {
	return &StylistService{users: users, models: models, logger: logger}
}

// SaveProfile validates and persists a complete profile, replacing any
// previous one wholesale. There is no partial update path.
func (s *StylistService) SaveProfile(ctx context.Context, username string, profile *model.UserProfile) error {
	if profile == nil {
		return apperror.ValidationFailed("profile", "profile is required")
	}
	if err := profile.Validate(); err != nil {
		return apperror.ValidationFailed("profile", err.Error())
	}

	if err := s.users.UpdateProfile(ctx, username, profile); err != nil {
		return fmt.Errorf("service/stylist: saving profile for %s: %w", username, err)
	}

	s.logger.Info("profile saved",
		slog.String("username", username),
		slog.String("aesthetic", string(profile.Aesthetic)),
	)
	return nil
}

// SaveItems persists the user's closet, replacing it wholesale.
//
// The imageUrl-uniqueness invariant is enforced here: duplicates are
// dropped keeping the first occurrence, so no sequence of client calls
// can produce two closet entries with the same URL.
func (s *StylistService) SaveItems(ctx context.Context, username string, items []model.ClothingItem) ([]model.ClothingItem, error) {
	deduped := dedupeByImageURL(items)

	if err := s.users.UpdateSavedItems(ctx, username, deduped); err != nil {
		return nil, fmt.Errorf("service/stylist: saving items for %s: %w", username, err)
	}
	return deduped, nil
}

// AnalyzeProfileImage sends a photo to the vision model and, on success,
// commits the derived profile. On any failure nothing is committed — the
// user keeps whatever profile they had.
func (s *StylistService) AnalyzeProfileImage(ctx context.Context, username string, data []byte, mimeType string) (*model.UserProfile, error) {
	if len(data) == 0 {
		return nil, apperror.ValidationFailed("image", "No image uploaded")
	}

	profile, err := s.models.AnalyzeImage(ctx, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("service/stylist: analyzing image for %s: %w", username, err)
	}

	if err := profile.Validate(); err != nil {
		return nil, apperror.AnalysisFailed("Failed to analyze image")
	}

	if err := s.users.UpdateProfile(ctx, username, profile); err != nil {
		return nil, fmt.Errorf("service/stylist: saving analyzed profile for %s: %w", username, err)
	}

	s.logger.Info("profile derived from image", slog.String("username", username))
	return profile, nil
}

// Recommend fetches the user's profile and asks the stylist model for a
// recommendation bundle. Results are never cached — every call is a fresh
// generation, which is why the client debounces before calling.
func (s *StylistService) Recommend(ctx context.Context, username string, budget float64, clothingType string) (*model.StyleRecommendation, error) {
	if clothingType == "" {
		return nil, apperror.ValidationFailed("clothingType", "clothing type is required")
	}
	if budget < MinBudget || budget > MaxBudget {
		return nil, apperror.ValidationFailed("budget",
			fmt.Sprintf("budget must be between %d and %d", MinBudget, MaxBudget))
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service/stylist: fetching user %s: %w", username, err)
	}
	if !user.HasProfile() {
		return nil, apperror.ValidationFailed("profile", "complete your style profile first")
	}

	rec, err := s.models.Recommend(ctx, user.Profile, budget, clothingType)
	if err != nil {
		return nil, fmt.Errorf("service/stylist: generating recommendation for %s: %w", username, err)
	}

	return rec, nil
}

// dedupeByImageURL drops later duplicates, preserving order. The result
// is never nil.
func dedupeByImageURL(items []model.ClothingItem) []model.ClothingItem {
	out := make([]model.ClothingItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.ImageURL] {
			continue
		}
		seen[item.ImageURL] = true
		out = append(out, item)
	}
	return out
}
