package model

import "fmt"

// ColorPalette is the named palette the stylist model derives from the
// user's coloring (hair, skin, eyes).
type ColorPalette struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	HexCodes    []string `json:"hexCodes"`
}

// StyleRecommendation is one stylist answer: a palette, a paragraph of
// advice, and a handful of fictional items to shop for.
//
// Recommendations are ephemeral. They are regenerated on every filter
// change and never persisted — only individual items survive, by being
// saved into the user's closet.
type StyleRecommendation struct {
	ColorPalette     ColorPalette   `json:"colorPalette"`
	StyleAdvice      string         `json:"styleAdvice"`
	RecommendedItems []ClothingItem `json:"recommendedItems"`
}

// Validate enforces the declared schema on a decoded recommendation.
// The hosted model is schema-constrained, but a response that slips
// through missing its palette or items is useless to render, so we
// reject it here rather than show half a result.
func (r *StyleRecommendation) Validate() error {
	if r.ColorPalette.Name == "" || len(r.ColorPalette.HexCodes) == 0 {
		return fmt.Errorf("recommendation missing color palette")
	}
	if r.StyleAdvice == "" {
		return fmt.Errorf("recommendation missing style advice")
	}
	if len(r.RecommendedItems) == 0 {
		return fmt.Errorf("recommendation has no items")
	}
	for i, item := range r.RecommendedItems {
		if item.Name == "" || item.ImageURL == "" {
			return fmt.Errorf("recommended item %d missing name or image URL", i)
		}
		if item.Price < 0 {
			return fmt.Errorf("recommended item %d has negative price", i)
		}
	}
	return nil
}
