package model

import "fmt"

// Aesthetic is the user's chosen style direction. The set is fixed — the
// wizard offers exactly these and the recommendation prompt interpolates
// the value verbatim, so free-form text is not allowed.
type Aesthetic string

const (
	AestheticMinimalist Aesthetic = "Minimalist"
	AestheticVintage    Aesthetic = "Vintage"
	AestheticBohemian   Aesthetic = "Bohemian"
	AestheticStreetwear Aesthetic = "Streetwear"
	AestheticPreppy     Aesthetic = "Preppy"
	AestheticGrunge     Aesthetic = "Grunge"
	AestheticArty       Aesthetic = "Arty"
)

// Aesthetics lists every valid aesthetic in wizard display order.
func Aesthetics() []Aesthetic {
	return []Aesthetic{
		AestheticMinimalist,
		AestheticVintage,
		AestheticBohemian,
		AestheticStreetwear,
		AestheticPreppy,
		AestheticGrunge,
		AestheticArty,
	}
}

// Valid reports whether a is one of the fixed aesthetics.
func (a Aesthetic) Valid() bool {
	for _, v := range Aesthetics() {
		if a == v {
			return true
		}
	}
	return false
}

// BodyShape is the user's body-shape classification.
type BodyShape string

const (
	BodyShapeHourglass        BodyShape = "Hourglass"
	BodyShapePear             BodyShape = "Pear"
	BodyShapeApple            BodyShape = "Apple"
	BodyShapeRectangle        BodyShape = "Rectangle"
	BodyShapeInvertedTriangle BodyShape = "Inverted Triangle"
)

// BodyShapes lists every valid body shape in wizard display order.
func BodyShapes() []BodyShape {
	return []BodyShape{
		BodyShapeHourglass,
		BodyShapePear,
		BodyShapeApple,
		BodyShapeRectangle,
		BodyShapeInvertedTriangle,
	}
}

// Valid reports whether b is one of the fixed body shapes.
func (b BodyShape) Valid() bool {
	for _, v := range BodyShapes() {
		if b == v {
			return true
		}
	}
	return false
}

// NormalizeBodyShape maps the looser labels the vision model returns
// ("lean", "curvy", "athletic", "broad") onto the app's fixed enumeration.
// Already-valid values pass through unchanged; anything unrecognized maps
// to Rectangle, the most neutral shape, rather than failing the analysis.
func NormalizeBodyShape(raw string) BodyShape {
	if b := BodyShape(raw); b.Valid() {
		return b
	}
	switch raw {
	case "lean":
		return BodyShapeRectangle
	case "curvy":
		return BodyShapeHourglass
	case "athletic":
		return BodyShapeInvertedTriangle
	case "broad":
		return BodyShapeApple
	default:
		return BodyShapeRectangle
	}
}

// UserProfile is the structured style profile driving recommendations.
//
// A profile is always replaced wholesale — there is no field-level patch
// anywhere in the system. Either the wizard or the image analysis produces
// a complete profile, or nothing is committed.
type UserProfile struct {
	Aesthetic Aesthetic `json:"aesthetic"`
	BodyShape BodyShape `json:"bodyShape"`
	HairColor string    `json:"hairColor"`
	SkinTone  string    `json:"skinTone"`
	EyeColor  string    `json:"eyeColor"`
}

// Validate checks that every field is present and the enums hold allowed
// values. Used by the save-profile handler and the final wizard step.
func (p *UserProfile) Validate() error {
	if !p.Aesthetic.Valid() {
		return fmt.Errorf("invalid aesthetic %q", p.Aesthetic)
	}
	if !p.BodyShape.Valid() {
		return fmt.Errorf("invalid body shape %q", p.BodyShape)
	}
	if p.HairColor == "" || p.SkinTone == "" || p.EyeColor == "" {
		return fmt.Errorf("hair color, skin tone and eye color are all required")
	}
	return nil
}
