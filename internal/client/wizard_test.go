package client

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/OfirNeeman/ai-stylist/internal/model"
)

func runWizard(t *testing.T, input string, edit bool) (*model.UserProfile, error) {
	t.Helper()
	var out bytes.Buffer
	w := NewWizard(bufio.NewReader(strings.NewReader(input)), &out, edit)
	return w.Run()
}

func TestWizard_CompleteRunByNumbers(t *testing.T) {
	// 3 = Bohemian, 2 = Pear, then the three colors.
	profile, err := runWizard(t, "3\n2\nbrown\ntan\nhazel\n", false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if profile.Aesthetic != model.AestheticBohemian {
		t.Errorf("aesthetic = %q", profile.Aesthetic)
	}
	if profile.BodyShape != model.BodyShapePear {
		t.Errorf("bodyShape = %q", profile.BodyShape)
	}
	if profile.HairColor != "brown" || profile.SkinTone != "tan" || profile.EyeColor != "hazel" {
		t.Errorf("colors = %q/%q/%q", profile.HairColor, profile.SkinTone, profile.EyeColor)
	}
}

func TestWizard_AcceptsExactNames(t *testing.T) {
	profile, err := runWizard(t, "Streetwear\nInverted Triangle\nblack\ndeep\nbrown\n", false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if profile.Aesthetic != model.AestheticStreetwear {
		t.Errorf("aesthetic = %q", profile.Aesthetic)
	}
	if profile.BodyShape != model.BodyShapeInvertedTriangle {
		t.Errorf("bodyShape = %q", profile.BodyShape)
	}
}

func TestWizard_RejectsInvalidChoiceAndReprompts(t *testing.T) {
	// "Cottagecore" and "99" are rejected; "1" finally accepted.
	profile, err := runWizard(t, "Cottagecore\n99\n1\n1\nred\nfair\nblue\n", false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if profile.Aesthetic != model.AestheticMinimalist {
		t.Errorf("aesthetic = %q", profile.Aesthetic)
	}
}

func TestWizard_EmptyColorReprompts(t *testing.T) {
	profile, err := runWizard(t, "1\n1\n\nred\nfair\nblue\n", false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if profile.HairColor != "red" {
		t.Errorf("hairColor = %q", profile.HairColor)
	}
}

func TestWizard_BackReturnsToPreviousStep(t *testing.T) {
	// Pick aesthetic 1, go back from body shape, re-pick aesthetic 2,
	// then continue normally.
	profile, err := runWizard(t, "1\nback\n2\n1\nred\nfair\nblue\n", false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if profile.Aesthetic != model.AestheticVintage {
		t.Errorf("aesthetic = %q, want the re-picked Vintage", profile.Aesthetic)
	}
	if profile.BodyShape != model.BodyShapeHourglass {
		t.Errorf("bodyShape = %q", profile.BodyShape)
	}
}

func TestWizard_CancelAborts(t *testing.T) {
	_, err := runWizard(t, "1\ncancel\n", false)
	if !errors.Is(err, ErrWizardCancelled) {
		t.Fatalf("Run() error = %v, want ErrWizardCancelled", err)
	}
}

func TestWizard_EditModeBackDoesNotNavigate(t *testing.T) {
	// In edit mode "back" is refused with a hint and input continues on
	// the same step; the run still completes.
	profile, err := runWizard(t, "1\nback\n2\n1\nred\nfair\nblue\n", true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// "back" did not rewind: the 2 answered the body-shape step.
	if profile.Aesthetic != model.AestheticMinimalist {
		t.Errorf("aesthetic = %q, want Minimalist (no rewind)", profile.Aesthetic)
	}
	if profile.BodyShape != model.BodyShapePear {
		t.Errorf("bodyShape = %q, want Pear", profile.BodyShape)
	}
	// Extra input line is simply unread.
	_ = profile
}

func TestWizard_EditModeCancelAborts(t *testing.T) {
	_, err := runWizard(t, "1\n2\ncancel\n", true)
	if !errors.Is(err, ErrWizardCancelled) {
		t.Fatalf("Run() error = %v, want ErrWizardCancelled", err)
	}
}

func TestWizard_EOFCancels(t *testing.T) {
	_, err := runWizard(t, "1\n", false)
	if !errors.Is(err, ErrWizardCancelled) {
		t.Fatalf("Run() error = %v, want ErrWizardCancelled", err)
	}
}
