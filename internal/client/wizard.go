package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OfirNeeman/ai-stylist/internal/model"
)

// ErrWizardCancelled reports that the user backed out of an edit without
// saving. The caller must leave the existing profile untouched.
var ErrWizardCancelled = errors.New("wizard cancelled")

// Wizard walks the three profile steps in order: aesthetic, body shape,
// coloring. Each step validates before advancing. "back" returns to the
// previous step; in edit mode "cancel" aborts the whole wizard instead,
// since an editing user already has a profile to fall back to.
type Wizard struct {
	in   *bufio.Reader
	out  io.Writer
	edit bool
}

// NewWizard creates a Wizard. edit selects cancel semantics.
func NewWizard(in *bufio.Reader, out io.Writer, edit bool) *Wizard {
	return &Wizard{in: in, out: out, edit: edit}
}

// Run executes the wizard and returns a complete, validated profile.
func (w *Wizard) Run() (*model.UserProfile, error) {
	profile := &model.UserProfile{}

	step := 0
	for step < 3 {
		var err error
		switch step {
		case 0:
			err = w.stepAesthetic(profile)
		case 1:
			err = w.stepBodyShape(profile)
		case 2:
			err = w.stepColors(profile)
		}
		switch {
		case err == nil:
			step++
		case errors.Is(err, errStepBack):
			if step > 0 {
				step--
			}
		default:
			return nil, err
		}
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("wizard produced an invalid profile: %w", err)
	}
	return profile, nil
}

// errStepBack signals "go to the previous step" internally.
var errStepBack = errors.New("step back")

func (w *Wizard) stepAesthetic(profile *model.UserProfile) error {
	options := model.Aesthetics()
	fmt.Fprintln(w.out, "Step 1/3 — pick your aesthetic:")
	for i, a := range options {
		fmt.Fprintf(w.out, "  %d. %s\n", i+1, a)
	}

	for {
		line, err := w.prompt("aesthetic")
		if err != nil {
			return err
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			profile.Aesthetic = options[n-1]
			return nil
		}
		if a := model.Aesthetic(line); a.Valid() {
			profile.Aesthetic = a
			return nil
		}
		fmt.Fprintf(w.out, "Pick a number 1-%d or an exact name.\n", len(options))
	}
}

func (w *Wizard) stepBodyShape(profile *model.UserProfile) error {
	options := model.BodyShapes()
	fmt.Fprintln(w.out, "Step 2/3 — pick your body shape:")
	for i, b := range options {
		fmt.Fprintf(w.out, "  %d. %s\n", i+1, b)
	}

	for {
		line, err := w.prompt("body shape")
		if err != nil {
			return err
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			profile.BodyShape = options[n-1]
			return nil
		}
		if b := model.BodyShape(line); b.Valid() {
			profile.BodyShape = b
			return nil
		}
		fmt.Fprintf(w.out, "Pick a number 1-%d or an exact name.\n", len(options))
	}
}

func (w *Wizard) stepColors(profile *model.UserProfile) error {
	fmt.Fprintln(w.out, "Step 3/3 — your coloring:")

	fields := []struct {
		label string
		dst   *string
	}{
		{"hair color", &profile.HairColor},
		{"skin tone", &profile.SkinTone},
		{"eye color", &profile.EyeColor},
	}
	for _, f := range fields {
		for {
			line, err := w.prompt(f.label)
			if err != nil {
				return err
			}
			if line == "" {
				fmt.Fprintf(w.out, "%s is required.\n", f.label)
				continue
			}
			*f.dst = line
			break
		}
	}
	return nil
}

// prompt reads one trimmed line, intercepting the navigation words.
func (w *Wizard) prompt(label string) (string, error) {
	for {
		fmt.Fprintf(w.out, "%s> ", label)
		line, err := w.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return "", ErrWizardCancelled
			}
			return "", err
		}
		line = strings.TrimSpace(line)

		switch strings.ToLower(line) {
		case "cancel":
			return "", ErrWizardCancelled
		case "back":
			if w.edit {
				// Editing has no partial state to step back through;
				// the ways out are completion or cancel.
				fmt.Fprintln(w.out, `Type "cancel" to abort the edit.`)
				continue
			}
			return "", errStepBack
		}
		return line, nil
	}
}
