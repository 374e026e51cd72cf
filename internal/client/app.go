package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/OfirNeeman/ai-stylist/internal/model"
	"github.com/OfirNeeman/ai-stylist/internal/service"
)

// readPassword is a test seam for term.ReadPassword so tests never touch
// a real terminal.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(syscall.Stdin))
}

// App is the interactive terminal client: a REPL over the Session state
// machine.
type App struct {
	session *Session
	fetcher *Fetcher
	in      *bufio.Reader
	out     io.Writer

	// current recommendation filters
	budget       float64
	clothingType string

	// last delivered recommendation, indexed by the save command
	lastRec *model.StyleRecommendation
	results chan Result
}

// NewApp wires an App over the given session.
func NewApp(session *Session, api *API, in io.Reader, out io.Writer) *App {
	a := &App{
		session:      session,
		in:           bufio.NewReader(in),
		out:          out,
		budget:       150,
		clothingType: "Tops",
		results:      make(chan Result, 8),
	}
	a.fetcher = NewFetcher(
		func(ctx context.Context, budget float64, clothingType string) (*model.StyleRecommendation, error) {
			return api.Recommend(ctx, session.Token(), budget, clothingType)
		},
		func(r Result) { a.results <- r },
		DefaultDebounce,
	)
	return a
}

// Run hydrates the session and drives the REPL until EOF or "exit".
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "ai-stylist — type help for commands")

	if err := a.session.Hydrate(ctx); err != nil {
		fmt.Fprintf(a.out, "warning: %v\n", err)
	}
	a.printStatus()

	for {
		a.drainResults()
		fmt.Fprintf(a.out, "stylist [%s]> ", a.session.State())

		line, err := a.in.ReadString('\n')
		if err != nil {
			return nil // EOF ends the session
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			a.fetcher.Stop()
			fmt.Fprintln(a.out, "Bye!")
			return nil
		}
		a.dispatch(ctx, cmd, args)
	}
}

// dispatch routes one command, gated on the session state.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) {
	switch a.session.State() {
	case StateAnonymous:
		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: signup, login, exit")
		case "signup":
			a.signup(ctx)
		case "login":
			a.login(ctx)
		default:
			a.unknown(cmd)
		}

	case StateNeedsProfile:
		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: profile wizard, profile photo <path>, logout, exit")
		case "profile":
			a.profile(ctx, args, false)
		case "logout":
			a.logout()
		default:
			a.unknown(cmd)
		}

	case StateReady:
		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: recommend, budget <20-500>, type <text>, save <n>, closet, profile edit, profile photo <path>, logout, exit")
		case "recommend":
			a.recommend(ctx)
		case "budget":
			a.setBudget(ctx, args)
		case "type":
			a.setType(ctx, args)
		case "save":
			a.save(ctx, args)
		case "closet":
			a.closet()
		case "profile":
			a.profile(ctx, args, true)
		case "logout":
			a.logout()
		default:
			a.unknown(cmd)
		}

	default:
		a.unknown(cmd)
	}
}

func (a *App) unknown(cmd string) {
	fmt.Fprintf(a.out, "Unknown command: %s (try help)\n", cmd)
}

// =====================================================================
// Auth commands
// =====================================================================

func (a *App) credentials() (string, string, error) {
	fmt.Fprint(a.out, "username> ")
	username, err := a.in.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	fmt.Fprint(a.out, "password> ")
	password, err := readPassword()
	fmt.Fprintln(a.out)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(username), string(password), nil
}

func (a *App) signup(ctx context.Context) {
	username, password, err := a.credentials()
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if err := a.session.Signup(ctx, username, password); err != nil {
		fmt.Fprintf(a.out, "signup failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Welcome, %s! Let's build your style profile.\n", username)
	a.printStatus()
}

func (a *App) login(ctx context.Context) {
	username, password, err := a.credentials()
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if err := a.session.Login(ctx, username, password); err != nil {
		fmt.Fprintf(a.out, "login failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Welcome back, %s!\n", username)
	a.printStatus()
}

func (a *App) logout() {
	a.fetcher.Stop()
	a.lastRec = nil
	if err := a.session.Logout(); err != nil {
		fmt.Fprintf(a.out, "warning: %v\n", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
}

// =====================================================================
// Profile commands
// =====================================================================

func (a *App) profile(ctx context.Context, args []string, edit bool) {
	if len(args) == 0 {
		usage := "usage: profile wizard | profile photo <path>"
		if edit {
			usage += " | profile edit"
		}
		fmt.Fprintln(a.out, usage)
		return
	}

	switch args[0] {
	case "wizard", "edit":
		a.runWizard(ctx, edit && args[0] == "edit")
	case "photo":
		if len(args) < 2 {
			fmt.Fprintln(a.out, "usage: profile photo <path>")
			return
		}
		a.uploadPhoto(ctx, args[1])
	default:
		fmt.Fprintf(a.out, "unknown profile subcommand: %s\n", args[0])
	}
}

func (a *App) runWizard(ctx context.Context, edit bool) {
	profile, err := NewWizard(a.in, a.out, edit).Run()
	if errors.Is(err, ErrWizardCancelled) {
		fmt.Fprintln(a.out, "Cancelled; profile unchanged.")
		return
	}
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if err := a.session.SaveProfile(ctx, profile); err != nil {
		fmt.Fprintf(a.out, "saving profile failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Profile saved.")
}

func (a *App) uploadPhoto(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	mimeType := "image/jpeg"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		mimeType = "image/png"
	}

	fmt.Fprintln(a.out, "Analyzing photo...")
	profile, err := a.session.api.UploadProfileImage(ctx, a.session.Token(), filepath.Base(path), data, mimeType)
	if err != nil {
		fmt.Fprintf(a.out, "analysis failed: %v\n", err)
		return
	}
	a.session.AdoptProfile(profile)
	fmt.Fprintf(a.out, "Profile derived from photo: %s / %s, %s hair, %s skin, %s eyes\n",
		profile.Aesthetic, profile.BodyShape, profile.HairColor, profile.SkinTone, profile.EyeColor)
}

// =====================================================================
// Recommendation commands
// =====================================================================

func (a *App) recommend(ctx context.Context) {
	fmt.Fprintf(a.out, "Fetching recommendations for %s under $%.0f...\n", a.clothingType, a.budget)
	a.fetcher.Request(ctx, a.budget, a.clothingType)
}

func (a *App) setBudget(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "budget is $%.0f\n", a.budget)
		return
	}
	n, err := strconv.ParseFloat(args[0], 64)
	if err != nil || n < service.MinBudget || n > service.MaxBudget {
		fmt.Fprintf(a.out, "budget must be a number between %d and %d\n", service.MinBudget, service.MaxBudget)
		return
	}
	a.budget = n
	a.fetcher.Request(ctx, a.budget, a.clothingType)
}

func (a *App) setType(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "clothing type is %s\n", a.clothingType)
		return
	}
	a.clothingType = strings.Join(args, " ")
	a.fetcher.Request(ctx, a.budget, a.clothingType)
}

// drainResults prints any recommendations that arrived since the last
// prompt.
func (a *App) drainResults() {
	for {
		select {
		case r := <-a.results:
			if r.Err != nil {
				fmt.Fprintf(a.out, "\n%v\n", r.Err)
				continue
			}
			a.lastRec = r.Recommendation
			a.printRecommendation(r.Recommendation)
		default:
			return
		}
	}
}

func (a *App) printRecommendation(rec *model.StyleRecommendation) {
	fmt.Fprintf(a.out, "\nPalette: %s — %s\n", rec.ColorPalette.Name, rec.ColorPalette.Description)
	fmt.Fprintf(a.out, "  %s\n", strings.Join(rec.ColorPalette.HexCodes, " "))
	fmt.Fprintf(a.out, "Advice: %s\n", rec.StyleAdvice)
	fmt.Fprintln(a.out, "Items:")
	for i, item := range rec.RecommendedItems {
		marker := " "
		if model.ContainsItem(a.session.User().SavedItems, item) {
			marker = "*"
		}
		fmt.Fprintf(a.out, "  %d.%s %s ($%.0f, %s)\n", i+1, marker, item.Name, item.Price, item.Category)
	}
	fmt.Fprintln(a.out, `Use "save <n>" to toggle an item in your closet.`)
}

// =====================================================================
// Closet commands
// =====================================================================

func (a *App) save(ctx context.Context, args []string) {
	if a.lastRec == nil {
		fmt.Fprintln(a.out, "No recommendation yet; run recommend first.")
		return
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "usage: save <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lastRec.RecommendedItems) {
		fmt.Fprintf(a.out, "pick an item 1-%d\n", len(a.lastRec.RecommendedItems))
		return
	}

	item := a.lastRec.RecommendedItems[n-1]
	wasSaved := model.ContainsItem(a.session.User().SavedItems, item)
	if err := a.session.ToggleItem(ctx, item); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if wasSaved {
		fmt.Fprintf(a.out, "Removed %q from your closet.\n", item.Name)
	} else {
		fmt.Fprintf(a.out, "Saved %q to your closet.\n", item.Name)
	}
}

func (a *App) closet() {
	items := a.session.User().SavedItems
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your closet is empty.")
		return
	}
	fmt.Fprintf(a.out, "Closet (%d items):\n", len(items))
	for i, item := range items {
		fmt.Fprintf(a.out, "  %d. %s ($%.0f, %s)\n", i+1, item.Name, item.Price, item.Category)
	}
}

func (a *App) printStatus() {
	switch a.session.State() {
	case StateAnonymous:
		fmt.Fprintln(a.out, "Not signed in. Use signup or login.")
	case StateNeedsProfile:
		fmt.Fprintln(a.out, "Signed in, but no style profile yet. Run: profile wizard")
	case StateReady:
		user := a.session.User()
		fmt.Fprintf(a.out, "Signed in as %s (%s / %s), %d saved items.\n",
			user.Username, user.Profile.Aesthetic, user.Profile.BodyShape, len(user.SavedItems))
	}
}
