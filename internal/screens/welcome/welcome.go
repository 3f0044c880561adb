package welcome

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/exam"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/screens"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

// MinNameLength is the shortest accepted student name, in runes.
const MinNameLength = 2

// bankLoadedMsg reports the result of loading the question bank.
type bankLoadedMsg struct {
	Bank *exam.Bank
	Err  error
}

// WelcomeScreen asks for the student's name and loads the question bank.
type WelcomeScreen struct {
	env          *screens.Env
	next         func(bank *exam.Bank, name string) screen.Screen
	input        components.TextInput
	loading      bool
	hint         string
	alert        string
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. next builds the screen shown once the bank
// is loaded.
func New(env *screens.Env, name string, next func(bank *exam.Bank, name string) screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		env:   env,
		next:  next,
		input: components.NewTextInput("Your full name", name, 60),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Init()
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	switch {
	case w.alert != "":
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Esc", Description: "Dismiss"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case w.loading:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// CanStart reports whether the typed name is long enough.
func (w *WelcomeScreen) CanStart() bool {
	return utf8.RuneCountInString(w.input.Value()) >= MinNameLength
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bankLoadedMsg:
		return w.handleLoaded(msg)

	case tea.KeyPressMsg:
		return w.handleKey(msg)
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if w.loading || w.transitioned {
		return w, nil
	}

	if w.alert != "" {
		switch msg.String() {
		case "enter", "r":
			w.alert = ""
			return w, w.load()
		case "esc":
			w.alert = ""
		}
		return w, nil
	}

	if msg.String() == "enter" {
		if !w.CanStart() {
			w.hint = "Please enter at least 2 characters."
			return w, nil
		}
		w.hint = ""
		return w, w.load()
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if w.CanStart() {
		w.hint = ""
	}
	return w, cmd
}

// load fetches categories and questions. No partial bank is ever kept.
func (w *WelcomeScreen) load() tea.Cmd {
	w.loading = true
	env := w.env
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		bank, err := exam.LoadBank(ctx, env.Client)
		return bankLoadedMsg{Bank: bank, Err: err}
	}
}

func (w *WelcomeScreen) handleLoaded(msg bankLoadedMsg) (screen.Screen, tea.Cmd) {
	w.loading = false
	if msg.Err != nil {
		w.env.Logger.Error("load question bank", "error", msg.Err)
		w.alert = api.UserMessage(msg.Err)
		return w, nil
	}
	if w.transitioned {
		return w, nil
	}
	w.transitioned = true
	w.env.Logger.Info("question bank loaded",
		"categories", len(msg.Bank.Categories),
		"questions", msg.Bank.Total())

	next := w.next(msg.Bank, w.input.Value())
	return w, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Language Placement Exam"),
		theme.Hint.Render("Grammar, vocabulary, translation and writing"),
		"",
	}

	switch {
	case w.alert != "":
		sections = append(sections, theme.Alert.Render("Failed to load the exam.\n\n"+w.alert))
	case w.loading:
		sections = append(sections, theme.Hint.Render("Loading questions…"))
	default:
		sections = append(sections,
			theme.Body.Render("What's your name?"),
			w.input.View(),
		)
		if w.hint != "" {
			sections = append(sections, theme.Incorrect.Render(w.hint))
		} else if w.CanStart() {
			sections = append(sections, theme.Hint.Render("press enter to continue"))
		}
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
