package overview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/exam"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/screens"
	examscreen "github.com/abhisek/examiz/internal/screens/exam"
	"github.com/abhisek/examiz/internal/session"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

// OverviewScreen lists the sections before the exam begins.
type OverviewScreen struct {
	env     *screens.Env
	bank    *exam.Bank
	name    string
	started bool
}

var _ screen.Screen = (*OverviewScreen)(nil)
var _ screen.KeyHintProvider = (*OverviewScreen)(nil)

// New creates an OverviewScreen for a loaded bank.
func New(env *screens.Env, bank *exam.Bank, name string) *OverviewScreen {
	return &OverviewScreen{env: env, bank: bank, name: name}
}

func (o *OverviewScreen) Init() tea.Cmd {
	return nil
}

func (o *OverviewScreen) Title() string {
	return "Overview"
}

func (o *OverviewScreen) Status() string {
	return o.name
}

func (o *OverviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Begin exam"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (o *OverviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || kmsg.String() != "enter" || o.started {
		return o, nil
	}
	o.started = true

	checks := session.NewDebouncer(o.env.CheckDelay, o.env.MinChars)
	state := session.NewSessionState(o.bank, o.name, o.env.AttemptID, checks)
	o.env.Logger.Info("exam started", "attempt_id", o.env.AttemptID, "questions", o.bank.Total())

	next := examscreen.New(o.env, state, 0)
	return o, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (o *OverviewScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render(fmt.Sprintf("Welcome, %s", o.name)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("The exam has the following sections, taken in order."))
	b.WriteString("\n\n")

	var rows []string
	for _, c := range o.bank.Categories {
		n := o.bank.SectionCount(c.Slug)
		icon := c.Icon
		if icon == "" {
			icon = "○"
		}
		rows = append(rows, icon+"  "+
			theme.Body.Render(fmt.Sprintf("%-24s", c.Name))+" "+
			theme.Hint.Render(questionCount(n)))
	}
	card := theme.Card.Render(strings.Join(rows, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	total := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%d questions total", o.bank.Total()))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, total))
	b.WriteString("\n\n")

	button := components.NewButton("Begin Exam", "Enter", true).View()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, button))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func questionCount(n int) string {
	if n == 1 {
		return "1 question"
	}
	return fmt.Sprintf("%d questions", n)
}
