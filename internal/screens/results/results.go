package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/review"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/screens"
	reviewscreen "github.com/abhisek/examiz/internal/screens/review"
	"github.com/abhisek/examiz/internal/session"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

// ResultsScreen shows the score, the AI usage summary and the review tabs.
type ResultsScreen struct {
	env    *screens.Env
	report *review.Report
	menu   components.Menu
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for a built report.
func New(env *screens.Env, report *review.Report) *ResultsScreen {
	r := &ResultsScreen{env: env, report: report}

	items := make([]components.MenuItem, 0, len(report.Tabs)+1)
	for _, tab := range report.Tabs {
		items = append(items, components.MenuItem{
			Label:  tab.Title(),
			Detail: fmt.Sprintf("%d item(s)", len(tab.Items)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: reviewscreen.New(tab, report.Student)}
				}
			},
		})
	}
	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})
	r.menu = components.NewMenu(items)
	return r
}

func (r *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (r *ResultsScreen) Title() string {
	return "Results"
}

func (r *ResultsScreen) Status() string {
	return r.report.Student + "  ⏱ " + session.FormatElapsed(r.report.Elapsed)
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open review"},
		{Key: "Q", Description: "Quit"},
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "q" {
		return r, tea.Quit
	}
	var cmd tea.Cmd
	r.menu, cmd = r.menu.Update(msg)
	return r, cmd
}

func (r *ResultsScreen) View(width, height int) string {
	rep := r.report
	var sections []string

	sections = append(sections,
		theme.Title.Render("Well done, "+rep.Student+"!"),
		"",
		renderScore(rep),
		"",
	)

	stats := fmt.Sprintf("Correct %s   Total %s   Time %s",
		theme.Correct.Render(fmt.Sprint(rep.Correct)),
		theme.Body.Render(fmt.Sprint(rep.Total)),
		theme.Body.Render(session.FormatElapsed(rep.Elapsed)))
	sections = append(sections, stats, "")

	if rep.ExamID != "" {
		sections = append(sections, theme.Hint.Render("Exam ID "+rep.ExamID), "")
	}

	if rep.Clean() {
		sections = append(sections, theme.Correct.Render("✓ No AI usage was detected in your answers."))
	} else {
		lines := []string{theme.Flagged.Render("AI usage detected")}
		for _, e := range rep.AIEntries {
			lines = append(lines, fmt.Sprintf("%s  %s", theme.Body.Render(e.Heading), e.Label))
		}
		sections = append(sections, theme.Banner.Render(strings.Join(lines, "\n")))
	}
	sections = append(sections, "")

	if len(rep.Tabs) == 0 {
		sections = append(sections, theme.Hint.Render("No answers to review."), "")
	}
	sections = append(sections, r.menu.View())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

// renderScore draws the percentage with a bar beneath it.
func renderScore(rep *review.Report) string {
	style := theme.Correct
	if rep.Percent < 50 {
		style = theme.Incorrect
	}
	pct := style.Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Render(fmt.Sprintf("%d%%", rep.Percent))

	bar := components.NewProgressBar("", float64(rep.Percent)/100, false, 30)
	return lipgloss.JoinVertical(lipgloss.Center, pct, bar.View())
}
