package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/session"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/theme"
)

func (s *ExamScreen) View(width, height int) string {
	if s.state.Phase == session.PhaseSectionComplete {
		return s.renderSectionComplete(width, height)
	}
	return s.renderQuestion(width, height)
}

func (s *ExamScreen) renderQuestion(width, height int) string {
	var b strings.Builder
	inner := max(width-8, 20)

	// Tag and dots.
	tag := theme.Tag.Render(session.Tag(s.state))
	dots := components.RenderDots(s.state.Dots)
	gap := max(inner-lipgloss.Width(tag)-lipgloss.Width(dots), 2)
	b.WriteString(tag + strings.Repeat(" ", gap) + dots)
	b.WriteString("\n")

	bar := components.NewProgressBar("", session.Progress(s.state), true, inner)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	q := s.state.Current()
	card := theme.Card.Width(inner).Render(s.input().view(s, q, inner-6))
	b.WriteString(card)
	b.WriteString("\n\n")

	b.WriteString(s.renderNav())

	switch {
	case s.state.Phase == session.PhaseSubmitting:
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Submitting your exam…"))
	case s.confirming:
		b.WriteString("\n\n")
		b.WriteString(s.renderConfirm())
	case s.submitError() != "":
		b.WriteString("\n\n")
		b.WriteString(theme.Alert.Render(s.submitError() + "\nPress Ctrl+S to try again."))
	}

	return lipgloss.NewStyle().Padding(1, 4).Render(b.String())
}

func (s *ExamScreen) renderNav() string {
	back := components.NewButton("← Back", "Shift+Tab", session.CanRetreat(s.state))

	nav := session.Nav(s.state)
	enabled := s.state.Phase == session.PhaseInSection
	if nav == session.NavSubmit {
		return components.ButtonRow(2, back, components.NewButton(nav.Label(), "Ctrl+S", enabled))
	}
	return components.ButtonRow(2, back, components.NewButton(nav.Label(), "Tab", enabled))
}

func (s *ExamScreen) renderConfirm() string {
	unanswered := 0
	for _, m := range session.Sections(s.state) {
		unanswered += m.Count - m.Answered
	}

	msg := "Submit your exam?"
	if unanswered > 0 {
		msg += fmt.Sprintf("\n%d question(s) are still unanswered.", unanswered)
	}
	msg += "\n\n[Y] Submit   [N] Keep working"
	return theme.Banner.Render(msg)
}

func (s *ExamScreen) renderSectionComplete(width, height int) string {
	var sections []string

	finished := s.state.LastCompleted
	if i := s.state.Bank.CategoryIndex(finished); i >= 0 {
		finished = s.state.Bank.Categories[i].Name
	}

	sections = append(sections,
		theme.Correct.Render("✅ Section complete"),
		"",
		theme.Body.Render(fmt.Sprintf("You've finished the %s section.", finished)),
		"",
	)

	var rows []string
	for _, m := range session.Sections(s.state) {
		icon := "○"
		style := theme.Unselected
		if m.Done {
			icon = "✅"
			style = theme.Correct
		}
		rows = append(rows, fmt.Sprintf("%s  %s  %s",
			icon,
			style.Render(fmt.Sprintf("%-20s", m.Category.Name)),
			theme.Hint.Render(fmt.Sprintf("%d/%d answered", m.Answered, m.Count))))
	}
	sections = append(sections, theme.Card.Render(strings.Join(rows, "\n")), "")

	if session.Remaining(s.state) {
		sections = append(sections, components.NewButton("Continue to next section", "Enter", true).View())
	} else {
		sections = append(sections,
			theme.Hint.Render("All sections are done. You can review and submit."),
			"",
			components.NewButton("Continue", "Enter", true).View())
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
