package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/review"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

// ReviewScreen lists the review items of one section.
type ReviewScreen struct {
	tab     review.Tab
	student string
	offset  int
	height  int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a ReviewScreen for tab.
func New(tab review.Tab, student string) *ReviewScreen {
	return &ReviewScreen{tab: tab, student: student}
}

func (r *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (r *ReviewScreen) Title() string {
	return r.tab.Title()
}

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return r, nil
	}
	switch kmsg.String() {
	case "esc", "q", "enter":
		return r, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if r.offset > 0 {
			r.offset--
		}
	case "down", "j":
		r.offset++
	case "pgdown", "space":
		r.offset += max(r.height-2, 1)
	case "pgup":
		r.offset = max(r.offset-max(r.height-2, 1), 0)
	case "home", "g":
		r.offset = 0
	}
	return r, nil
}

func (r *ReviewScreen) View(width, height int) string {
	r.height = height
	inner := max(width-8, 20)

	head := []string{
		theme.Selected.Render(fmt.Sprintf("%s for %s", r.tab.Title(), r.student)),
		theme.Hint.Render("A detailed review of your answers."),
		"",
	}

	var body []string
	for _, item := range r.tab.Items {
		body = append(body, strings.Split(renderItem(item, inner), "\n")...)
		body = append(body, "")
	}

	visible := max(height-len(head)-2, 1)
	maxOffset := max(len(body)-visible, 0)
	r.offset = min(r.offset, maxOffset)
	end := min(r.offset+visible, len(body))

	lines := append(head, body[r.offset:end]...)
	if maxOffset > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("%d/%d", end, len(body))))
	}
	return lipgloss.NewStyle().Padding(1, 4).Render(strings.Join(lines, "\n"))
}

func renderItem(item review.Item, width int) string {
	var icon string
	switch item.Status {
	case review.StatusCorrect:
		icon = theme.Correct.Render(item.Status.Icon())
	case review.StatusIncorrect:
		icon = theme.Incorrect.Render(item.Status.Icon())
	default:
		icon = theme.Hint.Render(item.Status.Icon())
	}

	var b strings.Builder
	b.WriteString(icon + " " + lipgloss.NewStyle().Bold(true).Width(width-2).
		Render(fmt.Sprintf("%d. \"%s\"", item.Number, item.Question)))
	b.WriteString("\n")
	b.WriteString("  " + theme.Hint.Render(item.Instruction))
	b.WriteString("\n")

	answer := theme.Body
	switch item.Status {
	case review.StatusCorrect:
		answer = theme.Correct
	case review.StatusIncorrect:
		answer = theme.Incorrect
	}
	b.WriteString("  Your answer: " + answer.Width(width-16).Render(item.YourAnswer))
	if item.CorrectAnswer != "" {
		b.WriteString("\n  Correct answer: " + theme.Correct.Render(item.CorrectAnswer))
	}
	if item.AILabel != "" {
		b.WriteString("\n  " + theme.Flagged.Render("AI check: "+item.AILabel))
	}
	return b.String()
}
