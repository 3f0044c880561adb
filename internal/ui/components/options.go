package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/examiz/internal/ui/theme"
)

// OptionList is a single-choice selector. The cursor moves freely; Picked
// is the recorded answer and survives navigation away and back.
type OptionList struct {
	Options []string
	Cursor  int
	Picked  int // -1 when nothing is recorded
}

// NewOptionList creates a list with picked preselected, or -1 for none.
func NewOptionList(options []string, picked int) OptionList {
	cursor := 0
	if picked >= 0 && picked < len(options) {
		cursor = picked
	} else {
		picked = -1
	}
	return OptionList{
		Options: options,
		Cursor:  cursor,
		Picked:  picked,
	}
}

// Update moves the cursor. Choosing is left to the caller so the answer is
// recorded in exactly one place.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	}
	return o, nil
}

// Pick records option i and moves the cursor to it.
func (o *OptionList) Pick(i int) bool {
	if i < 0 || i >= len(o.Options) {
		return false
	}
	o.Picked = i
	o.Cursor = i
	return true
}

// View renders the options as "A)  text" lines.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == o.Picked {
			mark = "●"
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, optionLabel(i), opt)

		switch {
		case i == o.Picked:
			b.WriteString(theme.Picked.Render(line))
		case i == o.Cursor:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// optionLabel returns "A", "B", ... for option i.
func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprint(i + 1)
}
