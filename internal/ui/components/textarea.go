package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// TextArea wraps bubbles/textarea for free-text answers.
type TextArea struct {
	Model textarea.Model
	ready bool
}

// NewTextArea creates a focused text area with the given number of rows.
func NewTextArea(placeholder, value string, rows, width int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(rows)
	if width > 0 {
		ta.SetWidth(width)
	}
	ta.SetValue(value)
	ta.Focus()
	return TextArea{Model: ta, ready: true}
}

// Init returns the initial command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards msg to the text area and reports whether the value changed.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd, bool) {
	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd, t.Model.Value() != before
}

// SetWidth resizes the text area. It is a no-op before NewTextArea.
func (t *TextArea) SetWidth(w int) {
	if t.ready {
		t.Model.SetWidth(w)
	}
}

// View renders the text area.
func (t TextArea) View() string {
	return t.Model.View()
}

// Value returns the raw text.
func (t TextArea) Value() string {
	return t.Model.Value()
}
