package exam

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	ex "github.com/abhisek/examiz/internal/exam"
	"github.com/abhisek/examiz/internal/session"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
	"github.com/abhisek/examiz/internal/ui/theme"
)

// inputStrategy edits and renders the answer of one question type.
type inputStrategy interface {
	// mount prepares the input widget for the visible question.
	mount(s *ExamScreen, q ex.Question) tea.Cmd

	// handleKey applies a key not claimed by navigation.
	handleKey(s *ExamScreen, msg tea.KeyPressMsg) tea.Cmd

	view(s *ExamScreen, q ex.Question, width int) string

	hints() []layout.KeyHint
}

var strategies = map[ex.QuestionType]inputStrategy{
	ex.TypeMultipleChoice: choiceInput{},
	ex.TypeVocabulary:     choiceInput{headword: true},
	ex.TypeTranslation:    textInput{placeholder: "Type your translation…", source: true},
	ex.TypeWriting:        textInput{placeholder: "Start writing…", wordCount: true, warnOnFlag: true},
}

func strategyFor(t ex.QuestionType) inputStrategy {
	if st, ok := strategies[t]; ok {
		return st
	}
	return choiceInput{}
}

// choiceInput handles multiple_choice and vocabulary questions.
type choiceInput struct {
	headword bool // vocabulary shows the word on its own line
}

func (c choiceInput) mount(s *ExamScreen, q ex.Question) tea.Cmd {
	picked, ok := session.Picked(s.state)
	if !ok {
		picked = -1
	}
	s.options = components.NewOptionList(q.Options, picked)
	return nil
}

func (c choiceInput) handleKey(s *ExamScreen, msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "enter", "space":
		s.pick(s.options.Cursor)
		return nil
	case "right", "l":
		return s.forward()
	case "left", "h":
		return s.back()
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		s.pick(int(key[0] - '1'))
		return nil
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return cmd
}

func (c choiceInput) view(s *ExamScreen, q ex.Question, width int) string {
	var b strings.Builder
	b.WriteString(theme.Hint.Render(q.Prompt()))
	b.WriteString("\n\n")
	if c.headword {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(q.Text))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(q.Text))
	}
	b.WriteString("\n\n")
	b.WriteString(s.options.View())
	return b.String()
}

func (c choiceInput) hints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "1-9", Description: "Choose"},
		{Key: "↑↓", Description: "Move"},
	}
}

// textInput handles translation and writing questions.
type textInput struct {
	placeholder string
	source      bool // translation shows the source text in a card
	wordCount   bool
	warnOnFlag  bool
}

func (t textInput) mount(s *ExamScreen, q ex.Question) tea.Cmd {
	value := s.state.Answers[q.Key()].Value()
	s.editor = components.NewTextArea(t.placeholder, value, q.Type.Rows(), s.editorWidth())
	return s.editor.Init()
}

func (t textInput) handleKey(s *ExamScreen, msg tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	var changed bool
	s.editor, cmd, changed = s.editor.Update(msg)
	if !changed {
		return cmd
	}

	text := s.editor.Value()
	session.SetText(s.state, text)
	return tea.Batch(cmd, s.scheduleCheck(s.state.CurrentKey(), text))
}

func (t textInput) view(s *ExamScreen, q ex.Question, width int) string {
	var b strings.Builder
	b.WriteString(theme.Hint.Render(q.Prompt()))
	b.WriteString("\n\n")

	if t.source {
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.Secondary).
			PaddingLeft(1).
			Width(width).
			Render(q.Text))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(q.Text))
	}
	b.WriteString("\n\n")

	if t.warnOnFlag {
		if flag, ok := s.state.Flags[q.Key()]; ok && flag.Used {
			b.WriteString(theme.Banner.Render("⚠️  AI usage detected."))
			b.WriteString("\n")
		}
	}

	b.WriteString(s.editor.View())

	if t.wordCount {
		b.WriteString("\n")
		words := ex.WordCount(s.editor.Value())
		label := fmt.Sprintf("Words: %d", words)
		if q.MinWords > 0 {
			label += fmt.Sprintf(" / %d min", q.MinWords)
		}
		style := theme.Hint
		if q.MinWords > 0 && words >= q.MinWords {
			style = theme.Correct
		}
		b.WriteString(style.Render(label))
	}
	return b.String()
}

func (t textInput) hints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Type", Description: "Answer"}}
}
