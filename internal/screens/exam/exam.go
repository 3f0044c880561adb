package exam

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiz/internal/api"
	ex "github.com/abhisek/examiz/internal/exam"
	"github.com/abhisek/examiz/internal/review"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screen"
	"github.com/abhisek/examiz/internal/screens"
	"github.com/abhisek/examiz/internal/screens/results"
	"github.com/abhisek/examiz/internal/session"
	"github.com/abhisek/examiz/internal/ui/components"
	"github.com/abhisek/examiz/internal/ui/layout"
)

const defaultEditorWidth = 70

// ExamScreen implements screen.Screen for a running exam. It owns the
// session state; every mutation happens in Update.
type ExamScreen struct {
	env        *screens.Env
	state      *session.SessionState
	section    int
	options    components.OptionList
	editor     components.TextArea
	width      int
	confirming bool
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.StatusProvider = (*ExamScreen)(nil)

// New creates an ExamScreen that starts at the given section on Init.
func New(env *screens.Env, state *session.SessionState, section int) *ExamScreen {
	return &ExamScreen{
		env:     env,
		state:   state,
		section: section,
	}
}

func (s *ExamScreen) Init() tea.Cmd {
	var cmds []tea.Cmd
	if session.Start(s.state, s.section) {
		cmds = append(cmds, clockTick())
	}
	cmds = append(cmds, s.mount())
	return tea.Batch(cmds...)
}

func (s *ExamScreen) Title() string {
	return "Exam"
}

func (s *ExamScreen) Status() string {
	return s.state.StudentName + "  ⏱ " + session.FormatElapsed(s.state.Elapsed)
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch s.state.Phase {
	case session.PhaseSectionComplete:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	case session.PhaseSubmitting:
		return []layout.KeyHint{{Key: "…", Description: "Submitting"}}
	case session.PhaseInSection:
	default:
		return nil
	}

	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit"},
			{Key: "N", Description: "Keep working"},
		}
	}

	nav := session.Nav(s.state)
	hints := []layout.KeyHint{{Key: "Tab", Description: strings.TrimSuffix(nav.Label(), " →")}}
	if session.CanRetreat(s.state) {
		hints = append(hints, layout.KeyHint{Key: "Shift+Tab", Description: "Back"})
	}
	hints = append(hints, s.input().hints()...)
	hints = append(hints, layout.KeyHint{Key: "Alt+1-9", Description: "Jump"})
	if session.CanSubmit(s.state) {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Submit"})
	}
	return hints
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case clockTickMsg:
		if session.Tick(s.state) {
			return s, clockTick()
		}
		return s, nil

	case aiCheckDueMsg:
		return s, s.runCheck(msg.Handle)

	case aiCheckDoneMsg:
		s.applyCheck(msg)
		return s, nil

	case submitDoneMsg:
		return s.handleSubmitted(msg)

	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.editor.SetWidth(s.editorWidth())
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	// Cursor blink and other widget messages.
	if s.state.Phase == session.PhaseInSection && s.state.Current().Type.IsFreeText() {
		var cmd tea.Cmd
		s.editor, cmd, _ = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExamScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	switch s.state.Phase {
	case session.PhaseSectionComplete:
		if key == "enter" && session.Continue(s.state) {
			return s.mount()
		}
		return nil
	case session.PhaseInSection:
	default:
		return nil
	}

	if s.confirming {
		switch key {
		case "y", "Y", "enter":
			s.confirming = false
			return s.submit()
		case "n", "N", "esc":
			s.confirming = false
		}
		return nil
	}

	switch key {
	case "tab", "ctrl+n":
		return s.forward()
	case "shift+tab", "ctrl+p":
		return s.back()
	case "ctrl+s":
		if session.CanSubmit(s.state) {
			s.confirming = true
		}
		return nil
	}

	if n, ok := altDigit(key); ok {
		return s.jump(n)
	}

	return s.input().handleKey(s, msg)
}

// altDigit parses "alt+1".."alt+9" into a 1-based dot number.
func altDigit(key string) (int, bool) {
	if len(key) != 5 || !strings.HasPrefix(key, "alt+") {
		return 0, false
	}
	d := key[4]
	if d < '1' || d > '9' {
		return 0, false
	}
	return int(d - '0'), true
}

func (s *ExamScreen) input() inputStrategy {
	return strategyFor(s.state.Current().Type)
}

// mount rebuilds the input widget for the visible question.
func (s *ExamScreen) mount() tea.Cmd {
	if s.state.Phase != session.PhaseInSection {
		return nil
	}
	return s.input().mount(s, s.state.Current())
}

// forward follows the Next / Finish Section / Submit affordance.
func (s *ExamScreen) forward() tea.Cmd {
	if session.Nav(s.state) == session.NavSubmit {
		if session.CanSubmit(s.state) {
			s.confirming = true
		}
		return nil
	}

	switch session.Advance(s.state) {
	case session.AdvanceMoved:
		return s.mount()
	case session.AdvanceSectionComplete:
		s.env.Logger.Info("section complete",
			"attempt_id", s.state.AttemptID,
			"section", s.state.LastCompleted)
	}
	return nil
}

func (s *ExamScreen) back() tea.Cmd {
	if session.Retreat(s.state) {
		return s.mount()
	}
	return nil
}

// jump moves to the n-th question of the current section.
func (s *ExamScreen) jump(n int) tea.Cmd {
	if n < 1 || n > len(s.state.Dots) {
		return nil
	}
	if session.GoTo(s.state, s.state.Dots[n-1].Index) {
		return s.mount()
	}
	return nil
}

// pick records option i for the visible choice question.
func (s *ExamScreen) pick(i int) {
	if session.SelectOption(s.state, i) {
		s.options.Pick(i)
	}
}

// scheduleCheck (re)arms the AI check for key. Any earlier pending check
// for the key is superseded even when text is too short to check.
func (s *ExamScreen) scheduleCheck(key ex.Key, text string) tea.Cmd {
	if !s.env.AIChecks {
		return nil
	}
	h, ok := s.state.Checks.Schedule(key, text)
	if !ok {
		return nil
	}
	return tea.Tick(s.state.Checks.Delay, func(time.Time) tea.Msg {
		return aiCheckDueMsg{Handle: h}
	})
}

func (s *ExamScreen) runCheck(h session.CheckHandle) tea.Cmd {
	req, ok := session.PrepareCheck(s.state, h)
	if !ok {
		return nil
	}
	env := s.env
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		det, err := env.Client.DetectAI(ctx, req)
		return aiCheckDoneMsg{Handle: h, Text: req.Text, Detection: det, Err: err}
	}
}

func (s *ExamScreen) applyCheck(msg aiCheckDoneMsg) {
	if msg.Err != nil {
		s.env.Logger.Debug("ai check failed",
			"key", msg.Handle.Key.String(),
			"error", msg.Err)
	}
	if session.ApplyCheck(s.state, msg.Handle, msg.Text, msg.Detection, msg.Err) {
		_, flagged := s.state.Flags[msg.Handle.Key]
		s.env.Logger.Info("ai flag updated",
			"key", msg.Handle.Key.String(),
			"flagged", flagged)
	}
}

func (s *ExamScreen) submit() tea.Cmd {
	req, ok := session.BeginSubmit(s.state)
	if !ok {
		return nil
	}
	s.env.Logger.Info("submitting exam",
		"attempt_id", s.state.AttemptID,
		"answers", len(req.Answers),
		"flags", len(req.AIUsage))

	env := s.env
	return func() tea.Msg {
		ctx, cancel := env.Context()
		defer cancel()
		resp, err := env.Client.Submit(ctx, req)
		return submitDoneMsg{Response: resp, Err: err}
	}
}

func (s *ExamScreen) handleSubmitted(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.env.Logger.Warn("submission failed", "attempt_id", s.state.AttemptID, "error", msg.Err)
		session.FailSubmit(s.state, msg.Err)
		return s, nil
	}
	if !session.CompleteSubmit(s.state, msg.Response) {
		return s, nil
	}

	report := review.Build(msg.Response, s.state.Bank.Categories, s.state.StudentName, s.state.Elapsed)
	s.env.Logger.Info("exam submitted",
		"attempt_id", s.state.AttemptID,
		"exam_id", report.ExamID,
		"percent", report.Percent)

	next := results.New(s.env, report)
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *ExamScreen) editorWidth() int {
	if s.width == 0 {
		return defaultEditorWidth
	}
	return max(s.width-12, 30)
}

// submitError renders the last submission failure, if any.
func (s *ExamScreen) submitError() string {
	if s.state.SubmitErr == nil {
		return ""
	}
	return "Submission failed. " + api.UserMessage(s.state.SubmitErr)
}
