package session

import (
	"fmt"
	"time"

	"github.com/abhisek/examiz/internal/exam"
)

// AdvanceResult describes what Advance did.
type AdvanceResult int

const (
	AdvanceNone            AdvanceResult = iota // Nothing happened
	AdvanceMoved                                // Moved to the next question
	AdvanceSectionComplete                      // Section finished; interstitial raised
)

// NavAction is the affordance offered for moving forward.
type NavAction int

const (
	NavNext          NavAction = iota // Next question in the section
	NavFinishSection                  // Last question of a non-final section
	NavSubmit                         // Last question overall
)

func (a NavAction) Label() string {
	switch a {
	case NavFinishSection:
		return "Finish Section →"
	case NavSubmit:
		return "Submit"
	}
	return "Next →"
}

// Start begins the exam at the first question of the section at position
// section in category order. Sections without questions are skipped. It
// reports whether the caller must arm the clock tick loop, which happens
// only the first time.
func Start(state *SessionState, section int) bool {
	if state.Phase == PhaseSubmitting || state.Phase == PhaseResults {
		return false
	}
	if section < 0 {
		return false
	}
	first := -1
	for _, c := range state.Bank.Categories[min(section, len(state.Bank.Categories)):] {
		if indices := state.Bank.SectionIndices(c.Slug); len(indices) > 0 {
			first = indices[0]
			break
		}
	}
	if first < 0 {
		return false
	}

	state.Phase = PhaseInSection
	goTo(state, first)

	if state.clockStarted {
		return false
	}
	state.clockStarted = true
	return true
}

// GoTo makes question i current. Out-of-range indices are ignored.
func GoTo(state *SessionState, i int) bool {
	if state.Phase != PhaseInSection {
		return false
	}
	if i < 0 || i >= state.Bank.Total() {
		return false
	}
	goTo(state, i)
	return true
}

func goTo(state *SessionState, i int) {
	state.Index = i
	SyncDots(state)
}

// Advance moves forward within the section. Crossing into the next section
// marks the current one complete and raises the interstitial without moving.
func Advance(state *SessionState) AdvanceResult {
	if state.Phase != PhaseInSection {
		return AdvanceNone
	}
	next := state.Index + 1
	if next >= state.Bank.Total() {
		return AdvanceNone
	}

	cur := state.Section().Slug
	if state.Bank.Questions[next].Category.Slug == cur {
		goTo(state, next)
		return AdvanceMoved
	}

	state.Completed[cur] = true
	state.LastCompleted = cur
	state.Phase = PhaseSectionComplete
	return AdvanceSectionComplete
}

// CanRetreat reports whether a previous question exists in the same section.
func CanRetreat(state *SessionState) bool {
	if state.Phase != PhaseInSection {
		return false
	}
	pos, _ := state.Position()
	return pos > 1
}

// Retreat moves to the previous question. It is a no-op at the first
// question of a section.
func Retreat(state *SessionState) bool {
	if !CanRetreat(state) {
		return false
	}
	goTo(state, state.Index-1)
	return true
}

// Continue acknowledges the section interstitial and jumps to the first
// question of the first section not yet completed. When every section is
// complete it parks on the final question so the learner can submit.
func Continue(state *SessionState) bool {
	if state.Phase != PhaseSectionComplete {
		return false
	}
	state.Phase = PhaseInSection

	for _, c := range state.Bank.Categories {
		if state.Completed[c.Slug] {
			continue
		}
		if indices := state.Bank.SectionIndices(c.Slug); len(indices) > 0 {
			goTo(state, indices[0])
			return true
		}
	}

	goTo(state, state.Bank.Total()-1)
	return true
}

// Nav returns the forward affordance for the visible question.
func Nav(state *SessionState) NavAction {
	if state.Index == state.Bank.Total()-1 {
		return NavSubmit
	}
	pos, count := state.Position()
	if pos == count {
		return NavFinishSection
	}
	return NavNext
}

// SelectOption records option opt for the visible choice question.
func SelectOption(state *SessionState, opt int) bool {
	if state.Phase != PhaseInSection {
		return false
	}
	q := state.Current()
	if !q.Type.IsChoice() || opt < 0 || opt >= len(q.Options) {
		return false
	}
	state.Answers[q.Key()] = exam.Choice(opt)
	SyncDots(state)
	return true
}

// Picked returns the selected option of the visible question, if any.
func Picked(state *SessionState) (int, bool) {
	a, ok := state.Answers[state.CurrentKey()]
	if !ok {
		return 0, false
	}
	return a.Index()
}

// SetText records free text for the visible question. Clearing the text
// keeps the key with an empty value.
func SetText(state *SessionState, text string) bool {
	if state.Phase != PhaseInSection {
		return false
	}
	q := state.Current()
	if !q.Type.IsFreeText() {
		return false
	}
	state.Answers[q.Key()] = exam.Text(text)
	SyncDots(state)
	return true
}

// Tick advances the elapsed clock by one second. It reports whether the
// tick loop should re-arm.
func Tick(state *SessionState) bool {
	if !state.ClockRunning() {
		return false
	}
	state.Elapsed += time.Second
	return true
}

// FormatElapsed renders d as MM:SS.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
