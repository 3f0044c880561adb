package session

import "fmt"

// DotState is the visual state of a progress marker.
type DotState int

const (
	DotNone DotState = iota
	DotAnswered
	DotCurrent
)

// Dot is one progress marker for a question in the current section.
type Dot struct {
	Index int // global question index
	State DotState
}

// SyncDots recomputes the section-local markers. When the visible question
// belongs to a different section than the markers were built for, the
// slice is rebuilt; otherwise states are updated in place.
func SyncDots(state *SessionState) {
	slug := state.Section().Slug
	if state.DotsSection != slug || state.Dots == nil {
		indices := state.Bank.SectionIndices(slug)
		state.Dots = make([]Dot, len(indices))
		for i, gi := range indices {
			state.Dots[i].Index = gi
		}
		state.DotsSection = slug
	}

	for i := range state.Dots {
		d := &state.Dots[i]
		switch {
		case d.Index == state.Index:
			d.State = DotCurrent
		case state.Answers.Answered(state.Bank.Questions[d.Index].Key()):
			d.State = DotAnswered
		default:
			d.State = DotNone
		}
	}
}

// Progress returns the fraction of the exam reached, (Index+1)/total.
func Progress(state *SessionState) float64 {
	total := state.Bank.Total()
	if total == 0 {
		return 0
	}
	return float64(state.Index+1) / float64(total)
}

// Tag renders "Section · Question n of m" for the visible question.
func Tag(state *SessionState) string {
	pos, count := state.Position()
	return fmt.Sprintf("%s · Question %d of %d", state.Section().Name, pos, count)
}
