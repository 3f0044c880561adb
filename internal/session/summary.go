package session

import "github.com/abhisek/examiz/internal/exam"

// SectionMark is one row of the section-complete interstitial.
type SectionMark struct {
	Category exam.Category
	Count    int
	Answered int
	Done     bool
}

// Sections summarises every section for the interstitial and overview.
func Sections(state *SessionState) []SectionMark {
	marks := make([]SectionMark, 0, len(state.Bank.Categories))
	for _, c := range state.Bank.Categories {
		m := SectionMark{Category: c, Done: state.Completed[c.Slug]}
		for _, i := range state.Bank.SectionIndices(c.Slug) {
			m.Count++
			if state.Answers.Answered(state.Bank.Questions[i].Key()) {
				m.Answered++
			}
		}
		marks = append(marks, m)
	}
	return marks
}

// Remaining reports whether any non-empty section is still incomplete.
func Remaining(state *SessionState) bool {
	for _, m := range Sections(state) {
		if !m.Done && m.Count > 0 {
			return true
		}
	}
	return false
}
