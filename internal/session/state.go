package session

import (
	"time"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/exam"
)

// SessionPhase represents the current phase of the exam.
type SessionPhase int

const (
	PhaseIdle            SessionPhase = iota // Bank loaded, exam not started
	PhaseInSection                           // Answering questions
	PhaseSectionComplete                     // Section interstitial shown
	PhaseSubmitting                          // Submission in flight
	PhaseResults                             // Server review received
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInSection:
		return "in-section"
	case PhaseSectionComplete:
		return "section-complete"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResults:
		return "results"
	}
	return "unknown"
}

// SessionState tracks the runtime state of one exam attempt. It is mutated
// only from the UI event loop.
type SessionState struct {
	// Bank is the loaded question store.
	Bank *exam.Bank

	// StudentName is sent with the submission.
	StudentName string

	// AttemptID identifies this attempt in logs and request headers.
	AttemptID string

	// Index is the global index of the visible question.
	Index int

	// Phase is the current exam phase.
	Phase SessionPhase

	// Completed holds the slugs of finished sections. Entries are never removed.
	Completed map[string]bool

	// LastCompleted is the section whose completion raised the interstitial.
	LastCompleted string

	Answers exam.AnswerMap
	Flags   exam.FlagMap

	// Checks debounces AI detection requests.
	Checks *Debouncer

	// Elapsed is the time spent in the exam, advanced by Tick.
	Elapsed time.Duration

	clockStarted bool
	clockStopped bool

	// Dots are the progress markers for the current section.
	Dots []Dot

	// DotsSection is the section Dots were built for.
	DotsSection string

	// Result holds the server's response once submitted.
	Result *api.SubmitResponse

	// SubmitErr is the most recent submission failure, cleared on retry.
	SubmitErr error
}

// NewSessionState creates an idle session over bank. checks schedules the
// AI-usage hints; nil uses the default delay and threshold.
func NewSessionState(bank *exam.Bank, studentName, attemptID string, checks *Debouncer) *SessionState {
	if checks == nil {
		checks = NewDebouncer(DefaultCheckDelay, DefaultMinChars)
	}
	return &SessionState{
		Bank:        bank,
		StudentName: studentName,
		AttemptID:   attemptID,
		Phase:       PhaseIdle,
		Completed:   make(map[string]bool),
		Answers:     make(exam.AnswerMap),
		Flags:       make(exam.FlagMap),
		Checks:      checks,
	}
}

// Current returns the visible question.
func (s *SessionState) Current() exam.Question {
	return s.Bank.Questions[s.Index]
}

// CurrentKey returns the answer key of the visible question.
func (s *SessionState) CurrentKey() exam.Key {
	return s.Current().Key()
}

// Section returns the category of the visible question.
func (s *SessionState) Section() exam.Category {
	return s.Current().Category
}

// Position returns the 1-based position of the visible question within its
// section and the section's size.
func (s *SessionState) Position() (pos, count int) {
	slug := s.Section().Slug
	for _, i := range s.Bank.SectionIndices(slug) {
		count++
		if i == s.Index {
			pos = count
		}
	}
	return pos, count
}

// ClockRunning reports whether Tick still advances Elapsed.
func (s *SessionState) ClockRunning() bool {
	return s.clockStarted && !s.clockStopped
}
