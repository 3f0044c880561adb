package session

import (
	"time"
	"unicode/utf8"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/exam"
)

const (
	// DefaultCheckDelay is the quiet period before an AI check fires.
	DefaultCheckDelay = 1500 * time.Millisecond

	// DefaultMinChars is the shortest text worth checking.
	DefaultMinChars = 30

	// DefaultDetectionType labels a detection the backend did not classify.
	DefaultDetectionType = "generated"
)

// CheckHandle identifies one scheduled AI check. A handle is superseded by
// any later Schedule or Cancel for the same key.
type CheckHandle struct {
	Key exam.Key
	gen uint64
}

// Debouncer tracks the pending AI check per answer key with a generation
// counter. Timers live in the UI runtime; the debouncer only decides which
// fired timer and which response is still current.
type Debouncer struct {
	Delay    time.Duration
	MinChars int

	gens map[exam.Key]uint64
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(delay time.Duration, minChars int) *Debouncer {
	return &Debouncer{Delay: delay, MinChars: minChars, gens: make(map[exam.Key]uint64)}
}

// Schedule cancels any pending check for key and returns a new handle when
// text is long enough to be worth checking.
func (d *Debouncer) Schedule(key exam.Key, text string) (CheckHandle, bool) {
	d.gens[key]++
	if !d.eligible(text) {
		return CheckHandle{}, false
	}
	return CheckHandle{Key: key, gen: d.gens[key]}, true
}

// Cancel drops any pending check for key.
func (d *Debouncer) Cancel(key exam.Key) {
	d.gens[key]++
}

// Current reports whether h is the most recent handle for its key.
func (d *Debouncer) Current(h CheckHandle) bool {
	return h.gen != 0 && d.gens[h.Key] == h.gen
}

func (d *Debouncer) eligible(text string) bool {
	return utf8.RuneCountInString(text) >= d.MinChars
}

// PrepareCheck builds the detection request for a fired handle using the
// latest answer text. It returns false when the handle was superseded or
// the text no longer qualifies.
func PrepareCheck(state *SessionState, h CheckHandle) (api.DetectRequest, bool) {
	if !state.Checks.Current(h) {
		return api.DetectRequest{}, false
	}
	text := state.Answers[h.Key].Value()
	if !state.Checks.eligible(text) {
		return api.DetectRequest{}, false
	}
	return api.DetectRequest{
		Text:       text,
		QuestionID: h.Key.QuestionID,
		Category:   h.Key.Category,
	}, true
}

// ApplyCheck folds a detection response into the flag map. Responses for a
// superseded handle are discarded and failures leave flags untouched. It
// reports whether the flag map changed.
func ApplyCheck(state *SessionState, h CheckHandle, text string, det *api.Detection, err error) bool {
	if !state.Checks.Current(h) {
		return false
	}
	if err != nil {
		return false
	}
	if state.Phase == PhaseSubmitting || state.Phase == PhaseResults {
		return false
	}

	if det.Detected() {
		dt := det.DetectionType
		if dt == "" {
			dt = DefaultDetectionType
		}
		state.Flags[h.Key] = exam.AIFlag{Used: true, DetectionType: dt, Text: text}
		return true
	}

	if _, ok := state.Flags[h.Key]; ok {
		delete(state.Flags, h.Key)
		return true
	}
	return false
}
