package session

import "github.com/abhisek/examiz/internal/api"

// CanSubmit reports whether the submit affordance is enabled.
func CanSubmit(state *SessionState) bool {
	return state.Phase == PhaseInSection && Nav(state) == NavSubmit
}

// BeginSubmit enters the Submitting phase and assembles the payload from
// copies of the answer and flag maps. A second call while a submission is
// in flight returns false.
func BeginSubmit(state *SessionState) (api.SubmitRequest, bool) {
	if !CanSubmit(state) {
		return api.SubmitRequest{}, false
	}
	state.Phase = PhaseSubmitting
	state.SubmitErr = nil

	return api.SubmitRequest{
		Answers:     state.Answers.Clone(),
		AIUsage:     state.Flags.Clone(),
		Categories:  state.Bank.Slugs(),
		StudentName: state.StudentName,
	}, true
}

// CompleteSubmit stops the clock, stores the review and enters Results.
func CompleteSubmit(state *SessionState, resp *api.SubmitResponse) bool {
	if state.Phase != PhaseSubmitting {
		return false
	}
	state.clockStopped = true
	state.Result = resp
	state.Phase = PhaseResults
	return true
}

// FailSubmit rolls back to InSection so the learner can retry. Answers,
// flags and elapsed time are untouched.
func FailSubmit(state *SessionState, err error) bool {
	if state.Phase != PhaseSubmitting {
		return false
	}
	state.Phase = PhaseInSection
	state.SubmitErr = err
	return true
}
