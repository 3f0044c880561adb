package exam

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/session"
)

// clockTickMsg advances the exam clock by one second.
type clockTickMsg time.Time

// aiCheckDueMsg is sent when a debounced AI check's quiet period ends.
type aiCheckDueMsg struct {
	Handle session.CheckHandle
}

// aiCheckDoneMsg carries the backend's verdict for one AI check.
type aiCheckDoneMsg struct {
	Handle    session.CheckHandle
	Text      string
	Detection *api.Detection
	Err       error
}

// submitDoneMsg carries the result of the exam submission.
type submitDoneMsg struct {
	Response *api.SubmitResponse
	Err      error
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}
