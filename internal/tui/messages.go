package tui

import (
	"github.com/haneol/mundap/internal/session"
)

// sessionStartedMsg carries the result of starting the session.
type sessionStartedMsg struct {
	State    *session.State
	Emission session.Emission
	Err      error
}

// answerGradedMsg carries the evaluation of a submitted answer.
type answerGradedMsg struct {
	Emission session.Emission
	Err      error
}

// questionReadyMsg carries the next opened turn.
type questionReadyMsg struct {
	Emission session.Emission
	Err      error
}
