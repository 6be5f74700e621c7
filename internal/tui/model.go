package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/haneol/mundap/internal/session"
	"github.com/haneol/mundap/internal/ui/components"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
	phaseSummary
	phaseError
)

const answerMaxRunes = 300

// Model is the single-screen tutor session. One passage, four questions,
// a summary.
type Model struct {
	orch      *session.Orchestrator
	passageID string
	passage   string

	state    *session.State
	emission session.Emission
	input    components.TextInput
	phase    phase

	quitConfirm bool
	errMsg      string

	width  int
	height int
}

// NewModel builds the tutor model for one passage.
func NewModel(orch *session.Orchestrator, passageID, passage string) Model {
	return Model{
		orch:      orch,
		passageID: passageID,
		passage:   passage,
		input:     newAnswerInput(),
		phase:     phaseLoading,
	}
}

// NewResumeModel builds the tutor model around an already-loaded session.
func NewResumeModel(orch *session.Orchestrator, st *session.State) Model {
	return Model{
		orch:      orch,
		passageID: st.PassageID,
		passage:   st.Passage,
		state:     st,
		input:     newAnswerInput(),
		phase:     phaseLoading,
	}
}

func newAnswerInput() components.TextInput {
	return components.NewTextInput("답변을 입력하세요...", answerMaxRunes)
}

func (m Model) Init() tea.Cmd {
	if m.state != nil {
		return tea.Batch(m.resumeSession(), m.input.Init())
	}
	return tea.Batch(m.startSession(), m.input.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionStartedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			m.phase = phaseError
			return m, nil
		}
		m.state = msg.State
		m.emission = msg.Emission
		if msg.Emission.Status == session.StatusCompleted {
			m.phase = phaseSummary
		} else {
			m.phase = phaseQuestion
		}
		return m, nil

	case answerGradedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			m.phase = phaseError
			return m, nil
		}
		m.emission = msg.Emission
		if msg.Emission.Evaluation != nil {
			m.input.Submit(msg.Emission.Evaluation.Passed())
		}
		m.phase = phaseFeedback
		return m, nil

	case questionReadyMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			m.phase = phaseError
			return m, nil
		}
		m.emission = msg.Emission
		m.input = newAnswerInput()
		m.phase = phaseQuestion
		return m, m.input.Init()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseQuestion && !m.quitConfirm {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, m.finalizeAndQuit()
	}

	if m.phase == phaseError {
		return m, tea.Quit
	}

	if m.quitConfirm {
		switch key {
		case "y", "Y":
			m.quitConfirm = false
			return m, m.finalizeAndQuit()
		case "n", "N", "esc":
			m.quitConfirm = false
			return m, nil
		}
		return m, nil
	}

	switch m.phase {
	case phaseSummary:
		return m, tea.Quit

	case phaseFeedback:
		if m.emission.Status == session.StatusCompleted {
			m.phase = phaseSummary
			return m, nil
		}
		return m, m.nextQuestion()

	case phaseQuestion:
		switch key {
		case "esc":
			m.quitConfirm = true
			return m, nil
		case "enter":
			answer := strings.TrimSpace(m.input.Value())
			if answer == "" {
				return m, nil
			}
			return m, m.submitAnswer(answer)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// startSession analyzes the passage and opens the first turn.
func (m Model) startSession() tea.Cmd {
	orch, passageID, passage := m.orch, m.passageID, m.passage
	return func() tea.Msg {
		st, em, err := orch.Start(context.Background(), passageID, passage)
		return sessionStartedMsg{State: st, Emission: em, Err: err}
	}
}

// resumeSession re-enters a loaded session: show the pending question if
// one is open, otherwise open the next turn.
func (m Model) resumeSession() tea.Cmd {
	orch, st := m.orch, m.state
	return func() tea.Msg {
		if st.Status == session.StatusActive {
			if _, err := orch.Question(st); err != nil {
				em, err := orch.NextQuestion(context.Background(), st)
				return sessionStartedMsg{State: st, Emission: em, Err: err}
			}
		}
		return sessionStartedMsg{State: st, Emission: orch.Snapshot(st)}
	}
}

// submitAnswer grades the pending turn.
func (m Model) submitAnswer(answer string) tea.Cmd {
	orch, st := m.orch, m.state
	return func() tea.Msg {
		em, err := orch.Submit(context.Background(), st, answer)
		return answerGradedMsg{Emission: em, Err: err}
	}
}

// nextQuestion opens the next turn after feedback is dismissed.
func (m Model) nextQuestion() tea.Cmd {
	orch, st := m.orch, m.state
	return func() tea.Msg {
		em, err := orch.NextQuestion(context.Background(), st)
		return questionReadyMsg{Emission: em, Err: err}
	}
}

// finalizeAndQuit closes the session before leaving so an abandoned run
// still lands in the store as COMPLETED.
func (m Model) finalizeAndQuit() tea.Cmd {
	orch, st := m.orch, m.state
	return func() tea.Msg {
		if st != nil && st.Status == session.StatusActive {
			_, _ = orch.Finalize(context.Background(), st)
		}
		return tea.Quit()
	}
}

// Run starts the tutor program for one passage.
func Run(orch *session.Orchestrator, passageID, passage string) error {
	return runProgram(NewModel(orch, passageID, passage))
}

// RunResume reopens a persisted session.
func RunResume(orch *session.Orchestrator, st *session.State) error {
	return runProgram(NewResumeModel(orch, st))
}

func runProgram(m Model) error {
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error running tutor:", err)
		return err
	}
	return nil
}
