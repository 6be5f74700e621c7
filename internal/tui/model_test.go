package tui

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/haneol/mundap/internal/analyzer"
	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/questgen"
	"github.com/haneol/mundap/internal/session"
)

const testPassage = "민초가 최고의 간식임이 분명하다. " +
	"실제로 판매량이 전년 대비 3배 증가했다는 조사 결과가 있다. " +
	"하지만 일부 소비자는 치약 맛이 난다고 말한다. " +
	"따라서 민초는 대중적인 간식으로 자리잡게 되었다."

const groundedAnswer = "판매량이 전년 대비 3배 증가했다는 조사 결과가 " +
	"민초가 최고의 간식이라는 주장을 뒷받침한다고 생각합니다"

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	orch := session.New(
		analyzer.New(analyzer.DefaultConfig(), nil),
		questgen.New(questgen.Config{Seed: 7, SnippetMaxRunes: 40}, nil),
		evaluate.New(evaluate.DefaultConfig(), nil, nil, nil),
		nil,
		nil,
	)
	m := NewModel(orch, "p1", testPassage)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mm.(Model)
}

func startedModel(t *testing.T) Model {
	t.Helper()
	m := newTestModel(t)
	msg := m.startSession()()
	mm, _ := m.Update(msg)
	m = mm.(Model)
	if m.phase != phaseQuestion {
		t.Fatalf("phase = %d after start, want question (err %q)", m.phase, m.errMsg)
	}
	return m
}

func TestStartOpensQuestion(t *testing.T) {
	m := startedModel(t)
	if m.emission.Question == "" {
		t.Error("no question in emission")
	}
	if m.emission.CurrentTurn != 1 {
		t.Errorf("CurrentTurn = %d, want 1", m.emission.CurrentTurn)
	}
	if !strings.Contains(m.renderQuestion(), m.emission.Question) {
		t.Error("question text missing from view")
	}
}

func TestStartFailureShowsError(t *testing.T) {
	m := newTestModel(t)
	m.passage = "   "
	msg := m.startSession()()
	mm, _ := m.Update(msg)
	m = mm.(Model)
	if m.phase != phaseError {
		t.Fatalf("phase = %d, want error", m.phase)
	}
	if m.renderError() == "" {
		t.Error("empty error view")
	}
}

func TestSubmitShowsFeedbackThenNextQuestion(t *testing.T) {
	m := startedModel(t)

	msg := m.submitAnswer(groundedAnswer)()
	mm, _ := m.Update(msg)
	m = mm.(Model)
	if m.phase != phaseFeedback {
		t.Fatalf("phase = %d, want feedback (err %q)", m.phase, m.errMsg)
	}
	if m.emission.Evaluation == nil {
		t.Fatal("no evaluation in emission")
	}
	if !strings.Contains(m.renderFeedback(), "근거") {
		t.Error("feedback view missing diagnosis text")
	}

	// Any key dismisses feedback and opens the next turn.
	mm, cmd := m.Update(keyPress(' '))
	m = mm.(Model)
	if cmd == nil {
		t.Fatal("expected next-question command")
	}
	mm, _ = m.Update(cmd())
	m = mm.(Model)
	if m.phase != phaseQuestion {
		t.Fatalf("phase = %d, want question", m.phase)
	}
	if m.emission.CurrentTurn != 2 {
		t.Errorf("CurrentTurn = %d, want 2", m.emission.CurrentTurn)
	}
}

func TestFullSessionReachesSummary(t *testing.T) {
	m := startedModel(t)

	for turn := 1; turn <= session.MaxTurns; turn++ {
		msg := m.submitAnswer(groundedAnswer)()
		mm, _ := m.Update(msg)
		m = mm.(Model)
		if m.phase != phaseFeedback {
			t.Fatalf("turn %d: phase = %d, want feedback (err %q)", turn, m.phase, m.errMsg)
		}
		mm, cmd := m.Update(keyPress(' '))
		m = mm.(Model)
		if turn < session.MaxTurns {
			mm, _ = m.Update(cmd())
			m = mm.(Model)
		}
	}

	if m.phase != phaseSummary {
		t.Fatalf("phase = %d, want summary", m.phase)
	}
	view := m.renderSummary()
	if !strings.Contains(view, "문답 정리") {
		t.Errorf("summary view missing heading: %q", view)
	}

	// Any key on the summary quits.
	_, cmd := m.Update(keyPress(' '))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestQuitConfirmFlow(t *testing.T) {
	m := startedModel(t)

	mm, _ := m.Update(specialKey(tea.KeyEscape))
	m = mm.(Model)
	if !m.quitConfirm {
		t.Fatal("expected quit confirmation")
	}
	if m.renderQuitConfirm() == "" {
		t.Error("empty quit confirm view")
	}

	mm, _ = m.Update(keyPress('n'))
	m = mm.(Model)
	if m.quitConfirm {
		t.Fatal("expected quit confirmation dismissed")
	}

	mm, _ = m.Update(specialKey(tea.KeyEscape))
	m = mm.(Model)
	_, cmd := m.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected finalize command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("msg = %#v, want QuitMsg", msg)
	}
	if m.state.Status != session.StatusCompleted {
		t.Errorf("Status = %q, want COMPLETED after finalize", m.state.Status)
	}
}

func TestEmptyAnswerIgnored(t *testing.T) {
	m := startedModel(t)
	_, cmd := m.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("empty answer should not submit")
	}
}

func TestResumeWithPendingQuestion(t *testing.T) {
	m := startedModel(t)

	r := NewResumeModel(m.orch, m.state)
	mm, _ := r.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	r = mm.(Model)
	mm, _ = r.Update(r.resumeSession()())
	r = mm.(Model)

	if r.phase != phaseQuestion {
		t.Fatalf("phase = %d, want question", r.phase)
	}
	if r.emission.Question != m.emission.Question {
		t.Errorf("resumed question %q, want %q", r.emission.Question, m.emission.Question)
	}
}

func TestResumeCompletedShowsSummary(t *testing.T) {
	m := startedModel(t)
	if _, err := m.orch.Finalize(context.Background(), m.state); err != nil {
		t.Fatal(err)
	}

	r := NewResumeModel(m.orch, m.state)
	mm, _ := r.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	r = mm.(Model)
	mm, _ = r.Update(r.resumeSession()())
	r = mm.(Model)

	if r.phase != phaseSummary {
		t.Fatalf("phase = %d, want summary", r.phase)
	}
}

func TestLabelAndDiagText(t *testing.T) {
	if labelText(evaluate.LabelGood) != "좋아요!" {
		t.Error("unexpected GOOD label text")
	}
	for _, d := range []evaluate.Diag{
		evaluate.DiagOK, evaluate.DiagTooShort, evaluate.DiagOffPath,
		evaluate.DiagNoGrounding, evaluate.DiagMissingWhy, evaluate.DiagGeneric,
	} {
		if diagText(d) == "" {
			t.Errorf("no message for diag %s", d)
		}
	}
}
