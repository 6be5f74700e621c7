package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/session"
	"github.com/haneol/mundap/internal/ui/components"
	"github.com/haneol/mundap/internal/ui/layout"
	"github.com/haneol/mundap/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.statusLabel(), m.turnForHeader(), session.MaxTurns, m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)

	var content string
	switch {
	case m.phase == phaseError:
		content = m.renderError()
	case m.quitConfirm:
		content = m.renderQuitConfirm()
	case m.phase == phaseLoading:
		content = m.renderLoading()
	case m.phase == phaseFeedback:
		content = m.renderFeedback()
	case m.phase == phaseSummary:
		content = m.renderSummary()
	default:
		content = m.renderQuestion()
	}

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m Model) statusLabel() string {
	switch m.phase {
	case phaseLoading:
		return "지문 분석 중"
	case phaseSummary:
		return "학습 끝"
	default:
		return "질문에 답해 보세요"
	}
}

func (m Model) turnForHeader() int {
	if m.emission.CurrentTurn == 0 {
		return 1
	}
	return min(m.emission.CurrentTurn, session.MaxTurns)
}

func (m Model) keyHints() []layout.KeyHint {
	if m.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "그만하기"},
			{Key: "N", Description: "계속하기"},
		}
	}
	switch m.phase {
	case phaseFeedback:
		return []layout.KeyHint{{Key: "아무 키", Description: "다음으로"}}
	case phaseSummary, phaseError:
		return []layout.KeyHint{{Key: "아무 키", Description: "나가기"}}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "제출"},
			{Key: "Esc", Description: "그만하기"},
		}
	}
}

func (m Model) renderLoading() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n  지문을 분석하고 있어요...")
}

func (m Model) renderError() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("\n\n" + m.errMsg)
}

func (m Model) renderQuitConfirm() string {
	card := theme.Card.Render("여기서 그만할까요?\n\n지금까지의 기록은 저장됩니다.\n\n[Y] 그만하기   [N] 계속하기")
	return "\n\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card)
}

func (m Model) renderQuestion() string {
	var b strings.Builder

	b.WriteString(components.NewTurnProgress(m.turnForHeader(), session.MaxTurns, m.width-8).View())
	b.WriteString("\n\n")

	passageWidth := min(m.width-8, 76)
	passageBlock := theme.Passage.Width(passageWidth).Render(m.passageText())
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, passageBlock))
	b.WriteString("\n\n")

	question := lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(m.emission.Question)
	b.WriteString(question)
	b.WriteString("\n\n")

	answerLine := lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Render("답변: " + m.input.View())
	b.WriteString(answerLine)

	return b.String()
}

// passageText prefers the analyzed passage held in session state so a
// resumed session renders the same text it was started with.
func (m Model) passageText() string {
	if m.state != nil && m.state.Passage != "" {
		return m.state.Passage
	}
	return m.passage
}

func (m Model) renderFeedback() string {
	ev := m.emission.Evaluation
	if ev == nil {
		return m.renderLoading()
	}

	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Render(labelStyle(ev.Label).Render(labelText(ev.Label))))
	b.WriteString("\n\n")

	diagLine := lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(diagText(ev.Diag))
	b.WriteString(diagLine)
	b.WriteString("\n\n")

	scores := lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("주제 연관 %.2f · 근거 연결 %.2f", ev.Scores.QAScore, ev.Scores.LinkScore))
	b.WriteString(scores)

	if m.emission.Status == session.StatusCompleted {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render("마지막 질문이었어요. 아무 키나 누르면 정리를 볼 수 있어요."))
	}

	return b.String()
}

func (m Model) renderSummary() string {
	sum := m.emission.Summary
	if sum == nil && m.state != nil {
		s := m.state.Summarize()
		sum = &s
	}
	if sum == nil {
		return m.renderLoading()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "오늘의 문답 정리\n\n")
	fmt.Fprintf(&b, "답한 질문   %d\n", sum.Turns)
	fmt.Fprintf(&b, "좋은 답변   %d\n\n", sum.Passed)
	for _, label := range []evaluate.Label{
		evaluate.LabelGood, evaluate.LabelWeakLink,
		evaluate.LabelOffPath, evaluate.LabelInsufficient,
	} {
		if n := sum.LabelCounts[string(label)]; n > 0 {
			fmt.Fprintf(&b, "%s  %d\n", labelText(label), n)
		}
	}

	card := theme.Card.Render(strings.TrimRight(b.String(), "\n"))
	return "\n\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, card)
}

func labelStyle(l evaluate.Label) lipgloss.Style {
	switch l {
	case evaluate.LabelGood:
		return theme.Good
	case evaluate.LabelWeakLink:
		return theme.Weak
	case evaluate.LabelOffPath:
		return theme.Off
	default:
		return theme.Thin
	}
}

func labelText(l evaluate.Label) string {
	switch l {
	case evaluate.LabelGood:
		return "좋아요!"
	case evaluate.LabelWeakLink:
		return "연결이 조금 약해요"
	case evaluate.LabelOffPath:
		return "질문에서 벗어났어요"
	default:
		return "설명이 부족해요"
	}
}

func diagText(d evaluate.Diag) string {
	switch d {
	case evaluate.DiagOK:
		return "근거와 이유가 잘 이어졌어요."
	case evaluate.DiagTooShort:
		return "답변이 너무 짧아요. 조금 더 자세히 설명해 볼까요?"
	case evaluate.DiagOffPath:
		return "질문과 다른 방향의 답변이에요. 질문을 다시 읽어 볼까요?"
	case evaluate.DiagNoGrounding:
		return "지문 속 근거가 답변에 쓰이지 않았어요."
	case evaluate.DiagMissingWhy:
		return "'왜 그런지'에 대한 설명이 빠져 있어요."
	case evaluate.DiagGeneric:
		return "뭉뚱그린 표현 대신 구체적인 내용으로 설명해 볼까요?"
	default:
		return ""
	}
}
