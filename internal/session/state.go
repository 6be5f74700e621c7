package session

import (
	"time"

	"github.com/haneol/mundap/internal/analyzer"
	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/questgen"
)

// Status of a tutoring session.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// MaxTurns is the fixed length of a tutoring session.
const MaxTurns = 4

// Turn is one question/answer exchange. Evaluation stays nil while the
// answer is outstanding. NodeID is nil for a turn tied to no node; the
// feedback branch re-probes the prior node, so it stays set in practice.
type Turn struct {
	Number     int              `json:"number"`
	NodeID     *string          `json:"node_id"`
	Question   questgen.Result  `json:"question"`
	Answer     string           `json:"answer,omitempty"`
	Evaluation *evaluate.Result `json:"evaluation,omitempty"`
	AskedAt    time.Time        `json:"asked_at"`
	AnsweredAt time.Time        `json:"answered_at,omitzero"`
}

// State is the full serializable session. CurrentTurn counts 1..MaxTurns
// while active and rests at MaxTurns+1 once the session is exhausted.
type State struct {
	ID          string          `json:"id"`
	PassageID   string          `json:"passage_id"`
	Passage     string          `json:"passage"`
	Nodes       []analyzer.Node `json:"nodes"`
	Status      Status          `json:"status"`
	CurrentTurn int             `json:"current_turn"`
	Turns       []Turn          `json:"turns"`

	// nodeOrder holds node indices sorted strongest first; nodeCursor
	// points at the node the current question targets.
	NodeOrder  []int `json:"node_order"`
	NodeCursor int   `json:"node_cursor"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// pending returns the unanswered turn, or nil.
func (s *State) pending() *Turn {
	if len(s.Turns) == 0 {
		return nil
	}
	last := &s.Turns[len(s.Turns)-1]
	if last.Evaluation == nil {
		return last
	}
	return nil
}

// currentNode is the node the cursor points at.
func (s *State) currentNode() analyzer.Node {
	idx := s.NodeOrder[s.NodeCursor%len(s.NodeOrder)]
	return s.Nodes[idx]
}

// usedTemplates and usedEntities rebuild the repetition-avoidance view
// from the turns recorded so far.
func (s *State) usedTemplates() map[string]bool {
	out := make(map[string]bool, len(s.Turns))
	for _, t := range s.Turns {
		out[t.Question.TemplateID] = true
	}
	return out
}

func (s *State) usedEntities() map[string]bool {
	out := make(map[string]bool, len(s.Turns))
	for _, t := range s.Turns {
		if t.Question.Entity != "" {
			out[t.Question.Entity] = true
		}
	}
	return out
}

// Summary is the handoff view of a finished session. History carries the
// full turn log so the report side can replay every question, answer and
// evaluation; the counters are derived from it.
type Summary struct {
	SessionID   string         `json:"session_id"`
	PassageID   string         `json:"passage_id"`
	Status      Status         `json:"status"`
	Turns       int            `json:"turns"`
	Passed      int            `json:"passed"`
	LabelCounts map[string]int `json:"label_counts"`
	History     []Turn         `json:"history"`
	CompletedAt time.Time      `json:"completed_at"`
}

// Summarize builds the handoff view of the session as it stands.
func (s *State) Summarize() Summary {
	sum := Summary{
		SessionID:   s.ID,
		PassageID:   s.PassageID,
		Status:      s.Status,
		LabelCounts: make(map[string]int),
		History:     append([]Turn(nil), s.Turns...),
		CompletedAt: s.UpdatedAt,
	}
	for _, t := range s.Turns {
		if t.Evaluation == nil {
			continue
		}
		sum.Turns++
		sum.LabelCounts[string(t.Evaluation.Label)]++
		if t.Evaluation.Passed() {
			sum.Passed++
		}
	}
	return sum
}

// Emission is what the front end renders after each orchestrator step.
type Emission struct {
	SessionID   string           `json:"session_id"`
	Status      Status           `json:"status"`
	CurrentTurn int              `json:"current_turn"`
	MaxTurns    int              `json:"max_turns"`
	Question    string           `json:"question,omitempty"`
	Evaluation  *evaluate.Result `json:"evaluation,omitempty"`
	Summary     *Summary         `json:"summary,omitempty"`
}
