// Package session runs the four-turn Socratic loop: analyze a passage,
// question its logic nodes one at a time, grade each answer, and either
// advance to the next node or probe the same one with feedback.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haneol/mundap/internal/analyzer"
	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/questgen"
	"github.com/haneol/mundap/internal/store"
)

var (
	// ErrTurnPending reports a question asked while the previous one is
	// still unanswered.
	ErrTurnPending = errors.New("session: current turn awaits an answer")

	// ErrNoTurnPending reports an answer submitted with no open question.
	ErrNoTurnPending = errors.New("session: no question awaiting an answer")

	// ErrCompleted reports an operation on a finished session.
	ErrCompleted = errors.New("session: already completed")

	// ErrNotFound reports an unknown session id.
	ErrNotFound = errors.New("session: not found")
)

// Repo persists session snapshots. *store.Store satisfies it; a nil Repo
// keeps sessions in memory only.
type Repo interface {
	SaveSession(ctx context.Context, rec store.SessionRecord) error
	LoadSession(ctx context.Context, id string) (store.SessionRecord, error)
}

// Orchestrator drives sessions end to end. It is not safe for concurrent
// use on the same State.
type Orchestrator struct {
	analyzer  *analyzer.Analyzer
	generator *questgen.Generator
	evaluator *evaluate.Evaluator
	repo      Repo
	log       *zap.Logger
	now       func() time.Time
}

// New assembles an Orchestrator. A nil repo disables persistence and a
// nil logger disables logging.
func New(an *analyzer.Analyzer, gen *questgen.Generator, ev *evaluate.Evaluator, repo Repo, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		analyzer:  an,
		generator: gen,
		evaluator: ev,
		repo:      repo,
		log:       log,
		now:       time.Now,
	}
}

// Start analyzes the passage, opens a session and asks the first question.
func (o *Orchestrator) Start(ctx context.Context, passageID, passage string) (*State, Emission, error) {
	nodes, err := o.analyzer.Analyze(passage)
	if err != nil {
		return nil, Emission{}, fmt.Errorf("analyze passage: %w", err)
	}

	now := o.now()
	st := &State{
		ID:          uuid.NewString(),
		PassageID:   passageID,
		Passage:     passage,
		Nodes:       nodes,
		Status:      StatusActive,
		CurrentTurn: 1,
		NodeOrder:   orderNodes(nodes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	o.ask(st)
	if err := o.persist(ctx, st); err != nil {
		return nil, Emission{}, err
	}

	o.log.Info("session started",
		zap.String("session_id", st.ID),
		zap.String("passage_id", passageID),
		zap.Int("nodes", len(nodes)))
	return st, o.emit(st, nil), nil
}

// Submit grades the answer to the pending question and advances the
// session, completing it on the final turn.
func (o *Orchestrator) Submit(ctx context.Context, st *State, answer string) (Emission, error) {
	if st.Status == StatusCompleted {
		return Emission{}, ErrCompleted
	}
	turn := st.pending()
	if turn == nil {
		return Emission{}, ErrNoTurnPending
	}

	node := st.Nodes[nodeIndexByID(st.Nodes, turn.NodeID)]
	res, err := o.evaluator.Evaluate(ctx, evaluate.Input{
		Question: turn.Question.Text,
		Answer:   answer,
		NodeText: node.Text,
		Evidence: evidenceTexts(st.Nodes),
	})
	if err != nil {
		return Emission{}, fmt.Errorf("evaluate answer: %w", err)
	}

	now := o.now()
	turn.Answer = answer
	turn.Evaluation = &res
	turn.AnsweredAt = now
	st.UpdatedAt = now

	if res.Passed() {
		st.NodeCursor++
	}

	if st.CurrentTurn >= MaxTurns {
		st.Status = StatusCompleted
	}
	st.CurrentTurn++

	if err := o.persist(ctx, st); err != nil {
		return Emission{}, err
	}

	o.log.Info("answer graded",
		zap.String("session_id", st.ID),
		zap.Int("turn", turn.Number),
		zap.String("label", string(res.Label)))
	return o.emit(st, &res), nil
}

// NextQuestion opens the next turn and returns its question. Calling it
// while the current question is still unanswered reports ErrTurnPending.
func (o *Orchestrator) NextQuestion(ctx context.Context, st *State) (Emission, error) {
	if st.Status == StatusCompleted {
		return Emission{}, ErrCompleted
	}
	if st.pending() != nil {
		return Emission{}, ErrTurnPending
	}
	o.ask(st)
	st.UpdatedAt = o.now()
	if err := o.persist(ctx, st); err != nil {
		return Emission{}, err
	}
	return o.emit(st, nil), nil
}

// Snapshot returns the emission view of the session as it stands, without
// mutating it. Used when re-entering a resumed session.
func (o *Orchestrator) Snapshot(st *State) Emission {
	return o.emit(st, nil)
}

// Question returns the pending question without mutating the session.
func (o *Orchestrator) Question(st *State) (questgen.Result, error) {
	if st.Status == StatusCompleted {
		return questgen.Result{}, ErrCompleted
	}
	turn := st.pending()
	if turn == nil {
		return questgen.Result{}, ErrNoTurnPending
	}
	return turn.Question, nil
}

// Finalize force-completes a session. Unanswered turns stay unanswered;
// nothing is fabricated.
func (o *Orchestrator) Finalize(ctx context.Context, st *State) (Emission, error) {
	if st.Status == StatusCompleted {
		return Emission{}, ErrCompleted
	}
	st.Status = StatusCompleted
	st.UpdatedAt = o.now()
	if err := o.persist(ctx, st); err != nil {
		return Emission{}, err
	}
	o.log.Info("session finalized early", zap.String("session_id", st.ID))
	return o.emit(st, nil), nil
}

// Resume loads a persisted session.
func (o *Orchestrator) Resume(ctx context.Context, id string) (*State, error) {
	if o.repo == nil {
		return nil, ErrNotFound
	}
	rec, err := o.repo.LoadSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resume session %s: %w", id, err)
	}
	var st State
	if err := json.Unmarshal(rec.Payload, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &st, nil
}

// ask appends the next question turn. The question branches on the
// previous evaluation: a pass moves to the next node with a fresh
// question, anything else probes the same node with feedback.
func (o *Orchestrator) ask(st *State) {
	node := st.currentNode()
	history := questgen.History{
		TemplateIDs: st.usedTemplates(),
		Entities:    st.usedEntities(),
	}

	var q questgen.Result
	if prev := lastEvaluated(st); prev != nil && !prev.Evaluation.Passed() {
		q = o.generator.GenerateFeedback(questgen.Feedback{
			Passed:   prev.Evaluation.Passed(),
			Relation: string(prev.Evaluation.Relation),
			Label:    string(prev.Evaluation.Label),
			Answer:   prev.Answer,
			Question: prev.Question.Text,
		}, node, prev.Question)
	} else {
		q = o.generator.Generate(node, history)
	}

	nodeID := node.ID
	st.Turns = append(st.Turns, Turn{
		Number:   st.CurrentTurn,
		NodeID:   &nodeID,
		Question: q,
		AskedAt:  o.now(),
	})
}

func (o *Orchestrator) emit(st *State, res *evaluate.Result) Emission {
	em := Emission{
		SessionID:   st.ID,
		Status:      st.Status,
		CurrentTurn: st.CurrentTurn,
		MaxTurns:    MaxTurns,
		Evaluation:  res,
	}
	if turn := st.pending(); turn != nil {
		em.Question = turn.Question.Text
	}
	if st.Status == StatusCompleted {
		sum := st.Summarize()
		em.Summary = &sum
	}
	return em
}

func (o *Orchestrator) persist(ctx context.Context, st *State) error {
	if o.repo == nil {
		return nil
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", st.ID, err)
	}
	err = o.repo.SaveSession(ctx, store.SessionRecord{
		ID:          st.ID,
		Status:      string(st.Status),
		CurrentTurn: st.CurrentTurn,
		Payload:     payload,
		CreatedAt:   st.CreatedAt,
		UpdatedAt:   st.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("persist session %s: %w", st.ID, err)
	}
	return nil
}

// orderNodes ranks node indices strongest first, ties broken by passage
// order.
func orderNodes(nodes []analyzer.Node) []int {
	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return nodes[order[a]].Weight > nodes[order[b]].Weight
	})
	return order
}

func nodeIndexByID(nodes []analyzer.Node, id *string) int {
	if id == nil {
		return 0
	}
	for i, n := range nodes {
		if n.ID == *id {
			return i
		}
	}
	return 0
}

// evidenceTexts collects the texts of evidence-role nodes for grounding
// checks.
func evidenceTexts(nodes []analyzer.Node) evaluate.EvidenceList {
	var out evaluate.EvidenceList
	for _, n := range nodes {
		if n.PrimaryRole == analyzer.RoleEvidence {
			out = append(out, n.Text)
		}
	}
	return out
}

func lastEvaluated(st *State) *Turn {
	for i := len(st.Turns) - 1; i >= 0; i-- {
		if st.Turns[i].Evaluation != nil {
			return &st.Turns[i]
		}
	}
	return nil
}
