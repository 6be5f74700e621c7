// Package evaluate grades a learner's answer against the logic node it
// was asked about: on-topic similarity, grounding in the passage's
// evidence, answer substance, and entailment polarity.
package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Label is the overall verdict for one answer.
type Label string

const (
	LabelGood         Label = "GOOD"
	LabelWeakLink     Label = "WEAK_LINK"
	LabelOffPath      Label = "OFF_PATH"
	LabelInsufficient Label = "INSUFFICIENT_REASONING"
)

// Diag narrows the verdict to its dominant cause.
type Diag string

const (
	DiagOK          Diag = "OK"
	DiagTooShort    Diag = "TOO_SHORT_OR_THIN"
	DiagOffPath     Diag = "OFF_PATH"
	DiagNoGrounding Diag = "NO_GROUNDING"
	DiagMissingWhy  Diag = "MISSING_WHY"
	DiagGeneric     Diag = "GENERIC"
)

// ErrInsufficientInput reports an answer with no evaluable content.
var ErrInsufficientInput = errors.New("evaluate: answer has no content")

// EvidenceList tolerates the two shapes evidence arrives in: a single
// string or an array of strings.
type EvidenceList []string

func (e *EvidenceList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*e = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("evidence must be a string or string array: %w", err)
	}
	*e = EvidenceList{one}
	return nil
}

// Input is one answer to grade.
type Input struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	NodeText string       `json:"node_text"`
	Evidence EvidenceList `json:"evidence"`
}

// Scores are the raw measurements behind a verdict.
type Scores struct {
	QAScore       float64 `json:"qa_score"`
	LinkScore     float64 `json:"link_score"`
	LengthRunes   int     `json:"length_runes"`
	LengthTokens  int     `json:"length_tokens"`
	EvidenceCount int     `json:"evidence_count"`
}

// Result is a graded answer. Confidence is a full distribution over
// labels that sums to 1 with the assigned label as its mode.
type Result struct {
	Label      Label             `json:"label"`
	Diag       Diag              `json:"diag"`
	Relation   Relation          `json:"relation"`
	Confidence map[Label]float64 `json:"confidence"`
	Scores     Scores            `json:"scores"`
}

// Passed reports whether the answer should advance the session.
func (r Result) Passed() bool { return r.Label == LabelGood }

// Thresholds separate the verdict bands. Defaults are calibrated for the
// bigram scorer; an embedding scorer needs its own calibration.
type Thresholds struct {
	// QAOnTopic is the minimum similarity between the answer and the
	// question plus node text for the answer to count as on topic.
	QAOnTopic float64 `yaml:"qa_on_topic"`

	// LinkGrounding is the minimum similarity between the answer and
	// the best supporting evidence for the reasoning to count as
	// grounded.
	LinkGrounding float64 `yaml:"link_grounding"`

	// MinAnswerRunes and MinAnswerTokens gate answers too thin to
	// grade at all.
	MinAnswerRunes  int `yaml:"min_answer_runes"`
	MinAnswerTokens int `yaml:"min_answer_tokens"`
}

// Config assembles an Evaluator.
type Config struct {
	Thresholds Thresholds
}

// DefaultConfig returns thresholds calibrated for BigramScorer.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			QAOnTopic:       0.05,
			LinkGrounding:   0.30,
			MinAnswerRunes:  20,
			MinAnswerTokens: 5,
		},
	}
}

// Evaluator grades answers. Safe for concurrent use when its Scorer and
// RelationJudge are.
type Evaluator struct {
	cfg    Config
	scorer Scorer
	judge  RelationJudge
	log    *zap.Logger
}

// New creates an Evaluator. Nil scorer, judge or logger select the
// deterministic defaults.
func New(cfg Config, scorer Scorer, judge RelationJudge, log *zap.Logger) *Evaluator {
	if scorer == nil {
		scorer = BigramScorer{}
	}
	if judge == nil {
		judge = LexicalJudge{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{cfg: cfg, scorer: scorer, judge: judge, log: log}
}

// reasoning connectives whose absence marks an answer that states a
// position without arguing for it.
var whyMarkers = []string{
	"왜", "때문", "므로", "따라서", "그래서", "즉", "하지만", "반면", "만약", "근거",
}

func hasWhyMarker(s string) bool {
	for _, m := range whyMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Evaluate grades one answer.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) (Result, error) {
	answer := strings.TrimSpace(in.Answer)
	if answer == "" {
		return Result{}, ErrInsufficientInput
	}

	scores := Scores{
		LengthRunes:   utf8.RuneCountInString(answer),
		LengthTokens:  len(strings.Fields(answer)),
		EvidenceCount: len(in.Evidence),
	}

	th := e.cfg.Thresholds

	qa, err := e.scorer.Score(ctx, answer, in.Question+" "+in.NodeText)
	if err != nil {
		return Result{}, fmt.Errorf("qa score: %w", err)
	}
	scores.QAScore = qa

	link, err := e.linkScore(ctx, answer, in)
	if err != nil {
		return Result{}, err
	}
	scores.LinkScore = link

	relation, err := e.judge.Judge(ctx, answer, in.NodeText)
	if err != nil {
		return Result{}, fmt.Errorf("judge relation: %w", err)
	}

	label, diag := e.classify(answer, in, scores)

	res := Result{
		Label:      label,
		Diag:       diag,
		Relation:   relation,
		Confidence: confidence(label, scores, th),
		Scores:     scores,
	}
	e.log.Debug("answer evaluated",
		zap.String("label", string(label)),
		zap.String("diag", string(diag)),
		zap.Float64("qa", qa),
		zap.Float64("link", link))
	return res, nil
}

// linkScore is the best similarity between the answer and any evidence
// sentence, with the node text standing in when no evidence exists.
func (e *Evaluator) linkScore(ctx context.Context, answer string, in Input) (float64, error) {
	refs := in.Evidence
	if len(refs) == 0 {
		refs = EvidenceList{in.NodeText}
	}
	best := 0.0
	for _, ref := range refs {
		s, err := e.scorer.Score(ctx, answer, ref)
		if err != nil {
			return 0, fmt.Errorf("link score: %w", err)
		}
		if s > best {
			best = s
		}
	}
	return best, nil
}

func (e *Evaluator) classify(answer string, in Input, s Scores) (Label, Diag) {
	th := e.cfg.Thresholds

	if s.LengthRunes < th.MinAnswerRunes || s.LengthTokens < th.MinAnswerTokens {
		return LabelInsufficient, DiagTooShort
	}
	if s.QAScore < th.QAOnTopic {
		return LabelOffPath, DiagOffPath
	}
	hits := groundingHits(answer, in.Evidence)
	if s.LinkScore < th.LinkGrounding {
		return LabelWeakLink, weakDiag(answer, hits)
	}
	if len(in.Evidence) > 0 && hits == 0 {
		// Bigram similarity without a single shared content token is
		// surface coincidence, not grounding.
		return LabelWeakLink, DiagNoGrounding
	}
	return LabelGood, DiagOK
}

func weakDiag(answer string, hits int) Diag {
	switch {
	case hits < 2:
		return DiagNoGrounding
	case !hasWhyMarker(answer):
		return DiagMissingWhy
	default:
		return DiagGeneric
	}
}

// groundingHits counts answer tokens that also appear in the evidence.
func groundingHits(answer string, evidence EvidenceList) int {
	evTokens := make(map[string]bool)
	for _, ev := range evidence {
		for _, tok := range strings.Fields(ev) {
			evTokens[tok] = true
		}
	}
	hits := 0
	for _, tok := range strings.Fields(answer) {
		if evTokens[tok] {
			hits++
		}
	}
	return hits
}

// confidence spreads the raw scores into a distribution over labels and
// then lifts the assigned label above the rest so the mode always agrees
// with the verdict.
func confidence(label Label, s Scores, th Thresholds) map[Label]float64 {
	qa := clamp01(s.QAScore)
	link := clamp01(s.LinkScore)

	thin := 0.0
	if s.LengthRunes < th.MinAnswerRunes || s.LengthTokens < th.MinAnswerTokens {
		thin = 1.0
	}

	dist := map[Label]float64{
		LabelGood:         qa * link,
		LabelWeakLink:     qa * (1 - link),
		LabelOffPath:      1 - qa,
		LabelInsufficient: thin,
	}

	peak := 0.0
	for l, v := range dist {
		if l != label && v > peak {
			peak = v
		}
	}
	dist[label] = peak + 0.5

	total := 0.0
	for _, v := range dist {
		total += v
	}
	for l := range dist {
		dist[l] /= total
	}
	return dist
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
