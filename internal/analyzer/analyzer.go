// Package analyzer extracts the logical skeleton of a passage: an ordered
// set of nodes tagged claim, premise, evidence or conclusion, weighted by
// how central each sentence is to the argument.
package analyzer

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ErrEmptyInput is returned when the passage is empty or whitespace-only.
var ErrEmptyInput = errors.New("analyzer: empty passage")

// ErrNoNodes is returned when extraction yields zero nodes after every
// fallback strategy. Callers must treat this as a content-level failure of
// the passage, not a transient error.
var ErrNoNodes = errors.New("analyzer: no nodes extracted")

// Config controls extraction behavior.
type Config struct {
	// Rules is the ordered role-detection cascade.
	Rules []RoleRule

	// MinNodes is the floor below which bounding never trims.
	MinNodes int

	// MaxNodes caps the node count. When exceeded, the highest-weight
	// nodes are kept and appearance order is preserved among them.
	MaxNodes int

	// ShortSentenceRunes is the length under which a sentence is
	// penalized as too thin to question.
	ShortSentenceRunes int
}

// DefaultConfig returns the standard extraction configuration.
func DefaultConfig() Config {
	return Config{
		Rules:              DefaultRules(),
		MinNodes:           2,
		MaxNodes:           8,
		ShortSentenceRunes: 20,
	}
}

// Analyzer extracts LogicNodes from passage text. Safe for concurrent use:
// all state is immutable after construction.
type Analyzer struct {
	cfg Config
	log *zap.Logger
}

// New creates an Analyzer. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = DefaultRules()
	}
	return &Analyzer{cfg: cfg, log: log}
}

// definitionPattern marks definitional or classificatory sentences, which
// are question-worthy in expository text even without discourse markers.
var definitionPattern = regexp.MustCompile(`(라 불리|란 |이다)`)

// Analyze segments the passage and returns its ordered node sequence.
func (a *Analyzer) Analyze(passage string) ([]Node, error) {
	if strings.TrimSpace(passage) == "" {
		return nil, ErrEmptyInput
	}

	sentences := segment(passage)
	if len(sentences) == 0 {
		// Fallback: no terminators at all, take the trimmed text whole.
		runes := []rune(passage)
		text, start, end := trimSpan(runes, 0, len(runes))
		sentences = []sentence{{text: text, start: start, end: end}}
	}

	nodes := make([]Node, 0, len(sentences))
	total := len(sentences)
	for i, s := range sentences {
		roles := a.detectRoles(s.text)
		nodes = append(nodes, Node{
			ID:          fmt.Sprintf("n%02d", i+1),
			Text:        s.text,
			Roles:       roles,
			PrimaryRole: resolvePrimary(roles),
			Span:        Span{Start: s.start, End: s.end},
			Weight:      a.score(s.text, roles, i, total),
			Index:       i,
		})
	}

	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}

	nodes = a.bound(nodes)
	a.log.Debug("passage analyzed",
		zap.Int("sentences", total),
		zap.Int("nodes", len(nodes)))
	return nodes, nil
}

// detectRoles runs the cascade and returns candidate roles ranked by the
// priority of the strongest rule that produced each.
func (a *Analyzer) detectRoles(sentenceText string) []Role {
	best := make(map[Role]int)
	for _, rule := range a.cfg.Rules {
		if !rule.Matches(sentenceText) {
			continue
		}
		if p, ok := best[rule.Role]; !ok || rule.Priority > p {
			best[rule.Role] = rule.Priority
		}
	}
	if len(best) == 0 {
		return nil
	}
	roles := make([]Role, 0, len(best))
	for r := range best {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool {
		if best[roles[i]] != best[roles[j]] {
			return best[roles[i]] > best[roles[j]]
		}
		return roles[i] < roles[j]
	})
	return roles
}

// roleWeights contribute to sentence importance. Claims and conclusions
// anchor the argument; evidence and premises support it.
var roleWeights = map[Role]float64{
	RoleClaim:      3.0,
	RoleConclusion: 3.0,
	RolePremise:    2.0,
	RoleEvidence:   1.5,
}

// score computes the sentence's importance weight.
func (a *Analyzer) score(text string, roles []Role, index, total int) float64 {
	score := 0.0
	if len(roles) == 0 {
		score = 0.5
	}
	for _, r := range roles {
		score += roleWeights[r]
	}
	if definitionPattern.MatchString(text) {
		score += 1.5
	}
	if strings.ContainsAny(text, "‘’'\"「」") {
		score += 1.0
	}
	if len([]rune(text)) < a.cfg.ShortSentenceRunes {
		score -= 1.5
	}
	if index == 0 || index == total-1 {
		score += 0.5
	}
	return score
}

// bound clamps the node count to MaxNodes, keeping the highest-weight nodes
// and restoring appearance order among the kept ones.
func (a *Analyzer) bound(nodes []Node) []Node {
	limit := a.cfg.MaxNodes
	if limit <= 0 || len(nodes) <= limit || limit < a.cfg.MinNodes {
		return nodes
	}

	ranked := make([]Node, len(nodes))
	copy(ranked, nodes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	keep := make(map[string]bool, limit)
	for _, n := range ranked[:limit] {
		keep[n.ID] = true
	}

	kept := make([]Node, 0, limit)
	for _, n := range nodes {
		if keep[n.ID] {
			kept = append(kept, n)
		}
	}
	a.log.Debug("node set bounded",
		zap.Int("before", len(nodes)),
		zap.Int("after", len(kept)))
	return kept
}
