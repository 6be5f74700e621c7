// Package questgen turns a logic node and the conversation so far into the
// next Socratic question. Generation fails soft: a malformed node degrades
// to a fixed fallback question instead of surfacing an error to the learner.
package questgen

import (
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/haneol/mundap/internal/analyzer"
)

// Config controls question generation.
type Config struct {
	// Seed initializes the generator's private random source. The same
	// seed over identical inputs reproduces identical questions.
	Seed uint64

	// SnippetMaxRunes caps extracted snippet length.
	SnippetMaxRunes int
}

// DefaultConfig returns the standard generation configuration.
func DefaultConfig() Config {
	return Config{
		Seed:            1,
		SnippetMaxRunes: 40,
	}
}

// History is the repetition-avoidance view of a session: template ids and
// entity strings already consumed by earlier turns.
type History struct {
	TemplateIDs map[string]bool
	Entities    map[string]bool
}

// Result is a generated question with its provenance.
type Result struct {
	// Text is the question shown to the learner.
	Text string `json:"text"`

	// TemplateID identifies the template that produced Text.
	TemplateID string `json:"template_id"`

	// Snippet and Entity are the extracted slot values, kept for
	// traceability and for the session's repetition bias.
	Snippet string `json:"snippet,omitempty"`
	Entity  string `json:"entity,omitempty"`
}

// Generator produces questions from logic nodes. Each Generator owns its
// own seeded random source; it is not safe for concurrent use, matching the
// one-session-one-goroutine model.
type Generator struct {
	cfg Config
	rng *rand.Rand
	log *zap.Logger
}

// New creates a Generator. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.SnippetMaxRunes <= 0 {
		cfg.SnippetMaxRunes = DefaultConfig().SnippetMaxRunes
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)),
		log: log,
	}
}

// PrimaryRole resolves the role the generator questions the node as:
// the strongest candidate when any exist, the generic role otherwise.
// It never indexes an empty list.
func PrimaryRole(node analyzer.Node) analyzer.Role {
	if len(node.Roles) > 0 {
		return node.Roles[0]
	}
	return roleGeneric
}

// Generate produces the next question for the node. A node with no text is
// recovered with the fixed fallback question and logged, never surfaced.
func (g *Generator) Generate(node analyzer.Node, history History) Result {
	if strings.TrimSpace(node.Text) == "" {
		g.log.Warn("malformed node, using fallback question",
			zap.String("node_id", node.ID))
		return Result{Text: FallbackQuestion, TemplateID: FallbackTemplateID}
	}

	role := PrimaryRole(node)
	templates, ok := catalog[role]
	if !ok {
		templates = catalog[roleGeneric]
	}

	tmpl := g.pickTemplate(templates, history.TemplateIDs)
	snippet := g.extractSnippet(node.Text, g.cfg.SnippetMaxRunes)
	entity := extractEntity(node.Text, history.Entities)

	return Result{
		Text:       fillSlots(tmpl.Text, snippet, entity, ""),
		TemplateID: tmpl.ID,
		Snippet:    snippet,
		Entity:     entity,
	}
}

// pickTemplate chooses uniformly among templates not yet used this session;
// when every template for the role is exhausted, repeats are allowed.
func (g *Generator) pickTemplate(templates []Template, used map[string]bool) Template {
	available := templates[:0:0]
	for _, t := range templates {
		if !used[t.ID] {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		available = templates
	}
	return available[g.rng.IntN(len(available))]
}

// fillSlots substitutes placeholders. strings.Replacer leaves unknown
// placeholders intact, so a template typo can never panic or emit a broken
// format directive.
func fillSlots(template, snippet, entity, question string) string {
	if snippet == "" {
		snippet = defaultSnippet
	}
	if entity == "" {
		entity = defaultEntity
	}
	if question == "" {
		question = "이전 질문"
	}
	return strings.NewReplacer(
		"{snippet}", snippet,
		"{entity}", entity,
		"{question}", question,
	).Replace(template)
}
