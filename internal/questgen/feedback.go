package questgen

import (
	"strings"
	"unicode/utf8"

	"github.com/haneol/mundap/internal/analyzer"
)

// Answers shorter than this are treated as too thin to probe further and
// get a rephrase prompt instead of a follow-up.
const shortAnswerRunes = 10

// Feedback carries the evaluation outcome of the previous turn into the
// next question. It mirrors the evaluator's result without importing it.
type Feedback struct {
	// Passed marks the previous answer as accepted.
	Passed bool

	// Relation is the judged relation between answer and node text,
	// one of "entail", "contradict" or "neutral".
	Relation string

	// Label is the evaluator's verdict for the answer.
	Label string

	// Answer and Question are the previous turn's exchange.
	Answer   string
	Question string
}

// GenerateFeedback produces the follow-up prompt for a turn that did not
// simply advance: acknowledgement on a pass, otherwise a corrective probe
// chosen by what went wrong. A short answer is handled before relation
// checks since there is too little text to judge a relation from.
func (g *Generator) GenerateFeedback(fb Feedback, node analyzer.Node, question Result) Result {
	branch := feedbackBranch(fb)
	templates := feedbackCatalog[branch]

	snippet := g.extractSnippet(node.Text, g.cfg.SnippetMaxRunes)
	entity := extractEntity(node.Text, nil)
	tmpl := templates[g.rng.IntN(len(templates))]

	return Result{
		Text:       fillSlots(tmpl.Text, snippet, entity, question.Text),
		TemplateID: tmpl.ID,
		Snippet:    snippet,
		Entity:     entity,
	}
}

func feedbackBranch(fb Feedback) string {
	switch {
	case fb.Passed:
		return "pass"
	case utf8.RuneCountInString(strings.TrimSpace(fb.Answer)) < shortAnswerRunes,
		fb.Label == "INSUFFICIENT_REASONING":
		return "short"
	case fb.Relation == "contradict":
		return "contradiction"
	case fb.Label == "OFF_PATH":
		return "offpath"
	default:
		return "ground"
	}
}
