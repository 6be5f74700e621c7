package analyzer

import (
	"regexp"
	"strings"
)

// RoleRule is one entry in the ordered role-detection cascade.
// A rule matches when Substr is contained in the sentence, or when Pattern
// matches it. Rules are evaluated in slice order; every match contributes a
// candidate role, and Priority ranks candidates on a node.
type RoleRule struct {
	// ID identifies the rule in logs and tests.
	ID string

	// Substr is a literal marker, e.g. "해야 한다". Empty when Pattern is set.
	Substr string

	// Pattern is a compiled regular expression. Nil when Substr is set.
	Pattern *regexp.Regexp

	// Role assigned when the rule fires.
	Role Role

	// Priority ranks this rule against others that fire on the same
	// sentence. Higher wins.
	Priority int

	// Weight contributes to the sentence's importance score.
	Weight float64
}

// Matches reports whether the rule fires on the sentence.
func (r RoleRule) Matches(sentence string) bool {
	if r.Substr != "" {
		return strings.Contains(sentence, r.Substr)
	}
	if r.Pattern != nil {
		return r.Pattern.MatchString(sentence)
	}
	return false
}

// DefaultRules returns the discourse-marker cascade for Korean expository
// prose: assertion endings mark claims, citation cues mark evidence, causal
// and contrastive connectives mark premises, consequence connectives mark
// conclusions.
func DefaultRules() []RoleRule {
	return []RoleRule{
		// Claims: prescriptive and assertive sentence endings.
		{ID: "claim-imperative", Substr: "해야 한다", Role: RoleClaim, Priority: 100, Weight: 3.0},
		{ID: "claim-importance", Substr: "함이 중요하다", Role: RoleClaim, Priority: 100, Weight: 3.0},
		{ID: "claim-assertion", Substr: "라고 주장한다", Role: RoleClaim, Priority: 100, Weight: 3.0},
		{ID: "claim-revealed", Substr: "로 밝혀졌다", Role: RoleClaim, Priority: 95, Weight: 3.0},
		{ID: "claim-certainty", Substr: "임이 분명하다", Role: RoleClaim, Priority: 95, Weight: 3.0},
		{ID: "claim-necessity", Substr: "할 필요가 있다", Role: RoleClaim, Priority: 95, Weight: 3.0},
		{ID: "claim-conclusive", Substr: "결론적으로", Role: RoleClaim, Priority: 90, Weight: 3.0},

		// Evidence: citation, example and attestation cues.
		{ID: "evidence-according", Substr: "에 따르면", Role: RoleEvidence, Priority: 88, Weight: 1.5},
		{ID: "evidence-shows", Substr: "가 보여주듯", Role: RoleEvidence, Priority: 88, Weight: 1.5},
		{ID: "evidence-fact", Substr: "는 사실이다", Role: RoleEvidence, Priority: 85, Weight: 1.5},
		{ID: "evidence-example", Substr: "예를 들어", Role: RoleEvidence, Priority: 85, Weight: 1.5},
		{ID: "evidence-actually", Substr: "실제로", Role: RoleEvidence, Priority: 80, Weight: 1.5},
		{ID: "evidence-research", Substr: "연구에 의하면", Role: RoleEvidence, Priority: 88, Weight: 1.5},
		{ID: "evidence-survey", Substr: "라는 조사 결과", Role: RoleEvidence, Priority: 88, Weight: 1.5},

		// Conclusions: consequence connectives and resultative endings.
		{ID: "conclusion-therefore", Pattern: regexp.MustCompile(`^(따라서|그러므로)`), Role: RoleConclusion, Priority: 84, Weight: 3.0},
		{ID: "conclusion-resultingly", Substr: "결과적으로", Role: RoleConclusion, Priority: 84, Weight: 3.0},
		{ID: "conclusion-hence", Substr: "이로 인해", Role: RoleConclusion, Priority: 82, Weight: 3.0},
		{ID: "conclusion-became", Substr: "하게 되었다", Role: RoleConclusion, Priority: 80, Weight: 3.0},
		{ID: "conclusion-caused", Substr: "를 초래했다", Role: RoleConclusion, Priority: 80, Weight: 3.0},
		{ID: "conclusion-eventually", Substr: "결국", Role: RoleConclusion, Priority: 78, Weight: 3.0},

		// Premises: causal grounds.
		{ID: "premise-because", Substr: "때문에", Role: RolePremise, Priority: 75, Weight: 2.0},
		{ID: "premise-owing", Substr: "로 인하여", Role: RolePremise, Priority: 75, Weight: 2.0},
		{ID: "premise-cause-of", Substr: "의 원인은", Role: RolePremise, Priority: 75, Weight: 2.0},
		{ID: "premise-trigger", Substr: "가 계기가 되어", Role: RolePremise, Priority: 72, Weight: 2.0},
		{ID: "premise-attributed", Substr: "에 기인한다", Role: RolePremise, Priority: 72, Weight: 2.0},
		{ID: "premise-background", Substr: "의 배경에는", Role: RolePremise, Priority: 72, Weight: 2.0},

		// Premises: contrastive connectives. A counterpoint sets up the
		// argument rather than concluding it.
		{ID: "premise-but", Pattern: regexp.MustCompile(`^(하지만|그러나)`), Role: RolePremise, Priority: 60, Weight: 1.0},
		{ID: "premise-whereas", Substr: "반면", Role: RolePremise, Priority: 60, Weight: 1.0},
		{ID: "premise-unlike", Substr: "이와 달리", Role: RolePremise, Priority: 60, Weight: 1.0},
		{ID: "premise-nevertheless", Substr: "그럼에도 불구하고", Role: RolePremise, Priority: 60, Weight: 1.0},
		{ID: "premise-conversely", Substr: "반대로", Role: RolePremise, Priority: 58, Weight: 1.0},
	}
}
