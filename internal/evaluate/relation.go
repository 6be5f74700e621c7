package evaluate

import (
	"context"
	"strings"
)

// Relation between a learner's answer and the node text it addresses.
type Relation string

const (
	RelationEntail     Relation = "entail"
	RelationContradict Relation = "contradict"
	RelationNeutral    Relation = "neutral"
)

// RelationJudge decides how an answer relates to the node text.
type RelationJudge interface {
	Judge(ctx context.Context, answer, nodeText string) (Relation, error)
}

// LexicalJudge is the default offline judge. It compares surface overlap
// and negation markers: an answer that tracks the node text closely but
// flips its polarity reads as a contradiction.
type LexicalJudge struct{}

var negationMarkers = []string{"않", "없", "아니", "못한", "못하", "틀리"}

func hasNegation(s string) bool {
	for _, m := range negationMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func (LexicalJudge) Judge(_ context.Context, answer, nodeText string) (Relation, error) {
	overlap := diceBigrams(answer, nodeText)
	if overlap >= 0.15 && hasNegation(answer) != hasNegation(nodeText) {
		return RelationContradict, nil
	}
	if overlap >= 0.30 {
		return RelationEntail, nil
	}
	return RelationNeutral, nil
}
