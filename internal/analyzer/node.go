package analyzer

// Role is the logical function a node plays in the passage's argument.
type Role string

const (
	RoleClaim      Role = "claim"
	RolePremise    Role = "premise"
	RoleEvidence   Role = "evidence"
	RoleConclusion Role = "conclusion"
)

// DefaultRole is assigned when no rule matches a sentence.
const DefaultRole = RolePremise

// primaryOrder is the fixed resolution order for PrimaryRole when a node
// carries multiple candidate roles.
var primaryOrder = []Role{RoleClaim, RoleEvidence, RolePremise, RoleConclusion}

// Span marks a node's location in the passage as rune offsets.
// End is exclusive.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Node is one extracted reasoning unit. Nodes are created once per passage
// and never mutated afterwards.
type Node struct {
	// ID is unique within a passage, e.g. "n01".
	ID string `json:"id"`

	// Text is the source sentence, whitespace-trimmed.
	Text string `json:"text"`

	// Roles is the ranked candidate-role list, strongest rule first.
	// Empty when no rule matched.
	Roles []Role `json:"roles,omitempty"`

	// PrimaryRole is the resolved role used for question selection.
	PrimaryRole Role `json:"primary_role"`

	// Span locates Text in the original passage.
	Span Span `json:"span"`

	// Weight is the node's relative importance. Higher weight nodes are
	// questioned first and survive bounding.
	Weight float64 `json:"weight"`

	// Index is the appearance order in the passage, 0-based.
	Index int `json:"index"`
}

// resolvePrimary picks the primary role from ranked candidates using the
// fixed order claim > evidence > premise > conclusion. An empty candidate
// list resolves to DefaultRole.
func resolvePrimary(candidates []Role) Role {
	if len(candidates) == 0 {
		return DefaultRole
	}
	present := make(map[Role]bool, len(candidates))
	for _, r := range candidates {
		present[r] = true
	}
	for _, r := range primaryOrder {
		if present[r] {
			return r
		}
	}
	return DefaultRole
}
