package analyzer

import (
	"errors"
	"strings"
	"testing"
)

const samplePassage = "민초가 최고의 간식임이 분명하다. " +
	"실제로 판매량이 전년 대비 3배 증가했다는 조사 결과가 있다. " +
	"하지만 일부 소비자는 치약 맛이 난다고 말한다. " +
	"따라서 민초는 대중적인 간식으로 자리잡게 되었다."

func TestAnalyze_EmptyInput(t *testing.T) {
	a := New(DefaultConfig(), nil)
	for _, input := range []string{"", "   ", "\n\t "} {
		if _, err := a.Analyze(input); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Analyze(%q): expected ErrEmptyInput, got %v", input, err)
		}
	}
}

func TestAnalyze_RolesAndOrder(t *testing.T) {
	a := New(DefaultConfig(), nil)
	nodes, err := a.Analyze(samplePassage)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(nodes) < 2 {
		t.Fatalf("expected at least 2 nodes, got %d", len(nodes))
	}

	valid := map[Role]bool{
		RoleClaim: true, RolePremise: true, RoleEvidence: true, RoleConclusion: true,
	}
	seen := map[string]bool{}
	for i, n := range nodes {
		if seen[n.ID] {
			t.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if !valid[n.PrimaryRole] {
			t.Errorf("node %s: invalid primary role %q", n.ID, n.PrimaryRole)
		}
		for _, r := range n.Roles {
			if !valid[r] {
				t.Errorf("node %s: invalid candidate role %q", n.ID, r)
			}
		}
		if i > 0 && nodes[i].Index <= nodes[i-1].Index {
			t.Errorf("nodes out of appearance order at %d", i)
		}
	}

	if nodes[0].PrimaryRole != RoleClaim {
		t.Errorf("first sentence: expected claim, got %q", nodes[0].PrimaryRole)
	}
	if nodes[1].PrimaryRole != RoleEvidence {
		t.Errorf("second sentence: expected evidence, got %q", nodes[1].PrimaryRole)
	}
	last := nodes[len(nodes)-1]
	if last.PrimaryRole != RoleConclusion {
		t.Errorf("last sentence: expected conclusion, got %q", last.PrimaryRole)
	}
}

func TestAnalyze_Spans(t *testing.T) {
	a := New(DefaultConfig(), nil)
	nodes, err := a.Analyze(samplePassage)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	runes := []rune(samplePassage)
	for _, n := range nodes {
		if n.Span.Start < 0 || n.Span.End > len(runes) || n.Span.Start >= n.Span.End {
			t.Fatalf("node %s: bad span %+v", n.ID, n.Span)
		}
		if got := string(runes[n.Span.Start:n.Span.End]); got != n.Text {
			t.Errorf("node %s: span text %q != node text %q", n.ID, got, n.Text)
		}
	}
	// Same-role spans must not overlap.
	for i, n := range nodes {
		for _, m := range nodes[i+1:] {
			if n.PrimaryRole != m.PrimaryRole {
				continue
			}
			if n.Span.Start < m.Span.End && m.Span.Start < n.Span.End {
				t.Errorf("overlapping %s spans: %s and %s", n.PrimaryRole, n.ID, m.ID)
			}
		}
	}
}

func TestAnalyze_NoTerminator(t *testing.T) {
	a := New(DefaultConfig(), nil)
	nodes, err := a.Analyze("기후 변화는 전 지구적 문제이다")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Text != "기후 변화는 전 지구적 문제이다" {
		t.Errorf("unexpected node text %q", nodes[0].Text)
	}
}

func TestAnalyze_Bounding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxNodes = 3

	var b strings.Builder
	b.WriteString("우리는 민초를 더 널리 알리도록 노력해야 한다. ")
	b.WriteString("실제로 판매 점포가 늘어나는 것은 사실이다. ")
	for i := 0; i < 6; i++ {
		b.WriteString("가게 앞 골목에는 오래된 가로수가 줄지어 서 있었다. ")
	}
	b.WriteString("따라서 민초의 인기는 계속 이어지게 되었다.")

	a := New(cfg, nil)
	nodes, err := a.Analyze(b.String())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes after bounding, got %d", len(nodes))
	}
	// Marker-bearing sentences outweigh filler; order is preserved.
	if nodes[0].PrimaryRole != RoleClaim {
		t.Errorf("expected claim kept first, got %q", nodes[0].PrimaryRole)
	}
	for i := 1; i < len(nodes); i++ {
		if nodes[i].Index <= nodes[i-1].Index {
			t.Errorf("bounded nodes out of order at %d", i)
		}
	}
}

func TestResolvePrimary(t *testing.T) {
	cases := []struct {
		in   []Role
		want Role
	}{
		{nil, DefaultRole},
		{[]Role{}, DefaultRole},
		{[]Role{RoleConclusion, RoleClaim}, RoleClaim},
		{[]Role{RolePremise, RoleEvidence}, RoleEvidence},
		{[]Role{RoleConclusion}, RoleConclusion},
	}
	for _, c := range cases {
		if got := resolvePrimary(c.in); got != c.want {
			t.Errorf("resolvePrimary(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSegment_Offsets(t *testing.T) {
	text := "첫 문장이다. 둘째 문장! 셋째 문장인가? 버전 3.5가 나왔다."
	sentences := segment(text)
	if len(sentences) != 4 {
		t.Fatalf("expected 4 sentences, got %d: %+v", len(sentences), sentences)
	}
	runes := []rune(text)
	for _, s := range sentences {
		if got := string(runes[s.start:s.end]); got != s.text {
			t.Errorf("offset mismatch: %q != %q", got, s.text)
		}
	}
	if sentences[3].text != "버전 3.5가 나왔다." {
		t.Errorf("decimal point split the sentence: %q", sentences[3].text)
	}
}
