package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haneol/mundap/internal/analyzer"
	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/llm"
	"github.com/haneol/mundap/internal/store"
)

const testPassage = "민초가 최고의 간식임이 분명하다. " +
	"실제로 판매량이 전년 대비 3배 증가했다는 조사 결과가 있다. " +
	"하지만 일부 소비자는 치약 맛이 난다고 말한다. " +
	"따라서 민초는 대중적인 간식으로 자리잡게 되었다."

const groundedReasoning = "판매량이 전년 대비 3배 증가했다는 조사 결과가 " +
	"민초가 최고의 간식이라는 주장을 뒷받침한다고 생각합니다"

func newTestBuilder(t *testing.T, provider llm.Provider, repo Appender) *Builder {
	t.Helper()
	return NewBuilder(
		analyzer.New(analyzer.DefaultConfig(), nil),
		evaluate.New(evaluate.DefaultConfig(), nil, nil, nil),
		provider,
		repo,
		nil,
	)
}

func testInput() Passage {
	return Passage{PassageID: "p1", Text: testPassage}
}

func TestBuildGoodReasoning(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: groundedReasoning})
	b := newTestBuilder(t, mock, nil)

	rec, err := b.Build(context.Background(), testInput(), GenModeGood)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Label != "GOOD" {
		t.Errorf("Label = %q, want GOOD (scores %+v)", rec.Label, rec.Scores)
	}
	if rec.Diag != "OK" {
		t.Errorf("Diag = %q, want OK", rec.Diag)
	}
	if !strings.Contains(rec.Claim, "민초가 최고의 간식") {
		t.Errorf("Claim = %q, want the claim sentence", rec.Claim)
	}
	if len(rec.Evidence) == 0 || !strings.Contains(rec.Evidence[0], "판매량") {
		t.Errorf("Evidence = %v, want the evidence sentence", rec.Evidence)
	}
	if rec.Meta.GenMode != "good" {
		t.Errorf("GenMode = %q, want good", rec.Meta.GenMode)
	}
	if rec.Meta.CreatedAt == 0 {
		t.Error("CreatedAt not set")
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("record does not validate: %v", err)
	}
}

func TestBuildShortReasoning(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "맛있으니까."})
	b := newTestBuilder(t, mock, nil)

	rec, err := b.Build(context.Background(), testInput(), GenModeShort)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Label != "INSUFFICIENT_REASONING" {
		t.Errorf("Label = %q, want INSUFFICIENT_REASONING", rec.Label)
	}
	if rec.Diag != "TOO_SHORT_OR_THIN" {
		t.Errorf("Diag = %q, want TOO_SHORT_OR_THIN", rec.Diag)
	}
}

func TestBuildSendsModePrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: groundedReasoning})
	b := newTestBuilder(t, mock, nil)

	if _, err := b.Build(context.Background(), testInput(), GenModeWeakGeneric); err != nil {
		t.Fatal(err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("CallCount = %d, want 1", mock.CallCount())
	}
	prompt := mock.Calls[0].Messages[0].Content
	for _, want := range []string{"[지문]", "[주장]", "[근거]", "뭉뚱그린"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	b := newTestBuilder(t, llm.NewMockProvider(), nil)
	if _, err := b.Build(context.Background(), testInput(), GenMode("bogus")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestBuildPropagatesProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("down")},
	})
	b := newTestBuilder(t, mock, nil)

	_, err := b.Build(context.Background(), testInput(), GenModeGood)
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestBuildPersistsRecord(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	mock := llm.NewMockProvider(llm.MockResponse{Text: groundedReasoning})
	b := newTestBuilder(t, mock, s)

	rec, err := b.Build(context.Background(), testInput(), GenModeGood)
	if err != nil {
		t.Fatal(err)
	}

	stored, err := s.ListCorpus(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Fatalf("len(stored) = %d, want 1", len(stored))
	}
	if stored[0].PassageID != "p1" || stored[0].Label != rec.Label || stored[0].GenMode != "good" {
		t.Errorf("stored = %+v", stored[0])
	}
	var roundTrip Record
	if err := json.Unmarshal(stored[0].Payload, &roundTrip); err != nil {
		t.Fatal(err)
	}
	if roundTrip.Reasoning != groundedReasoning {
		t.Errorf("Reasoning = %q", roundTrip.Reasoning)
	}
}

func TestBuildBatchShardsAndSkipsFailures(t *testing.T) {
	passages := []Passage{
		{PassageID: "p0", Text: testPassage},
		{PassageID: "p1", Text: "   "}, // analyzer rejects this one
		{PassageID: "p2", Text: testPassage},
		{PassageID: "p3", Text: testPassage},
	}

	// Shard 0 of 2 selects p0 and p2; p1 and p3 belong to the other shard.
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: groundedReasoning},
		llm.MockResponse{Text: groundedReasoning},
	)
	b := newTestBuilder(t, mock, nil)

	recs, err := b.BuildBatch(context.Background(), passages, BatchOptions{
		Mode:      GenModeGood,
		ShardIdx:  0,
		NumShards: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].PassageID != "p0" || recs[1].PassageID != "p2" {
		t.Errorf("got passages %s, %s", recs[0].PassageID, recs[1].PassageID)
	}

	// The empty passage fails analysis but must not abort the batch.
	mock = llm.NewMockProvider(llm.MockResponse{Text: groundedReasoning})
	b = newTestBuilder(t, mock, nil)
	recs, err = b.BuildBatch(context.Background(), passages[:2], BatchOptions{Mode: GenModeGood})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
}

func TestBuildBatchLimit(t *testing.T) {
	passages := []Passage{
		{PassageID: "p0", Text: testPassage},
		{PassageID: "p1", Text: testPassage},
		{PassageID: "p2", Text: testPassage},
	}
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: groundedReasoning},
		llm.MockResponse{Text: groundedReasoning},
	)
	b := newTestBuilder(t, mock, nil)

	recs, err := b.BuildBatch(context.Background(), passages, BatchOptions{Mode: GenModeGood, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
}

func TestBuildBatchRejectsBadShard(t *testing.T) {
	b := newTestBuilder(t, llm.NewMockProvider(), nil)
	_, err := b.BuildBatch(context.Background(), nil, BatchOptions{Mode: GenModeGood, ShardIdx: 2, NumShards: 2})
	if err == nil {
		t.Fatal("expected shard range error")
	}
}

func TestPickClaimEvidence(t *testing.T) {
	nodes, err := analyzer.New(analyzer.DefaultConfig(), nil).Analyze(testPassage)
	if err != nil {
		t.Fatal(err)
	}
	claim, evidence := pickClaimEvidence(nodes)
	if !strings.Contains(claim, "분명하다") {
		t.Errorf("claim = %q, want the claim sentence", claim)
	}
	if len(evidence) != 1 || !strings.Contains(evidence[0], "3배 증가") {
		t.Errorf("evidence = %v, want the evidence sentence", evidence)
	}
}
