package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/haneol/mundap/internal/analyzer"
	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/llm"
	"github.com/haneol/mundap/internal/store"
)

// GenMode selects which kind of reasoning the LLM is asked to produce.
// Weak modes deliberately synthesize flawed answers so the corpus covers
// every label the evaluator can assign.
type GenMode string

const (
	GenModeGood            GenMode = "good"
	GenModeWeakNoGrounding GenMode = "weak_no_grounding"
	GenModeWeakMissingWhy  GenMode = "weak_missing_why"
	GenModeWeakGeneric     GenMode = "weak_generic"
	GenModeShort           GenMode = "short"
)

// GenModes lists every mode, in reporting order.
var GenModes = []GenMode{
	GenModeGood,
	GenModeWeakNoGrounding,
	GenModeWeakMissingWhy,
	GenModeWeakGeneric,
	GenModeShort,
}

// Valid reports whether m is a known generation mode.
func (m GenMode) Valid() bool {
	for _, known := range GenModes {
		if m == known {
			return true
		}
	}
	return false
}

// Appender persists finished records. *store.Store satisfies it.
type Appender interface {
	AppendCorpus(ctx context.Context, rec store.CorpusRecord) (int64, error)
}

// Builder turns raw passages into labeled training records: analyze the
// passage, synthesize reasoning with the LLM, evaluate it, persist.
type Builder struct {
	analyzer  *analyzer.Analyzer
	evaluator *evaluate.Evaluator
	provider  llm.Provider
	repo      Appender
	log       *zap.Logger
	now       func() time.Time
}

// NewBuilder wires a builder. repo may be nil when records are only
// exported to JSONL.
func NewBuilder(an *analyzer.Analyzer, ev *evaluate.Evaluator, p llm.Provider, repo Appender, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		analyzer:  an,
		evaluator: ev,
		provider:  p,
		repo:      repo,
		log:       log,
		now:       time.Now,
	}
}

const synthSystem = "당신은 한국어 독해 학습 데이터를 만드는 도우미입니다. " +
	"지시된 조건을 정확히 지켜 설명문만 출력하세요."

// Build produces one labeled record for the passage in the given mode.
func (b *Builder) Build(ctx context.Context, p Passage, mode GenMode) (*Record, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown gen mode %q", mode)
	}

	nodes, err := b.analyzer.Analyze(p.Text)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", p.PassageID, err)
	}
	claim, evidence := pickClaimEvidence(nodes)

	question := buildQuestion(claim, evidence)
	prompt := buildPrompt(p.Text, claim, evidence, mode)

	resp, err := b.provider.Generate(llm.WithPurpose(ctx, "corpus-gen"), llm.Request{
		System:      synthSystem,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize reasoning for %s: %w", p.PassageID, err)
	}
	reasoning := strings.TrimSpace(resp.Text)

	result, err := b.evaluator.Evaluate(ctx, evaluate.Input{
		Question: question,
		Answer:   reasoning,
		NodeText: claim,
		Evidence: evidence,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate reasoning for %s: %w", p.PassageID, err)
	}

	rec := &Record{
		PassageID: p.PassageID,
		Source:    p.Source,
		Text:      p.Text,
		Claim:     claim,
		Evidence:  evidence,
		Reasoning: reasoning,
		Label:     string(result.Label),
		Diag:      string(result.Diag),
		Scores:    result.Scores,
		Meta: Meta{
			GenMode:   string(mode),
			CreatedAt: b.now().Unix(),
		},
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("record for %s: %w", p.PassageID, err)
	}

	if b.repo != nil {
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal record for %s: %w", p.PassageID, err)
		}
		if _, err := b.repo.AppendCorpus(ctx, store.CorpusRecord{
			PassageID: rec.PassageID,
			Label:     rec.Label,
			GenMode:   string(mode),
			Payload:   payload,
			CreatedAt: b.now(),
		}); err != nil {
			return nil, fmt.Errorf("persist record for %s: %w", p.PassageID, err)
		}
	}

	b.log.Info("corpus record built",
		zap.String("passage_id", rec.PassageID),
		zap.String("gen_mode", string(mode)),
		zap.String("label", rec.Label),
		zap.String("diag", rec.Diag),
	)
	return rec, nil
}

// BatchOptions controls a BuildBatch run. NumShards/ShardIdx split work
// across parallel invocations; zero values mean a single shard.
type BatchOptions struct {
	Mode      GenMode
	Limit     int
	ShardIdx  int
	NumShards int
}

// BuildBatch runs Build over a passage set, skipping passages that fail
// with a warning. It returns the successfully built records.
func (b *Builder) BuildBatch(ctx context.Context, passages []Passage, opts BatchOptions) ([]Record, error) {
	numShards := opts.NumShards
	if numShards < 1 {
		numShards = 1
	}
	if opts.ShardIdx < 0 || opts.ShardIdx >= numShards {
		return nil, fmt.Errorf("shard index %d out of range for %d shards", opts.ShardIdx, numShards)
	}

	var selected []Passage
	for i, p := range passages {
		if i%numShards == opts.ShardIdx {
			selected = append(selected, p)
		}
	}
	if opts.Limit > 0 && len(selected) > opts.Limit {
		selected = selected[:opts.Limit]
	}

	var out []Record
	for _, p := range selected {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		rec, err := b.Build(ctx, p, opts.Mode)
		if err != nil {
			b.log.Warn("skipping passage",
				zap.String("passage_id", p.PassageID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

// pickClaimEvidence selects the highest-weight node as the claim and the
// evidence-role nodes as its support. Without evidence nodes the
// next-heaviest node substitutes, and a single-node passage falls back to
// the claim itself.
func pickClaimEvidence(nodes []analyzer.Node) (claim string, evidence []string) {
	ranked := make([]analyzer.Node, len(nodes))
	copy(ranked, nodes)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Weight > ranked[j].Weight })

	claimNode := ranked[0]
	claim = claimNode.Text

	for _, n := range nodes {
		if n.ID == claimNode.ID {
			continue
		}
		if n.PrimaryRole == analyzer.RoleEvidence {
			evidence = append(evidence, n.Text)
		}
	}
	if len(evidence) == 0 {
		for _, n := range ranked[1:] {
			if n.ID != claimNode.ID {
				evidence = append(evidence, n.Text)
				break
			}
		}
	}
	if len(evidence) == 0 {
		evidence = append(evidence, claim)
	}
	return claim, evidence
}

func buildQuestion(claim string, evidence []string) string {
	return "주장: " + claim + "\n근거: " + strings.Join(evidence, " ") +
		"\n위 근거를 사용해 주장을 논리적으로 설명하시오."
}

func buildPrompt(text, claim string, evidence []string, mode GenMode) string {
	var sb strings.Builder
	sb.WriteString("[지문]\n")
	sb.WriteString(text)
	sb.WriteString("\n\n[주장]\n")
	sb.WriteString(claim)
	sb.WriteString("\n\n[근거]\n")
	for _, e := range evidence {
		sb.WriteString("- ")
		sb.WriteString(e)
		sb.WriteString("\n")
	}
	sb.WriteString("\n[과제]\n위 근거를 사용해 주장을 논리적으로 설명하는 '설명문'을 한국어로 작성하세요.\n")
	sb.WriteString(modeRequirements[mode])
	return sb.String()
}

var modeRequirements = map[GenMode]string{
	GenModeGood: `요구사항:
- 2~3문장, 80~180자
- 근거에서 핵심 표현(단어/구)을 최소 2개 포함
- '왜/때문/따라서/그러므로/하지만/반면/만약' 중 최소 1개 연결어를 사용
- 지문 밖 지식 금지(지문 내용만 사용)

설명문만 출력하세요.
`,
	GenModeWeakNoGrounding: `요구사항:
- 1~2문장, 40~120자
- 근거에 나온 핵심 용어/표현을 되도록 쓰지 말 것
- 내용은 일반론/엉뚱한 방향으로 써서 근거 사용이 거의 없게 만들 것

설명문만 출력하세요.
`,
	GenModeWeakMissingWhy: `요구사항:
- 1~2문장, 60~160자
- 근거에서 단어는 1~2개 포함하되,
- '왜 그렇게 되는지' 인과/대조/조건 설명을 하지 말 것(연결어 최소화)
- 근거 요약 후 결론으로 바로 점프하는 형태로 작성

설명문만 출력하세요.
`,
	GenModeWeakGeneric: `요구사항:
- 1~2문장, 60~160자
- 근거를 언급하긴 하지만 '전반적으로/중요하다/효율적이다/의미 있다' 같은 뭉뚱그린 표현 위주
- 구체적 연결(어떤 조건/어떤 과정 때문에)을 피함

설명문만 출력하세요.
`,
	GenModeShort: `요구사항:
- 10~25자 내외로 매우 짧게
- 내용이 거의 없도록 작성

설명문만 출력하세요.
`,
}
