package evaluate

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Scorer measures semantic similarity between two Korean texts on [0, 1].
type Scorer interface {
	Score(ctx context.Context, a, b string) (float64, error)
}

// BigramScorer is the default deterministic scorer: Dice coefficient over
// character bigrams with whitespace removed. Korean attaches particles
// directly to stems, so character bigrams survive inflection far better
// than whole-token comparison.
type BigramScorer struct{}

func (BigramScorer) Score(_ context.Context, a, b string) (float64, error) {
	return diceBigrams(a, b), nil
}

func diceBigrams(a, b string) float64 {
	ba := bigramSet(a)
	bb := bigramSet(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}
	shared := 0
	for g := range ba {
		if bb[g] {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ba)+len(bb))
}

func bigramSet(s string) map[string]bool {
	runes := []rune(strings.Join(strings.Fields(s), ""))
	set := make(map[string]bool, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = true
	}
	return set
}

// EmbeddingScorer scores with cosine similarity over OpenAI embeddings.
// It trades determinism and offline operation for real semantic distance.
type EmbeddingScorer struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewEmbeddingScorer wraps an OpenAI client. An empty model selects
// text-embedding-3-small.
func NewEmbeddingScorer(client *openai.Client, model openai.EmbeddingModel) *EmbeddingScorer {
	if model == "" {
		model = openai.SmallEmbedding3
	}
	return &EmbeddingScorer{client: client, model: model}
}

func (s *EmbeddingScorer) Score(ctx context.Context, a, b string) (float64, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{a, b},
		Model: s.model,
	})
	if err != nil {
		return 0, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) < 2 {
		return 0, fmt.Errorf("embeddings response has %d vectors, want 2", len(resp.Data))
	}
	return cosine(resp.Data[0].Embedding, resp.Data[1].Embedding), nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
