// Package semantic implements the optional embedding-backed similarity
// provider using langchaingo. The engine works without it; wiring a
// provider only changes similarity scores, never the public contract.
package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/text"
)

const embedCacheSize = 2048

// EmbeddingProvider scores similarity as the cosine of two label embeddings.
type EmbeddingProvider struct {
	embedder  embeddings.Embedder
	modelName string
	cache     *lru.Cache[string, []float32]
}

// Compile-time check that EmbeddingProvider implements text.SemanticProvider.
var _ text.SemanticProvider = (*EmbeddingProvider)(nil)

// NewFromConfig builds the provider selected by cfg.SemanticProvider, or
// (nil, nil) when none is configured; the caller treats nil as "lexical
// only", per the degraded-capability policy.
func NewFromConfig(cfg config.Config) (*EmbeddingProvider, error) {
	switch cfg.SemanticProvider {
	case config.SemanticNone:
		return nil, nil

	case config.SemanticOllama:
		llm, err := ollama.New(
			ollama.WithModel(cfg.SemanticModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		embedder, err := embeddings.NewEmbedder(llm)
		if err != nil {
			return nil, fmt.Errorf("create ollama embedder: %w", err)
		}
		return newProvider(embedder, cfg.SemanticModel)

	case config.SemanticOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai semantic provider requires OPENAI_API_KEY")
		}
		llm, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithEmbeddingModel(cfg.SemanticModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		embedder, err := embeddings.NewEmbedder(llm)
		if err != nil {
			return nil, fmt.Errorf("create openai embedder: %w", err)
		}
		return newProvider(embedder, cfg.SemanticModel)

	default:
		return nil, fmt.Errorf("unsupported semantic provider: %s", cfg.SemanticProvider)
	}
}

func newProvider(embedder embeddings.Embedder, model string) (*EmbeddingProvider, error) {
	cache, err := lru.New[string, []float32](embedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &EmbeddingProvider{
		embedder:  embedder,
		modelName: model,
		cache:     cache,
	}, nil
}

// Similarity embeds both labels and returns their cosine similarity mapped
// into [0,1]. Embeddings are memoized per label.
func (p *EmbeddingProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := p.embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := p.embed(ctx, b)
	if err != nil {
		return 0, err
	}

	cos, err := cosine(va, vb)
	if err != nil {
		return 0, err
	}
	// Cosine lands in [-1,1]; shift into the score domain.
	return (cos + 1) / 2, nil
}

// Model returns the embedding model name.
func (p *EmbeddingProvider) Model() string { return p.modelName }

func (p *EmbeddingProvider) embed(ctx context.Context, label string) ([]float32, error) {
	if vec, ok := p.cache.Get(label); ok {
		return vec, nil
	}

	start := time.Now()
	vecs, err := p.embedder.EmbedDocuments(ctx, []string{label})
	duration := time.Since(start)

	if err != nil {
		slog.Warn("embedding failed", "model", p.modelName, "label_len", len(label),
			"duration_ms", duration.Milliseconds(), "error", err)
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("no embedding returned for label")
	}

	slog.Debug("embedded label", "model", p.modelName, "dimension", len(vecs[0]),
		"duration_ms", duration.Milliseconds())

	p.cache.Add(label, vecs[0])
	return vecs[0], nil
}

func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
