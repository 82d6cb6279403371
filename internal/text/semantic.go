package text

import "context"

// SemanticProvider is the optional capability for semantic (embedding-based)
// label similarity. Implementations live outside this package; absence of a
// provider is not an error, the lexical pipeline is simply used unmodified.
type SemanticProvider interface {
	// Similarity returns a semantic similarity score in [0,1] for two
	// canonical label strings.
	Similarity(ctx context.Context, a, b string) (float64, error)
}
