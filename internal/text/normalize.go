// Package text implements the label normalizer and the layered similarity
// scorer used by the pairwise matching engine. A Normalizer is constructed
// once from loaded tables and injected wherever labels are compared; it
// holds no mutable state beyond its bounded memo caches.
package text

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/adilzhanb/baribar/internal/metrics"
)

// defaultStopWords are dropped during tokenization. Stored in canonical
// (lower-case, transliterated) form since they are matched post-translit.
var defaultStopWords = []string{
	// Russian/Kazakh function words, transliterated.
	"i", "v", "na", "s", "k", "po", "iz", "ot", "do", "dlya", "za", "bez",
	"zhane", "men", "ushin",
	// English.
	"a", "an", "the", "and", "or", "for", "of", "to", "in", "on", "with",
}

// Normalizer canonicalizes free-text labels and scores their similarity.
type Normalizer struct {
	stopWords map[string]struct{}
	synonyms  *SynonymTable
	semantic  SemanticProvider // optional, nil means lexical-only

	normCache *memoCache[string]
	simCache  *memoCache[float64]

	collector *metrics.Collector
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSynonyms replaces the built-in synonym table.
func WithSynonyms(t *SynonymTable) Option {
	return func(n *Normalizer) { n.synonyms = t }
}

// WithSemanticProvider wires the optional semantic similarity capability.
// Without it the lexical pipeline is used unmodified.
func WithSemanticProvider(p SemanticProvider) Option {
	return func(n *Normalizer) { n.semantic = p }
}

// WithMetrics records normalization/similarity timings and cache hit rates.
func WithMetrics(c *metrics.Collector) Option {
	return func(n *Normalizer) { n.collector = c }
}

// DefaultStopWordSet returns a fresh copy of the built-in stop-word set,
// for table loaders that must canonicalize entries the same way the
// normalizer will.
func DefaultStopWordSet() map[string]struct{} {
	stop := make(map[string]struct{}, len(defaultStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}
	return stop
}

// NewNormalizer builds a Normalizer with bounded memo caches of the given
// sizes. Cache sizes must be positive (validated by config at start-up).
func NewNormalizer(normCacheSize, simCacheSize int, opts ...Option) (*Normalizer, error) {
	n := &Normalizer{stopWords: DefaultStopWordSet()}
	for _, opt := range opts {
		opt(n)
	}

	if n.synonyms == nil {
		table, err := DefaultSynonymTable(n.stopWords)
		if err != nil {
			return nil, err
		}
		n.synonyms = table
	}

	normCache, err := newMemoCache[string](normCacheSize)
	if err != nil {
		return nil, err
	}
	simCache, err := newMemoCache[float64](simCacheSize)
	if err != nil {
		return nil, err
	}
	n.normCache = normCache
	n.simCache = simCache

	return n, nil
}

// StopWords exposes the stop-word set for table loaders that must
// canonicalize their entries the same way.
func (n *Normalizer) StopWords() map[string]struct{} {
	return n.stopWords
}

// Normalize returns the canonical form of text: lower-cased, Unicode
// NFC-normalized, transliterated Cyrillic → Latin, punctuation stripped,
// stop-words and single-rune tokens dropped, tokens joined with single
// spaces. Normalize is idempotent.
func (n *Normalizer) Normalize(text string) string {
	if cached, ok := n.normCache.get(text); ok {
		n.collector.RecordCacheHit("normalize")
		return cached
	}
	n.collector.RecordCacheMiss("normalize")

	start := time.Now()
	out := canonicalize(text, n.stopWords)
	n.collector.RecordTiming(metrics.OpNormalize, time.Since(start))

	n.normCache.put(text, out)
	return out
}

// SynonymsOf returns the canonical synonym closure of text.
func (n *Normalizer) SynonymsOf(text string) []string {
	return n.synonyms.Closure(n.Normalize(text))
}

// canonicalize is the pure normalization pipeline, shared with table
// loaders. Steps run in fixed order and each step is total.
func canonicalize(text string, stopWords map[string]struct{}) string {
	s := strings.ToLower(text)
	s = norm.NFC.String(s)

	if hasCyrillic(s) {
		s = transliterate(s)
	}

	// Strip punctuation: keep letters, digits and spaces.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if len([]rune(tok)) <= 1 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}
