package text

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityExactMatch(t *testing.T) {
	n := newTestNormalizer(t)

	if got := n.Similarity("iPhone", "iPhone"); got != 1.0 {
		t.Errorf("Similarity(iPhone, iPhone) = %v, want 1.0", got)
	}
	// Same canonical form after normalization.
	if got := n.Similarity("Велосипед", "велосипед!"); got != 1.0 {
		t.Errorf("Similarity over normalization variants = %v, want 1.0", got)
	}
}

func TestSimilarityCrossScriptSynonym(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Similarity("bike", "велосипед")
	if got < 0.80 {
		t.Errorf("Similarity(bike, велосипед) = %v, want >= 0.80", got)
	}
}

func TestSimilarityDifferentIntents(t *testing.T) {
	n := newTestNormalizer(t)

	// Same domain word, different intents: must stay under the 0.70
	// acceptance threshold.
	got := n.Similarity("ремонт телефона", "продажа телефона")
	if got >= 0.70 {
		t.Errorf("Similarity(ремонт телефона, продажа телефона) = %v, want < 0.70", got)
	}
}

func TestSimilarityLayers(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"synonym pair", "laptop", "ноутбук", 0.90, 0.90},
		{"substring containment", "велосипед", "горный велосипед", 0.70, 0.95},
		{"word reorder", "велосипед горный", "горный велосипед", 0.90, 1.0},
		{"multi-word synonym overlap", "детский bike прогулочный", "детский велосипед прогулочный", 0.75, 1.0},
		{"unrelated", "квартира", "гитара", 0.0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Similarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("Similarity(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	n := newTestNormalizer(t)

	pairs := [][2]string{
		{"bike", "велосипед"},
		{"горный велосипед", "велосипед"},
		{"ремонт телефона", "продажа телефона"},
	}
	for _, p := range pairs {
		ab := n.Similarity(p[0], p[1])
		ba := n.Similarity(p[1], p[0])
		assert.InDelta(t, ab, ba, 1e-9, "Similarity(%q,%q) asymmetric", p[0], p[1])
	}
}

func TestSimilarityTypoBoost(t *testing.T) {
	n := newTestNormalizer(t)

	// One-letter typo: the fuzzy pass should rescue the score well above
	// what token overlap alone yields.
	clean := n.Similarity("macbook pro", "macbok pro")
	if clean < 0.70 {
		t.Errorf("Similarity with typo = %v, want >= 0.70", clean)
	}
}

type stubSemantic struct {
	score float64
	err   error
}

func (s stubSemantic) Similarity(_ context.Context, _, _ string) (float64, error) {
	return s.score, s.err
}

func TestSimilaritySemanticBlend(t *testing.T) {
	lexOnly := newTestNormalizer(t)
	blended := newTestNormalizer(t, WithSemanticProvider(stubSemantic{score: 1.0}))

	a, b := "квартира", "гитара"
	lex := lexOnly.Similarity(a, b)
	got := blended.Similarity(a, b)

	want := lexicalWeight*lex + semanticWeight*1.0
	assert.InDelta(t, want, got, 1e-9)
}

func TestSimilaritySemanticFallback(t *testing.T) {
	lexOnly := newTestNormalizer(t)
	failing := newTestNormalizer(t, WithSemanticProvider(stubSemantic{err: errors.New("provider down")}))

	a, b := "квартира", "гитара"
	assert.InDelta(t, lexOnly.Similarity(a, b), failing.Similarity(a, b), 1e-9,
		"failing provider must fall back to the lexical score")
}

func TestSimilarityExactStaysExactWithSemantic(t *testing.T) {
	n := newTestNormalizer(t, WithSemanticProvider(stubSemantic{score: 0.1}))

	if got := n.Similarity("iPhone", "iphone"); got != 1.0 {
		t.Errorf("exact match with semantic provider = %v, want 1.0", got)
	}
}

func TestLevenshteinRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1.0},
		{"", "", 1.0},
		{"abcd", "abce", 0.75},
		{"a", "b", 0.0},
	}
	for _, tt := range tests {
		got := levenshteinRatio(tt.a, tt.b)
		assert.InDelta(t, tt.want, got, 1e-9, "levenshteinRatio(%q,%q)", tt.a, tt.b)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}, 1.0},
		{"disjoint", []string{"a"}, []string{"b"}, 0.0},
		{"half", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"both empty", nil, nil, 1.0},
		{"one empty", []string{"a"}, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, jaccard(tt.a, tt.b), 1e-9)
		})
	}
}
