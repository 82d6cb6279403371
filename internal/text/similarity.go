package text

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/hbollon/go-edlib"

	"github.com/adilzhanb/baribar/internal/metrics"
)

// Weights of the lexical/semantic blend when a semantic provider is wired.
const (
	lexicalWeight  = 0.6
	semanticWeight = 0.4
)

// Similarity scores how close two labels are in [0,1]. The lexical rules
// run in priority order and short-circuit at the first applicable one; a
// fuzzy pass may then raise (never lower) the score, and a semantic
// provider, when present, is blended in last.
func (n *Normalizer) Similarity(a, b string) float64 {
	ca, cb := n.Normalize(a), n.Normalize(b)

	// Exact canonical match, including both-empty.
	if ca == cb {
		return 1.0
	}
	if ca == "" || cb == "" {
		return 0.0
	}

	key := pairKey(ca, cb)
	if cached, ok := n.simCache.get(key); ok {
		n.collector.RecordCacheHit("similarity")
		return cached
	}
	n.collector.RecordCacheMiss("similarity")

	start := time.Now()
	score := n.lexicalScore(ca, cb)

	// Typo compensation: a fuzzy metric blend may boost the score by up to
	// 0.2 when it beats both the current score and the 0.8 floor.
	if blend := fuzzyBlend(ca, cb); blend > score && blend > 0.8 {
		score = math.Min(1.0, score+math.Min(blend-score, 0.2))
	}
	n.collector.RecordTiming(metrics.OpSimilarity, time.Since(start))

	if n.semantic != nil {
		semStart := time.Now()
		sem, err := n.semantic.Similarity(context.Background(), ca, cb)
		n.collector.RecordTiming(metrics.OpSemantic, time.Since(semStart))
		if err != nil {
			// Degraded capability: fall back to the lexical score.
			slog.Debug("semantic provider failed, using lexical score",
				"error", err, "a", ca, "b", cb)
		} else {
			score = lexicalWeight*score + semanticWeight*clamp01(sem)
		}
	}

	score = clamp01(score)
	n.simCache.put(key, score)
	return score
}

// lexicalScore applies rules 2-5 to two canonical, non-equal strings.
func (n *Normalizer) lexicalScore(ca, cb string) float64 {
	// Rule 2: synonym closure.
	if n.synonyms.AreSynonyms(ca, cb) {
		return 0.90
	}

	wordsA := strings.Fields(ca)
	wordsB := strings.Fields(cb)

	// Rule 3: multi-word phrases where more than half the words pair up
	// 1:1 as identical tokens or synonyms.
	if len(wordsA) > 1 || len(wordsB) > 1 {
		if fraction := n.wordMatchFraction(wordsA, wordsB); fraction > 0.5 {
			return 0.75 + (fraction-0.5)*0.3
		}
	}

	// Rule 4: substring containment of the shorter in the longer.
	shorter, longer := ca, cb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return 0.70 + 0.20*float64(len(shorter))/float64(len(longer))
	}

	// Rule 5: token overlap blended with edit distance.
	overlap := jaccard(wordsA, wordsB)
	edit := levenshteinRatio(ca, cb)

	var score float64
	if overlap >= 0.5 {
		score = 0.8*overlap + 0.2*edit
	} else {
		score = 0.7*overlap + 0.3*edit
	}

	// All words present on both sides, just reordered.
	if overlap == 1.0 && score < 0.90 {
		score = 0.90
	}
	return score
}

// wordMatchFraction counts 1:1 word pairings (identical or synonyms) and
// divides by the longer word count.
func (n *Normalizer) wordMatchFraction(wordsA, wordsB []string) float64 {
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	used := make([]bool, len(wordsB))
	matched := 0
	for _, wa := range wordsA {
		for j, wb := range wordsB {
			if used[j] {
				continue
			}
			if wa == wb || n.synonyms.AreSynonyms(wa, wb) {
				used[j] = true
				matched++
				break
			}
		}
	}

	denom := len(wordsA)
	if len(wordsB) > denom {
		denom = len(wordsB)
	}
	return float64(matched) / float64(denom)
}

// fuzzyBlend combines a Jaro-Winkler ratio with token-sort and token-set
// edit ratios, compensating for typos and word-order noise.
func fuzzyBlend(ca, cb string) float64 {
	ratio := float64(edlib.JaroWinklerSimilarity(ca, cb))
	tokenSort := levenshteinRatio(sortedTokens(ca), sortedTokens(cb))
	tokenSet := levenshteinRatio(tokenSetForm(ca), tokenSetForm(cb))
	return 0.4*ratio + 0.3*tokenSort + 0.3*tokenSet
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSetForm(s string) string {
	seen := make(map[string]struct{})
	var uniq []string
	for _, tok := range strings.Fields(s) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		uniq = append(uniq, tok)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, " ")
}

// levenshteinRatio converts edit distance into a similarity in [0,1].
func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

func jaccard(wordsA, wordsB []string) float64 {
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1.0
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
