// Package pairwise validates and scores one want item against one offer
// item, combining numeric equivalence with label similarity into a single
// auditable PairScore. Validation failures resolve to zero scores with
// reasons; nothing on this path ever returns an error.
package pairwise

import (
	"fmt"
	"time"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/equivalence"
	"github.com/adilzhanb/baribar/internal/metrics"
	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/text"
)

// ReasonBelowThreshold marks a structurally valid pair that simply scored
// under the acceptance bar, distinguishable from validation failures.
const ReasonBelowThreshold = "score below threshold"

// Engine scores item pairs.
type Engine struct {
	equivalence *equivalence.Engine
	normalizer  *text.Normalizer

	languageWeight float64
	minMatchScore  float64
	minValue       float64
	minDuration    int
	maxDuration    int

	collector *metrics.Collector
}

// NewEngine builds a pairwise engine from a validated configuration and an
// injected normalizer.
func NewEngine(cfg config.Config, normalizer *text.Normalizer, collector *metrics.Collector) *Engine {
	return &Engine{
		equivalence:    equivalence.NewEngine(cfg),
		normalizer:     normalizer,
		languageWeight: cfg.LanguageSimilarityWeight,
		minMatchScore:  cfg.MinMatchScore,
		minValue:       cfg.MinValue,
		minDuration:    cfg.MinDurationDays,
		maxDuration:    cfg.MaxDurationDays,
		collector:      collector,
	}
}

// ScorePair validates the pair and, if it holds together, blends the
// equivalence score with label similarity:
//
//	final = equivalence·(1-λ) + language·λ
func (e *Engine) ScorePair(a, b models.ItemDescriptor) models.PairScore {
	start := time.Now()
	defer func() {
		e.collector.RecordTiming(metrics.OpPairScore, time.Since(start))
	}()

	score := models.PairScore{
		ItemA:    a.ID,
		ItemB:    b.ID,
		Kind:     a.Kind,
		Category: a.Category,
		Quality:  models.QualityPoor,
	}

	if reasons := e.validate(a, b); len(reasons) > 0 {
		score.Reasons = reasons
		return score
	}

	var eq equivalence.Result
	if a.IsTemporary() {
		eq = e.equivalence.TemporaryScore(a.Value, a.DurationDays, b.Value, b.DurationDays)
	} else {
		eq = e.equivalence.PermanentScore(a.Value, b.Value)
	}

	lang := e.normalizer.Similarity(a.Label, b.Label)

	score.EquivalenceScore = eq.Score
	score.LanguageSimilarity = lang
	score.FinalScore = eq.Score*(1-e.languageWeight) + lang*e.languageWeight
	score.Quality = models.PairQuality(score.FinalScore)

	if score.FinalScore >= e.minMatchScore {
		score.IsValid = true
	} else {
		score.Reasons = []string{ReasonBelowThreshold}
	}
	return score
}

// validate accumulates every data-shape problem instead of stopping at the
// first, so callers can render a complete reason list.
func (e *Engine) validate(a, b models.ItemDescriptor) []string {
	var reasons []string

	reasons = append(reasons, e.validateItem("first", a)...)
	reasons = append(reasons, e.validateItem("second", b)...)

	if a.Kind.Valid() && b.Kind.Valid() && a.Kind != b.Kind {
		reasons = append(reasons, fmt.Sprintf("exchange kind mismatch: %s vs %s", a.Kind, b.Kind))
	}
	if a.Category != b.Category {
		reasons = append(reasons, fmt.Sprintf("category mismatch: %q vs %q", a.Category, b.Category))
	}
	return reasons
}

func (e *Engine) validateItem(side string, item models.ItemDescriptor) []string {
	var reasons []string

	if item.ID == "" {
		reasons = append(reasons, fmt.Sprintf("%s item has no id", side))
	}
	if item.Category == "" {
		reasons = append(reasons, fmt.Sprintf("%s item has no category", side))
	}
	if item.Label == "" {
		reasons = append(reasons, fmt.Sprintf("%s item has no label", side))
	}
	if !item.Kind.Valid() {
		reasons = append(reasons, fmt.Sprintf("%s item has unknown exchange kind %q", side, item.Kind))
	}
	if item.Value <= 0 {
		reasons = append(reasons, fmt.Sprintf("%s item value must be positive, got %.2f", side, item.Value))
	} else if item.Value < e.minValue {
		reasons = append(reasons, fmt.Sprintf("%s item value %.2f is below the minimum %.2f", side, item.Value, e.minValue))
	}

	switch item.Kind {
	case models.ExchangeKindTemporary:
		if item.DurationDays < e.minDuration || item.DurationDays > e.maxDuration {
			reasons = append(reasons, fmt.Sprintf("%s item duration %d days is outside [%d,%d]",
				side, item.DurationDays, e.minDuration, e.maxDuration))
		}
	case models.ExchangeKindPermanent:
		if item.DurationDays != 0 {
			reasons = append(reasons, fmt.Sprintf("%s item is permanent but carries a duration", side))
		}
	}
	return reasons
}
