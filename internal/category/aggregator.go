// Package category turns per-item pair scores into one participant-level
// verdict: it intersects the categories two participants hold, scores every
// cross pair of matching exchange kind inside each shared category, and
// combines the per-category means using the configured strategy.
package category

import (
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/location"
	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/pairwise"
)

// topPairsKept bounds how many contributing pair scores a CategoryResult
// retains for explanation rendering.
const topPairsKept = 5

// Aggregator scores a participant against candidates category by category.
type Aggregator struct {
	pairs    *pairwise.Engine
	filter   *location.Filter
	strategy config.AggregationStrategy

	minCategoryScore   float64
	minValidCategories int
}

// minBaseScore is fixed by contract: a pairing whose pre-bonus base sits
// under 0.50 is never valid regardless of bonuses.
const minBaseScore = 0.50

// NewAggregator builds an aggregator from a validated configuration.
func NewAggregator(cfg config.Config, pairs *pairwise.Engine, filter *location.Filter) *Aggregator {
	return &Aggregator{
		pairs:              pairs,
		filter:             filter,
		strategy:           cfg.Aggregation,
		minCategoryScore:   cfg.MinCategoryScore,
		minValidCategories: cfg.MinValidCategories,
	}
}

// FindMatches scores the participant's wants against every candidate's
// offers and returns the results sorted by final score descending (ties
// break on candidate ID so output is deterministic).
func (a *Aggregator) FindMatches(participant models.Participant, candidates []models.Participant) []models.ParticipantMatchResult {
	results := make([]models.ParticipantMatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == participant.ID {
			continue
		}
		result, ok := a.MatchCandidate(participant, candidate)
		if !ok {
			continue
		}
		results = append(results, result)
	}

	SortResults(results)
	return results
}

// SortResults orders match results by final score descending, candidate ID
// ascending on ties.
func SortResults(results []models.ParticipantMatchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].CandidateID < results[j].CandidateID
	})
}

// MatchCandidate scores one participant-candidate pairing. The second
// return is false when the candidate is pruned outright (no location
// overlap or no shared categories); such candidates produce no result at
// all rather than a zero-scored one.
func (a *Aggregator) MatchCandidate(participant, candidate models.Participant) (models.ParticipantMatchResult, bool) {
	admitted, bonus := a.filter.Admit(participant, candidate)
	if !admitted {
		slog.Debug("candidate pruned by location filter",
			"participant", participant.ID, "candidate", candidate.ID)
		return models.ParticipantMatchResult{}, false
	}

	shared := lo.Intersect(participant.WantCategories(), candidate.OfferCategories())
	if len(shared) == 0 {
		slog.Debug("no shared categories",
			"participant", participant.ID, "candidate", candidate.ID)
		return models.ParticipantMatchResult{}, false
	}
	sort.Strings(shared)

	result := models.ParticipantMatchResult{
		ParticipantID: participant.ID,
		CandidateID:   candidate.ID,
		LocationBonus: bonus,
		Categories:    make(map[string]models.CategoryResult, len(shared)),
	}

	for _, cat := range shared {
		cr := a.scoreCategory(cat, participant.Wants[cat], candidate.Offers[cat])
		result.Categories[cat] = cr
		result.ComparedCategories++
		if len(cr.Pairs) > 0 {
			result.MatchedCategories++
		}
	}

	result.BaseScore = a.combine(result.Categories)
	result.FinalScore = clamp01(result.BaseScore + bonus)
	result.Quality = models.MatchQuality(result.FinalScore)
	result.IsValid = result.MatchedCategories >= a.minValidCategories &&
		result.BaseScore >= minBaseScore

	return result, true
}

// scoreCategory scores every want × offer pair of matching exchange kind
// and keeps the arithmetic mean of pairs above the category floor.
func (a *Aggregator) scoreCategory(category string, wants, offers []models.ItemDescriptor) models.CategoryResult {
	cr := models.CategoryResult{
		Category:   category,
		WantCount:  len(wants),
		OfferCount: len(offers),
	}

	var surviving []models.PairScore
	for _, want := range wants {
		for _, offer := range offers {
			if want.Kind != offer.Kind {
				continue
			}
			ps := a.pairs.ScorePair(want, offer)
			if ps.FinalScore >= a.minCategoryScore {
				surviving = append(surviving, ps)
			}
		}
	}

	if len(surviving) == 0 {
		return cr
	}

	sort.Slice(surviving, func(i, j int) bool {
		return surviving[i].FinalScore > surviving[j].FinalScore
	})

	total := 0.0
	for _, ps := range surviving {
		total += ps.FinalScore
	}
	cr.Score = total / float64(len(surviving))

	if len(surviving) > topPairsKept {
		surviving = surviving[:topPairsKept]
	}
	cr.Pairs = surviving
	return cr
}

// combine folds per-category scores into one base score. Categories whose
// score collapsed to zero (nothing survived the floor) are excluded, except
// under the minimum strategy where an empty category is itself the verdict.
func (a *Aggregator) combine(categories map[string]models.CategoryResult) float64 {
	if len(categories) == 0 {
		return 0
	}

	switch a.strategy {
	case config.StrategyMinimum:
		minScore := 1.0
		for _, cr := range categories {
			if cr.Score < minScore {
				minScore = cr.Score
			}
		}
		return minScore

	case config.StrategyMaximum:
		maxScore := 0.0
		for _, cr := range categories {
			if cr.Score > maxScore {
				maxScore = cr.Score
			}
		}
		return maxScore

	case config.StrategyWeighted:
		var total, weightSum float64
		for _, cr := range categories {
			if len(cr.Pairs) == 0 {
				continue
			}
			weight := float64(cr.WantCount)
			if cr.OfferCount > cr.WantCount {
				weight = float64(cr.OfferCount)
			}
			total += cr.Score * weight
			weightSum += weight
		}
		if weightSum == 0 {
			return 0
		}
		return total / weightSum

	default: // StrategyAverage
		var total float64
		matched := 0
		for _, cr := range categories {
			if len(cr.Pairs) == 0 {
				continue
			}
			total += cr.Score
			matched++
		}
		if matched == 0 {
			return 0
		}
		return total / float64(matched)
	}
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
