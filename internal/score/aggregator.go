// Package score applies the bounded additive bonuses (location, trust,
// recency) to a base match score and classifies the result.
package score

import (
	"time"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/models"
)

// Breakdown records which bonuses were applied and by how much, so the
// final score stays auditable.
type Breakdown struct {
	Base          float64 `json:"base"`
	LocationBonus float64 `json:"location_bonus,omitempty"`
	TrustBonus    float64 `json:"trust_bonus,omitempty"`
	RecencyBonus  float64 `json:"recency_bonus,omitempty"`
}

// Finalized is the post-bonus verdict.
type Finalized struct {
	Score     float64        `json:"score"`
	Quality   models.Quality `json:"quality"`
	IsValid   bool           `json:"is_valid"`
	Breakdown Breakdown      `json:"breakdown"`
}

// Aggregator finalizes base scores against the configured bonus ladder.
type Aggregator struct {
	locationBonus  float64
	trustBonus     float64
	minTrustRating float64
	recencyBonus   float64
	recencyWindow  time.Duration
	minValidScore  float64

	now func() time.Time
}

// NewAggregator builds an aggregator from a validated configuration.
func NewAggregator(cfg config.Config) *Aggregator {
	return &Aggregator{
		locationBonus:  cfg.LocationBonus,
		trustBonus:     cfg.TrustBonus,
		minTrustRating: cfg.MinTrustRating,
		recencyBonus:   cfg.RecencyBonus,
		recencyWindow:  time.Duration(cfg.RecencyDays) * 24 * time.Hour,
		minValidScore:  cfg.MinValidScore,
		now:            time.Now,
	}
}

// Finalize clamps the base into [0,1], then walks the bonus ladder:
// location, then trust (rating at or above the floor), then recency
// (listing younger than the window), re-clamping after each step, and
// classifies the result. Bonuses only ever raise the running score.
func (a *Aggregator) Finalize(base float64, hasLocationOverlap bool, rating *float64, listedAt *time.Time) Finalized {
	score := clamp01(base)
	breakdown := Breakdown{Base: score}

	if hasLocationOverlap {
		breakdown.LocationBonus = a.locationBonus
		score = clampTop(score + a.locationBonus)
	}

	if rating != nil && *rating >= a.minTrustRating {
		breakdown.TrustBonus = a.trustBonus
		score = clampTop(score + a.trustBonus)
	}

	if listedAt != nil && a.now().Sub(*listedAt) <= a.recencyWindow {
		breakdown.RecencyBonus = a.recencyBonus
		score = clampTop(score + a.recencyBonus)
	}

	return Finalized{
		Score:     score,
		Quality:   models.FinalQuality(score),
		IsValid:   score >= a.minValidScore,
		Breakdown: breakdown,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	return clampTop(v)
}

func clampTop(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
