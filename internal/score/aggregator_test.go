package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/models"
)

var fixedNow = time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)

func newTestAggregator() *Aggregator {
	a := NewAggregator(config.Default())
	a.now = func() time.Time { return fixedNow }
	return a
}

func ptr[T any](v T) *T { return &v }

func TestFinalizeBonusLadder(t *testing.T) {
	a := newTestAggregator()

	recent := fixedNow.Add(-3 * 24 * time.Hour)
	stale := fixedNow.Add(-30 * 24 * time.Hour)

	tests := []struct {
		name      string
		base      float64
		overlap   bool
		rating    *float64
		listedAt  *time.Time
		wantScore float64
	}{
		{"no bonuses", 0.75, false, nil, nil, 0.75},
		{"location only", 0.75, true, nil, nil, 0.85},
		{"location and trust", 0.75, true, ptr(4.8), nil, 0.90},
		{"all three", 0.75, true, ptr(4.8), &recent, 0.93},
		{"trust below floor", 0.75, true, ptr(4.4), nil, 0.85},
		{"listing too old", 0.75, true, nil, &stale, 0.85},
		{"rating exactly at floor", 0.75, false, ptr(4.5), nil, 0.80},
		{"listing exactly at window edge", 0.75, false, nil, ptr(fixedNow.Add(-7 * 24 * time.Hour)), 0.78},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Finalize(tt.base, tt.overlap, tt.rating, tt.listedAt)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
		})
	}
}

func TestFinalizeClamping(t *testing.T) {
	a := newTestAggregator()

	recent := fixedNow.Add(-time.Hour)

	// 0.95 base + 0.10 + 0.05 + 0.03 would exceed 1.0 without clamping.
	got := a.Finalize(0.95, true, ptr(5.0), &recent)
	assert.InDelta(t, 1.0, got.Score, 1e-9)

	// Negative bases clamp to zero before bonuses apply.
	neg := a.Finalize(-0.2, false, nil, nil)
	assert.Zero(t, neg.Score)
	assert.Zero(t, neg.Breakdown.Base)

	over := a.Finalize(1.7, false, nil, nil)
	assert.InDelta(t, 1.0, over.Score, 1e-9)
}

func TestFinalizeBreakdown(t *testing.T) {
	a := newTestAggregator()

	recent := fixedNow.Add(-24 * time.Hour)
	got := a.Finalize(0.60, true, ptr(4.9), &recent)

	assert.InDelta(t, 0.60, got.Breakdown.Base, 1e-9)
	assert.InDelta(t, 0.10, got.Breakdown.LocationBonus, 1e-9)
	assert.InDelta(t, 0.05, got.Breakdown.TrustBonus, 1e-9)
	assert.InDelta(t, 0.03, got.Breakdown.RecencyBonus, 1e-9)
	assert.InDelta(t, 0.78, got.Score, 1e-9)
}

func TestFinalizeValidityAndQuality(t *testing.T) {
	a := newTestAggregator()

	tests := []struct {
		name        string
		base        float64
		overlap     bool
		wantValid   bool
		wantQuality models.Quality
	}{
		{"valid good", 0.80, false, true, models.QualityGood},
		{"bonus lifts over validity floor", 0.65, true, true, models.QualityGood},
		{"below validity floor", 0.55, false, false, models.QualityFair},
		{"excellent", 0.95, false, true, models.QualityExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Finalize(tt.base, tt.overlap, nil, nil)
			assert.Equal(t, tt.wantValid, got.IsValid)
			assert.Equal(t, tt.wantQuality, got.Quality)
		})
	}
}
