package pairwise

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/text"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	n, err := text.NewNormalizer(128, 128)
	require.NoError(t, err)
	return NewEngine(cfg, n, nil)
}

func permanentItem(id, category, label string, value float64) models.ItemDescriptor {
	return models.ItemDescriptor{
		ID:       id,
		OwnerID:  "owner-" + id,
		Category: category,
		Kind:     models.ExchangeKindPermanent,
		Value:    value,
		Label:    label,
	}
}

func temporaryItem(id, category, label string, value float64, days int) models.ItemDescriptor {
	item := permanentItem(id, category, label, value)
	item.Kind = models.ExchangeKindTemporary
	item.DurationDays = days
	return item
}

func TestScorePairCrossScriptSynonyms(t *testing.T) {
	e := newTestEngine(t)

	want := permanentItem("w1", "transport", "велосипед", 100000)
	offer := permanentItem("o1", "transport", "bike", 100000)

	got := e.ScorePair(want, offer)

	require.True(t, got.IsValid)
	assert.Empty(t, got.Reasons)
	assert.InDelta(t, 1.0, got.EquivalenceScore, 1e-9)
	assert.InDelta(t, 0.90, got.LanguageSimilarity, 1e-9)
	// 1.0·0.7 + 0.90·0.3
	assert.InDelta(t, 0.97, got.FinalScore, 1e-9)
	assert.Equal(t, models.QualityPerfect, got.Quality)
}

func TestScorePairTemporary(t *testing.T) {
	e := newTestEngine(t)

	want := temporaryItem("w1", "transport", "велосипед", 3000, 30)
	offer := temporaryItem("o1", "transport", "велосипед", 3150, 30)

	got := e.ScorePair(want, offer)

	require.True(t, got.IsValid)
	assert.Greater(t, got.EquivalenceScore, 0.95)
	assert.InDelta(t, 1.0, got.LanguageSimilarity, 1e-9)
}

func TestScorePairBelowThreshold(t *testing.T) {
	e := newTestEngine(t)

	want := permanentItem("w1", "transport", "велосипед", 100000)
	offer := permanentItem("o1", "transport", "гитара", 20000)

	got := e.ScorePair(want, offer)

	assert.False(t, got.IsValid)
	assert.Equal(t, []string{ReasonBelowThreshold}, got.Reasons)
	// Scores are still reported for the audit trail.
	assert.InDelta(t, 0.2, got.EquivalenceScore, 1e-9)
	assert.Greater(t, got.FinalScore, 0.0)
}

func TestScorePairValidation(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name       string
		a, b       models.ItemDescriptor
		wantReason string
	}{
		{
			"kind mismatch",
			permanentItem("w1", "transport", "велосипед", 1000),
			temporaryItem("o1", "transport", "велосипед", 1000, 10),
			"exchange kind mismatch",
		},
		{
			"category mismatch",
			permanentItem("w1", "transport", "велосипед", 1000),
			permanentItem("o1", "books", "велосипед", 1000),
			"category mismatch",
		},
		{
			"missing label",
			permanentItem("w1", "transport", "", 1000),
			permanentItem("o1", "transport", "велосипед", 1000),
			"first item has no label",
		},
		{
			"non-positive value",
			permanentItem("w1", "transport", "велосипед", 0),
			permanentItem("o1", "transport", "велосипед", 1000),
			"value must be positive",
		},
		{
			"unknown kind",
			models.ItemDescriptor{ID: "w1", Category: "transport", Kind: "perpetual", Value: 1000, Label: "велосипед"},
			permanentItem("o1", "transport", "велосипед", 1000),
			"unknown exchange kind",
		},
		{
			"permanent with duration",
			models.ItemDescriptor{ID: "w1", Category: "transport", Kind: models.ExchangeKindPermanent, Value: 1000, DurationDays: 10, Label: "велосипед"},
			permanentItem("o1", "transport", "велосипед", 1000),
			"permanent but carries a duration",
		},
		{
			"temporary duration out of range",
			temporaryItem("w1", "transport", "велосипед", 1000, 400),
			temporaryItem("o1", "transport", "велосипед", 1000, 10),
			"outside [1,365]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ScorePair(tt.a, tt.b)

			assert.False(t, got.IsValid)
			assert.Zero(t, got.FinalScore)
			assert.Equal(t, models.QualityPoor, got.Quality)

			found := false
			for _, r := range got.Reasons {
				if strings.Contains(r, tt.wantReason) {
					found = true
				}
			}
			assert.True(t, found, "reasons %v missing %q", got.Reasons, tt.wantReason)
		})
	}
}

func TestScorePairAccumulatesReasons(t *testing.T) {
	e := newTestEngine(t)

	a := models.ItemDescriptor{Kind: "bogus"}
	b := permanentItem("o1", "books", "книга", 1000)

	got := e.ScorePair(a, b)
	// Missing id, category, label, bad kind, bad value on the first item
	// plus the category mismatch: everything is reported at once.
	assert.GreaterOrEqual(t, len(got.Reasons), 6)
}
