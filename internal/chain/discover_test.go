package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/pairwise"
	"github.com/adilzhanb/baribar/internal/text"
)

func newTestPairs(t *testing.T) *pairwise.Engine {
	t.Helper()
	n, err := text.NewNormalizer(128, 128)
	require.NoError(t, err)
	return pairwise.NewEngine(config.Default(), n, nil)
}

func ringItem(id, category, label string, value float64) models.ItemDescriptor {
	return models.ItemDescriptor{
		ID:       id,
		Category: category,
		Kind:     models.ExchangeKindPermanent,
		Value:    value,
		Label:    label,
	}
}

func ringParticipant(id string, want, offer models.ItemDescriptor) models.Participant {
	return models.Participant{
		ID:     id,
		Wants:  map[string][]models.ItemDescriptor{want.Category: {want}},
		Offers: map[string][]models.ItemDescriptor{offer.Category: {offer}},
	}
}

// threeRing builds the canonical A→C→B→A exchange ring: everyone's want is
// covered by exactly one other participant's offer.
func threeRing() []models.Participant {
	bike := ringItem("bike", "transport", "велосипед", 100000)
	book := ringItem("book", "books", "книга", 100000)
	laptop := ringItem("laptop", "electronics", "ноутбук", 100000)

	return []models.Participant{
		ringParticipant("p-anar", bike, book),
		ringParticipant("p-bekzat", book, laptop),
		ringParticipant("p-chingiz", laptop, bike),
	}
}

func TestBuildGraph(t *testing.T) {
	g := BuildGraph(threeRing(), newTestPairs(t))

	assert.Equal(t, []string{"p-anar", "p-bekzat", "p-chingiz"}, g.Nodes())
	assert.Equal(t, 3, g.EdgeCount())
}

func TestBuildGraphKeepsBestPairPerDirection(t *testing.T) {
	pairs := newTestPairs(t)

	// Two offers could satisfy the want; only the stronger one becomes the
	// edge.
	a := ringParticipant("p-a",
		ringItem("w", "transport", "велосипед", 100000),
		ringItem("oa", "books", "книга", 100000))
	b := models.Participant{
		ID:    "p-b",
		Wants: map[string][]models.ItemDescriptor{},
		Offers: map[string][]models.ItemDescriptor{
			"transport": {
				ringItem("weak", "transport", "велосипед", 80000),
				ringItem("strong", "transport", "велосипед", 100000),
			},
		},
	}

	g := BuildGraph([]models.Participant{a, b}, pairs)

	require.Equal(t, 1, g.EdgeCount())
	edges := g.out[g.index["p-a"]]
	require.Len(t, edges, 1)
	assert.Equal(t, "strong", edges[0].OfferItem)
	assert.InDelta(t, 1.0, edges[0].Score, 1e-9)
}

func TestDiscoverThreeCycle(t *testing.T) {
	pairs := newTestPairs(t)
	d := NewDiscoverer(config.Default(), nil)

	chains := d.Discover(BuildGraph(threeRing(), pairs))

	// Rooting at the minimum node index yields the cycle exactly once.
	require.Len(t, chains, 1)
	c := chains[0]

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.ChainProposed, c.Status)
	assert.Equal(t, 3, c.Length())
	assert.Equal(t, []string{"p-anar", "p-chingiz", "p-bekzat"}, c.Participants)
	// Each participant receives the item covering their want.
	assert.Equal(t, []string{"bike", "laptop", "book"}, c.Items)
	assert.InDelta(t, 1.0, c.Score, 1e-9)
	require.Len(t, c.EdgeScores, 3)
}

func TestDiscoverVetoedLegBreaksRing(t *testing.T) {
	pairs := newTestPairs(t)
	d := NewDiscoverer(config.Default(), nil)

	ring := threeRing()
	// Gut one leg: the offered bike is now worth far less than the want, so
	// the pair fails validation and the ring cannot close.
	ring[2].Offers["transport"][0].Value = 10000

	chains := d.Discover(BuildGraph(ring, pairs))
	assert.Empty(t, chains)
}

func TestDiscoverRespectsMaxChainLength(t *testing.T) {
	pairs := newTestPairs(t)

	// Four-party ring: p1 wants from p4, p4 from p3, p3 from p2, p2 from p1.
	items := []models.ItemDescriptor{
		ringItem("i1", "cat1", "велосипед", 100000),
		ringItem("i2", "cat2", "велосипед", 100000),
		ringItem("i3", "cat3", "велосипед", 100000),
		ringItem("i4", "cat4", "велосипед", 100000),
	}
	ring := []models.Participant{
		ringParticipant("p1", items[0], items[1]),
		ringParticipant("p2", items[1], items[2]),
		ringParticipant("p3", items[2], items[3]),
		ringParticipant("p4", items[3], items[0]),
	}

	cfg := config.Default()
	cfg.MaxChainLength = 4
	found := NewDiscoverer(cfg, nil).Discover(BuildGraph(ring, pairs))
	require.Len(t, found, 1)
	assert.Equal(t, 4, found[0].Length())

	cfg.MaxChainLength = 3
	assert.Empty(t, NewDiscoverer(cfg, nil).Discover(BuildGraph(ring, pairs)))
}

func TestDiscoverEmptyAndCycleFreeGraphs(t *testing.T) {
	pairs := newTestPairs(t)
	d := NewDiscoverer(config.Default(), nil)

	assert.Empty(t, d.Discover(BuildGraph(nil, pairs)))

	// A single directed edge has no cycle.
	a := ringParticipant("p-a",
		ringItem("w", "transport", "велосипед", 100000),
		ringItem("o", "books", "книга", 100000))
	b := ringParticipant("p-b",
		ringItem("w2", "furniture", "диван", 100000),
		ringItem("o2", "transport", "велосипед", 100000))
	assert.Empty(t, d.Discover(BuildGraph([]models.Participant{a, b}, pairs)))
}

func TestDiscoverDeterministicUnderTies(t *testing.T) {
	pairs := newTestPairs(t)

	cfg := config.Default()
	cfg.MaxChainsReturned = 3

	// Six disjoint rings of identical items: every cycle scores exactly
	// 1.0, so ordering and truncation rest entirely on the tie-break.
	var participants []models.Participant
	for _, prefix := range []string{"a", "b", "c", "d", "e", "f"} {
		bike := ringItem(prefix+"-bike", prefix+"-transport", "велосипед", 100000)
		book := ringItem(prefix+"-book", prefix+"-books", "книга", 100000)
		laptop := ringItem(prefix+"-laptop", prefix+"-electronics", "ноутбук", 100000)
		participants = append(participants,
			ringParticipant(prefix+"-p1", bike, book),
			ringParticipant(prefix+"-p2", book, laptop),
			ringParticipant(prefix+"-p3", laptop, bike),
		)
	}

	g := BuildGraph(participants, pairs)
	d := NewDiscoverer(cfg, nil)

	first := d.Discover(g)
	require.Len(t, first, 3)

	for n := 0; n < 5; n++ {
		again := d.Discover(g)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].Participants, again[i].Participants)
			assert.Equal(t, first[i].Items, again[i].Items)
		}
	}

	// The sequences themselves are ordered, not just stable.
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Participants[0], first[i].Participants[0])
	}
}

func TestDiscoverRanksByScore(t *testing.T) {
	pairs := newTestPairs(t)
	d := NewDiscoverer(config.Default(), nil)

	ring := threeRing()
	// Weaken one leg slightly; the cycle survives but scores below 1.0.
	ring[1].Offers["electronics"][0].Value = 90000

	chains := d.Discover(BuildGraph(ring, pairs))
	require.Len(t, chains, 1)
	assert.Less(t, chains[0].Score, 1.0)
	assert.Greater(t, chains[0].Score, 0.85)
}
