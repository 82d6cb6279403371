package chain

import (
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/metrics"
	"github.com/adilzhanb/baribar/internal/models"
)

// maxCyclesExplored caps how many cycles enumeration collects before it
// stops, so a dense graph degrades to fewer cycles rather than unbounded
// runtime.
const maxCyclesExplored = 512

// Discoverer enumerates exchange cycles over a graph snapshot.
type Discoverer struct {
	maxLength   int
	maxReturned int
	collector   *metrics.Collector
}

// NewDiscoverer builds a discoverer from a validated configuration.
func NewDiscoverer(cfg config.Config, collector *metrics.Collector) *Discoverer {
	return &Discoverer{
		maxLength:   cfg.MaxChainLength,
		maxReturned: cfg.MaxChainsReturned,
		collector:   collector,
	}
}

// Discover enumerates simple cycles of length 3 up to the configured
// maximum, scores each as the product of its edge weights, and returns the
// strongest ones in descending order. A cycle-free graph yields an empty
// slice; that is the normal outcome, not an error.
func (d *Discoverer) Discover(g *Graph) []models.ExchangeChain {
	start := time.Now()
	defer func() {
		d.collector.RecordTiming(metrics.OpChainDiscovery, time.Since(start))
	}()

	var found []models.ExchangeChain

	// Each cycle is enumerated exactly once by rooting the search at its
	// lowest node index and never descending to a smaller one.
	for root := range g.nodes {
		if len(found) >= maxCyclesExplored {
			break
		}
		d.search(g, root, root, []Edge{}, make(map[int]bool), &found)
	}

	// Ties break on the participant sequence, never the generated chain ID,
	// so repeated discovery over one graph snapshot returns the same order
	// and the same truncated set.
	sort.Slice(found, func(i, j int) bool {
		if found[i].Score != found[j].Score {
			return found[i].Score > found[j].Score
		}
		return slices.Compare(found[i].Participants, found[j].Participants) < 0
	})
	if len(found) > d.maxReturned {
		found = found[:d.maxReturned]
	}

	slog.Debug("chain discovery finished",
		"nodes", len(g.nodes), "edges", g.EdgeCount(),
		"chains", len(found), "duration_ms", time.Since(start).Milliseconds())
	return found
}

func (d *Discoverer) search(g *Graph, root, current int, path []Edge, onPath map[int]bool, found *[]models.ExchangeChain) {
	if len(*found) >= maxCyclesExplored {
		return
	}

	onPath[current] = true
	defer delete(onPath, current)

	for _, edge := range g.out[current] {
		if edge.To == root {
			// Cycles shorter than 3 participants are bilateral trades,
			// which belong to the category aggregator.
			if len(path)+1 >= 3 {
				*found = append(*found, d.buildChain(g, append(path, edge)))
				if len(*found) >= maxCyclesExplored {
					return
				}
			}
			continue
		}
		if edge.To < root || onPath[edge.To] {
			continue
		}
		if len(path)+1 >= d.maxLength {
			continue
		}
		d.search(g, root, edge.To, append(path, edge), onPath, found)
	}
}

func (d *Discoverer) buildChain(g *Graph, edges []Edge) models.ExchangeChain {
	chain := models.ExchangeChain{
		ID:     uuid.NewString(),
		Score:  1.0,
		Status: models.ChainProposed,
	}
	for _, e := range edges {
		chain.Participants = append(chain.Participants, g.nodes[e.From])
		chain.Items = append(chain.Items, e.OfferItem)
		chain.EdgeScores = append(chain.EdgeScores, e.Score)
		chain.Score *= e.Score
	}
	return chain
}
