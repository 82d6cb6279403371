// Package chain discovers multi-party exchange cycles: directed edges say
// "this participant's want is satisfied by that participant's offer", and a
// cycle of three or more participants is a viable cashless exchange ring.
package chain

import (
	"sort"

	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/pairwise"
)

// Edge connects participant From to participant To: one of From's wants is
// satisfied by To's offer, at the recorded pairwise score.
type Edge struct {
	From      int // node index
	To        int
	WantItem  string
	OfferItem string
	Score     float64
}

// Graph is an immutable snapshot of the want/offer universe. It is built
// once from materialized participant values and never mutated afterwards,
// so cycle enumeration cannot observe a half-updated edge set.
type Graph struct {
	nodes []string         // participant IDs, sorted
	index map[string]int   // participant ID -> node index
	out   map[int][]Edge   // adjacency by source node
}

// BuildGraph scores every want×offer combination between distinct
// participants and keeps, per ordered participant pair, the single best
// pair above the acceptance threshold as a directed edge.
func BuildGraph(participants []models.Participant, pairs *pairwise.Engine) *Graph {
	g := &Graph{
		index: make(map[string]int, len(participants)),
		out:   make(map[int][]Edge),
	}

	ordered := make([]models.Participant, len(participants))
	copy(ordered, participants)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for i, p := range ordered {
		g.nodes = append(g.nodes, p.ID)
		g.index[p.ID] = i
	}

	for i, from := range ordered {
		for j, to := range ordered {
			if i == j {
				continue
			}
			if edge, ok := bestEdge(i, j, from, to, pairs); ok {
				g.out[i] = append(g.out[i], edge)
			}
		}
	}
	return g
}

// bestEdge finds the strongest valid want/offer pairing between two
// participants, if any pair clears the acceptance threshold.
func bestEdge(i, j int, from, to models.Participant, pairs *pairwise.Engine) (Edge, bool) {
	best := Edge{From: i, To: j}
	found := false

	for category, wants := range from.Wants {
		offers, ok := to.Offers[category]
		if !ok {
			continue
		}
		for _, want := range wants {
			for _, offer := range offers {
				if want.Kind != offer.Kind {
					continue
				}
				ps := pairs.ScorePair(want, offer)
				if !ps.IsValid {
					continue
				}
				if !found || ps.FinalScore > best.Score {
					best.WantItem = want.ID
					best.OfferItem = offer.ID
					best.Score = ps.FinalScore
					found = true
				}
			}
		}
	}
	return best, found
}

// Nodes returns the participant IDs in node order.
func (g *Graph) Nodes() []string { return g.nodes }

// EdgeCount returns the total number of directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.out {
		n += len(edges)
	}
	return n
}
