package models

import "fmt"

// ChainStatus represents the lifecycle state of a discovered exchange chain.
// The engine only ever emits Proposed; the external acceptance workflow owns
// the transitions to Matched or Rejected.
type ChainStatus string

const (
	ChainProposed ChainStatus = "proposed"
	ChainMatched  ChainStatus = "matched"
	ChainRejected ChainStatus = "rejected"
)

// ExchangeChain is a cyclic multi-party exchange proposal: each participant
// in the cycle wants what the next one offers, and the last loops back to
// the first. A valid chain has at least three distinct participants;
// bilateral pairs are handled by the category aggregator instead.
type ExchangeChain struct {
	ID string `json:"id"`

	// Participants lists the cycle in order; the edge i connects
	// Participants[i] to Participants[(i+1) % len].
	Participants []string `json:"participants"`

	// Items lists, per edge, the offered item that satisfies the preceding
	// participant's want.
	Items []string `json:"items"`

	// EdgeScores holds the pairwise final score of every leg, in edge order.
	EdgeScores []float64 `json:"edge_scores"`

	// Score is the product of all edge scores: one weak leg collapses the
	// whole chain toward zero, so every leg must be independently strong.
	Score float64 `json:"score"`

	Status ChainStatus `json:"status"`
}

// Length returns the number of participants in the cycle.
func (c ExchangeChain) Length() int { return len(c.Participants) }

func (c ExchangeChain) String() string {
	return fmt.Sprintf("chain %s: %d participants, score %.3f", c.ID, c.Length(), c.Score)
}
