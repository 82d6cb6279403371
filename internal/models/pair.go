package models

// PairScore is the auditable result of scoring one want item against one
// offer item. It is a transient value: callers may cache or discard it.
type PairScore struct {
	ItemA string `json:"item_a"`
	ItemB string `json:"item_b"`

	// EquivalenceScore measures numeric value fairness in [0,1].
	EquivalenceScore float64 `json:"equivalence_score"`

	// LanguageSimilarity measures label similarity in [0,1].
	LanguageSimilarity float64 `json:"language_similarity"`

	// FinalScore blends the two per the configured language weight.
	FinalScore float64 `json:"final_score"`

	Kind     ExchangeKind `json:"kind"`
	Category string       `json:"category"`
	Quality  Quality      `json:"quality"`

	// IsValid is false either for validation failures or for structurally
	// valid pairs that scored below the acceptance threshold; Reasons
	// distinguishes the two.
	IsValid bool     `json:"is_valid"`
	Reasons []string `json:"reasons,omitempty"`
}

// CategoryResult aggregates the pair scores of one shared category into a
// single per-category score, keeping the contributing pairs for downstream
// explanation rendering.
type CategoryResult struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`

	// Pairs holds the surviving pair scores, best first.
	Pairs []PairScore `json:"pairs,omitempty"`

	WantCount  int `json:"want_count"`
	OfferCount int `json:"offer_count"`
}

// ParticipantMatchResult is the engine's verdict for one participant-candidate
// pairing: the post-bonus final score plus the per-category breakdown that
// lets a human-readable explanation be generated downstream.
type ParticipantMatchResult struct {
	ParticipantID string `json:"participant_id"`
	CandidateID   string `json:"candidate_id"`

	// BaseScore is the pre-bonus category combination.
	BaseScore float64 `json:"base_score"`

	// LocationBonus is the fixed increment granted on geographic overlap.
	LocationBonus float64 `json:"location_bonus"`

	// FinalScore is BaseScore plus bonuses, clamped to [0,1].
	FinalScore float64 `json:"final_score"`

	Categories map[string]CategoryResult `json:"categories,omitempty"`

	// MatchedCategories counts categories whose aggregated score survived;
	// ComparedCategories counts every shared category that was scored.
	MatchedCategories  int `json:"matched_categories"`
	ComparedCategories int `json:"compared_categories"`

	Quality Quality `json:"quality"`
	IsValid bool    `json:"is_valid"`
}
