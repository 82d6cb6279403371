// Package service wires the engine components together and exposes the two
// entry points the outside world consumes: ranked bilateral matching and
// multi-party chain discovery.
package service

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/adilzhanb/baribar/internal/category"
	"github.com/adilzhanb/baribar/internal/chain"
	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/equivalence"
	"github.com/adilzhanb/baribar/internal/location"
	"github.com/adilzhanb/baribar/internal/metrics"
	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/pairwise"
	"github.com/adilzhanb/baribar/internal/score"
	"github.com/adilzhanb/baribar/internal/text"
)

// RankedMatch couples the category-level breakdown with the post-bonus
// verdict of the score aggregator.
type RankedMatch struct {
	models.ParticipantMatchResult
	Final score.Finalized
}

// MatchService holds the constructed engine. It is safe for concurrent use:
// every component is immutable after construction apart from the bounded
// memo caches, which lock internally.
type MatchService struct {
	cfg        config.Config
	normalizer *text.Normalizer
	filter     *location.Filter
	pairs      *pairwise.Engine
	equiv      *equivalence.Engine
	aggregator *category.Aggregator
	discoverer *chain.Discoverer
	scorer     *score.Aggregator
	collector  *metrics.Collector
}

// Options carries the optional construction inputs.
type Options struct {
	// SynonymFile and LocationFile overlay the built-in tables.
	SynonymFile  string
	LocationFile string

	// Semantic is the optional embedding-backed similarity provider.
	Semantic text.SemanticProvider
}

// New constructs the engine. Configuration is validated eagerly; a bad
// config is the only fatal start-up condition.
func New(cfg config.Config, opts Options) (*MatchService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	collector := metrics.NewCollector()

	normOpts := []text.Option{text.WithMetrics(collector)}
	if opts.SynonymFile != "" {
		table, err := text.LoadSynonymFile(opts.SynonymFile, text.DefaultStopWordSet())
		if err != nil {
			return nil, fmt.Errorf("load synonyms: %w", err)
		}
		normOpts = append(normOpts, text.WithSynonyms(table))
	}
	if opts.Semantic != nil {
		normOpts = append(normOpts, text.WithSemanticProvider(opts.Semantic))
	}

	normalizer, err := text.NewNormalizer(cfg.NormalizeCacheSize, cfg.SimilarityCacheSize, normOpts...)
	if err != nil {
		return nil, fmt.Errorf("create normalizer: %w", err)
	}

	var filter *location.Filter
	if opts.LocationFile != "" {
		filter, err = location.LoadFile(normalizer, opts.LocationFile, cfg.LocationBonus, cfg.MaxCityDistanceKm)
	} else {
		filter, err = location.NewFilter(normalizer, cfg.LocationBonus, cfg.MaxCityDistanceKm)
	}
	if err != nil {
		return nil, fmt.Errorf("create location filter: %w", err)
	}

	pairs := pairwise.NewEngine(cfg, normalizer, collector)

	return &MatchService{
		cfg:        cfg,
		normalizer: normalizer,
		filter:     filter,
		aggregator: category.NewAggregator(cfg, pairs, filter),
		discoverer: chain.NewDiscoverer(cfg, collector),
		scorer:     score.NewAggregator(cfg),
		collector:  collector,
		pairs:      pairs,
		equiv:      equivalence.NewEngine(cfg),
	}, nil
}

// Match ranks candidates for one participant, fanning the per-candidate
// work (which is independent and never blocks) across a bounded worker
// pool. Results are sorted by post-bonus score descending, candidate ID
// ascending on ties.
func (s *MatchService) Match(participant models.Participant, candidates []models.Participant) []RankedMatch {
	type job struct {
		candidate models.Participant
	}

	jobs := make(chan job)
	var mu sync.Mutex
	var ranked []RankedMatch

	workers := runtime.NumCPU()
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				start := time.Now()
				result, ok := s.aggregator.MatchCandidate(participant, j.candidate)
				s.collector.RecordTiming(metrics.OpCandidateMatch, time.Since(start))
				if !ok {
					continue
				}

				final := s.scorer.Finalize(result.BaseScore, result.LocationBonus > 0,
					j.candidate.Rating, j.candidate.ListedAt)
				result.FinalScore = final.Score
				result.Quality = final.Quality
				result.IsValid = result.IsValid && final.IsValid

				mu.Lock()
				ranked = append(ranked, RankedMatch{ParticipantMatchResult: result, Final: final})
				mu.Unlock()
			}
		}()
	}

	for _, c := range candidates {
		if c.ID == participant.ID {
			continue
		}
		jobs <- job{candidate: c}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Final.Score != ranked[j].Final.Score {
			return ranked[i].Final.Score > ranked[j].Final.Score
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	slog.Info("matched participant",
		"participant", participant.ID,
		"candidates", len(candidates),
		"results", len(ranked))
	return ranked
}

// MatchAll runs Match for every participant against all the others. There
// is no ordering dependency between participants; results are keyed by
// participant ID and each list is independently sorted.
func (s *MatchService) MatchAll(participants []models.Participant) map[string][]RankedMatch {
	out := make(map[string][]RankedMatch, len(participants))
	for _, p := range participants {
		out[p.ID] = s.Match(p, participants)
	}
	return out
}

// DiscoverChains assembles an immutable want/offer graph snapshot from the
// given participants and enumerates exchange cycles over it.
func (s *MatchService) DiscoverChains(participants []models.Participant) []models.ExchangeChain {
	g := chain.BuildGraph(participants, s.pairs)
	return s.discoverer.Discover(g)
}

// Normalizer exposes the engine's label normalizer.
func (s *MatchService) Normalizer() *text.Normalizer { return s.normalizer }

// ScorePair exposes single-pair scoring for audit tooling.
func (s *MatchService) ScorePair(a, b models.ItemDescriptor) models.PairScore {
	return s.pairs.ScorePair(a, b)
}

// MixedEquivalence compares a permanent item against a temporary one by
// converting the temporary side to its implied value over targetDays. This
// is an advisory view only; pairwise validation still rejects mixed pairs.
func (s *MatchService) MixedEquivalence(perm, temp models.ItemDescriptor, targetDays int) equivalence.Result {
	return s.equiv.MixedScore(perm.Value, temp.Value, temp.DurationDays, targetDays)
}

// Stats returns the current metrics snapshot.
func (s *MatchService) Stats() metrics.Snapshot {
	return s.collector.GetSnapshot()
}
