package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/adilzhanb/baribar/internal/service"
)

var (
	matchSnapshot string
	matchLimit    int
	matchAll      bool
)

var matchCmd = &cobra.Command{
	Use:   "match [participant-id]",
	Short: "Rank exchange candidates for a participant",
	Long: `Rank every compatible candidate for one participant, best first.

Candidates are pruned by location overlap, scored category by category, and
finalized with location/trust/recency bonuses.

Examples:
  baribar match aigerim --snapshot listings.yaml
  baribar match aigerim --snapshot listings.yaml --limit 3 --stats
  baribar match --all --snapshot listings.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchSnapshot, "snapshot", "s", "", "participant snapshot file (YAML)")
	matchCmd.Flags().IntVarP(&matchLimit, "limit", "n", 10, "max results per participant")
	matchCmd.Flags().BoolVar(&matchAll, "all", false, "match every participant in the snapshot")
	_ = matchCmd.MarkFlagRequired("snapshot")
}

func runMatch(cmd *cobra.Command, args []string) error {
	participants, err := service.LoadSnapshot(matchSnapshot)
	if err != nil {
		return err
	}

	if matchAll {
		if len(args) > 0 {
			return fmt.Errorf("--all and a participant id are mutually exclusive")
		}
		results := svc.MatchAll(participants)

		ids := make([]string, 0, len(results))
		for id := range results {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			printMatches(id, results[id])
		}
	} else {
		if len(args) != 1 {
			return fmt.Errorf("participant id required (or use --all)")
		}
		participant, err := service.FindParticipant(participants, args[0])
		if err != nil {
			return err
		}
		printMatches(participant.ID, svc.Match(participant, participants))
	}

	if showStats {
		printStats(svc.Stats())
	}
	return nil
}

func printMatches(participantID string, ranked []service.RankedMatch) {
	if len(ranked) == 0 {
		fmt.Printf("%s: no compatible candidates.\n", participantID)
		return
	}

	limit := len(ranked)
	if matchLimit > 0 && matchLimit < limit {
		limit = matchLimit
	}

	fmt.Printf("%s: %d candidates\n", participantID, len(ranked))
	for i, m := range ranked[:limit] {
		validity := ""
		if !m.IsValid {
			validity = defaultTheme.hintStyle().Render("  (below threshold)")
		}
		fmt.Printf("%2d. %-16s %s%s\n", i+1, m.CandidateID,
			renderQuality(m.Quality, m.Final.Score), validity)

		if verbose {
			b := m.Final.Breakdown
			fmt.Printf("    base %.3f  location +%.2f  trust +%.2f  recency +%.2f\n",
				b.Base, b.LocationBonus, b.TrustBonus, b.RecencyBonus)

			cats := make([]string, 0, len(m.Categories))
			for cat := range m.Categories {
				cats = append(cats, cat)
			}
			sort.Strings(cats)
			for _, cat := range cats {
				cr := m.Categories[cat]
				fmt.Printf("    %-14s %.3f (%d wants x %d offers, %d pairs kept)\n",
					cat, cr.Score, cr.WantCount, cr.OfferCount, len(cr.Pairs))
			}
		}
	}
	fmt.Println()
}
