package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/service"
)

var (
	pairSnapshot   string
	pairTargetDays int
)

var pairCmd = &cobra.Command{
	Use:   "pair <item-a> <item-b>",
	Short: "Score a single item pair with a full breakdown",
	Long: `Score one want/offer pair and print the auditable breakdown:
validation reasons, value equivalence, label similarity and the blended
final score.

When the items differ in exchange kind the pair itself is rejected, but an
advisory mixed conversion is printed: the temporary side's daily rate
projected over --target-days.

Examples:
  baribar pair want-bike offer-velosiped --snapshot listings.yaml
  baribar pair want-flat offer-rental --snapshot listings.yaml --target-days 90`,
	Args: cobra.ExactArgs(2),
	RunE: runPair,
}

func init() {
	pairCmd.Flags().StringVarP(&pairSnapshot, "snapshot", "s", "", "participant snapshot file (YAML)")
	pairCmd.Flags().IntVar(&pairTargetDays, "target-days", 30, "target duration for the mixed conversion view")
	_ = pairCmd.MarkFlagRequired("snapshot")
}

func runPair(cmd *cobra.Command, args []string) error {
	participants, err := service.LoadSnapshot(pairSnapshot)
	if err != nil {
		return err
	}

	a, err := findItem(participants, args[0])
	if err != nil {
		return err
	}
	b, err := findItem(participants, args[1])
	if err != nil {
		return err
	}

	ps := svc.ScorePair(a, b)

	fmt.Printf("%s  vs  %s\n", a, b)
	fmt.Printf("  equivalence : %.3f\n", ps.EquivalenceScore)
	fmt.Printf("  language    : %.3f\n", ps.LanguageSimilarity)
	fmt.Printf("  final       : %s\n", renderQuality(ps.Quality, ps.FinalScore))
	fmt.Printf("  valid       : %v\n", ps.IsValid)
	for _, reason := range ps.Reasons {
		fmt.Printf("  - %s\n", reason)
	}

	if a.Kind != b.Kind && a.Kind.Valid() && b.Kind.Valid() {
		perm, temp := a, b
		if perm.Kind != models.ExchangeKindPermanent {
			perm, temp = b, a
		}
		res := svc.MixedEquivalence(perm, temp, pairTargetDays)
		fmt.Printf("\nMixed conversion over %d days:\n", pairTargetDays)
		fmt.Printf("  %s\n", res.Explanation)
		fmt.Printf("  score       : %s\n", renderQuality(res.Quality, res.Score))
	}

	if showStats {
		printStats(svc.Stats())
	}
	return nil
}

func findItem(participants []models.Participant, id string) (models.ItemDescriptor, error) {
	for _, p := range participants {
		for _, item := range append(p.AllWants(), p.AllOffers()...) {
			if item.ID == id {
				return item, nil
			}
		}
	}
	return models.ItemDescriptor{}, fmt.Errorf("item %q not found in snapshot", id)
}
