package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adilzhanb/baribar/internal/models"
	"github.com/adilzhanb/baribar/internal/service"
)

var chainsSnapshot string

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "Discover multi-party exchange rings",
	Long: `Build the want/offer graph over every participant in the snapshot and
enumerate exchange cycles of three or more participants.

A chain's score is the product of its leg scores, so every leg must be
independently strong.

Examples:
  baribar chains --snapshot listings.yaml
  baribar chains --snapshot listings.yaml --stats`,
	Args: cobra.NoArgs,
	RunE: runChains,
}

func init() {
	chainsCmd.Flags().StringVarP(&chainsSnapshot, "snapshot", "s", "", "participant snapshot file (YAML)")
	_ = chainsCmd.MarkFlagRequired("snapshot")
}

func runChains(cmd *cobra.Command, args []string) error {
	participants, err := service.LoadSnapshot(chainsSnapshot)
	if err != nil {
		return err
	}

	chains := svc.DiscoverChains(participants)
	if len(chains) == 0 {
		fmt.Println("No exchange chains found.")
		return nil
	}

	fmt.Printf("Found %d exchange chains:\n\n", len(chains))
	for i, c := range chains {
		fmt.Printf("%d. %s  [%s]\n", i+1,
			renderQuality(models.PairQuality(c.Score), c.Score), c.Status)
		fmt.Printf("   %s -> %s\n",
			strings.Join(c.Participants, " -> "), c.Participants[0])
		for leg := range c.Items {
			next := (leg + 1) % len(c.Participants)
			fmt.Printf("   leg %d: %s receives %s from %s (%.3f)\n",
				leg+1, c.Participants[leg], c.Items[leg], c.Participants[next], c.EdgeScores[leg])
		}
		fmt.Println()
	}

	if showStats {
		printStats(svc.Stats())
	}
	return nil
}
