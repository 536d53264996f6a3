package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var matchKind string

var matchCmd = &cobra.Command{
	Use:   "match <mission-id>",
	Short: "Rank candidates for a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchKind, "kind", "k", "pilot", "candidate kind: pilot or drone")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	missionID := args[0]
	switch matchKind {
	case "pilot":
		ranked, err := svc.MatchPilots(missionID)
		if err != nil {
			return err
		}
		for i, m := range ranked {
			fmt.Printf("%2d. %-8s %-24s %.2f  %s\n", i+1, m.Pilot.ID, m.Pilot.Name, m.Score, formatBreakdown(m.Breakdown))
		}
	case "drone":
		ranked, err := svc.MatchDrones(missionID)
		if err != nil {
			return err
		}
		for i, m := range ranked {
			fmt.Printf("%2d. %-8s %-24s %.2f  %s\n", i+1, m.Drone.ID, m.Drone.Model, m.Score, formatBreakdown(m.Breakdown))
		}
	default:
		return fmt.Errorf("unknown kind %q, expected pilot or drone", matchKind)
	}
	return nil
}

func formatBreakdown(b map[string]float64) string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, b[k]))
	}
	return strings.Join(parts, " ")
}
