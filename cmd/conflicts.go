package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Scan the roster for scheduling conflicts",
	Args:  cobra.NoArgs,
	RunE:  runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	conflicts, err := svc.DetectConflicts()
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		fmt.Println("No conflicts detected.")
		return nil
	}
	for _, c := range conflicts {
		fmt.Printf("[%s] %s: %s\n", c.Severity, c.Type, c.Description)
	}
	fmt.Printf("%d conflict(s) detected.\n", len(conflicts))
	return nil
}
