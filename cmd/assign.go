package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign <mission-id>",
	Short: "Assign the best available pilot and drone to a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssign,
}

func init() {
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	changes, err := svc.AssignBest(args[0])
	if err != nil {
		return err
	}
	for _, ch := range changes {
		fmt.Println(ch)
	}
	return nil
}
