package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skylarkops/dronecoord/core/model"
)

var statusCmd = &cobra.Command{
	Use:   "status <pilot-id> <status>",
	Short: "Change a pilot's roster status",
	Long:  `Sets a pilot's status to "Available", "Assigned" or "On Leave". Leaving Assigned clears the pilot's current assignment.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	pilotID, status := args[0], model.PilotStatus(args[1])
	if err := svc.SetPilotStatus(pilotID, status); err != nil {
		return err
	}
	fmt.Printf("Pilot %s is now %s.\n", pilotID, status)
	return nil
}
