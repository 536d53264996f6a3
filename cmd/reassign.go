package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reassignApply bool

var reassignCmd = &cobra.Command{
	Use:   "reassign <mission-id>",
	Short: "Plan reassignments for an understaffed mission",
	Long:  "Proposes swap plans ordered by risk. With --apply, the lowest-risk plan is executed and the roster files are updated.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReassign,
}

func init() {
	reassignCmd.Flags().BoolVar(&reassignApply, "apply", false, "apply the lowest-risk plan")
	rootCmd.AddCommand(reassignCmd)
}

func runReassign(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	missionID := args[0]
	if reassignApply {
		plan, changes, err := svc.ApplyBestPlan(missionID)
		if err != nil {
			return err
		}
		fmt.Printf("Applied plan %s (phase %d, risk %d)\n", plan.ID, plan.Phase, plan.RiskScore)
		for _, ch := range changes {
			fmt.Println("  " + ch)
		}
		return nil
	}

	plans, err := svc.PlanReassignment(missionID)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Printf("No viable reassignment for %s.\n", missionID)
		return nil
	}
	for i, p := range plans {
		fmt.Printf("%2d. risk %3d  phase %d  %s\n", i+1, p.RiskScore, p.Phase, p.Rationale)
		for _, w := range p.Warnings {
			fmt.Println("      warning: " + w)
		}
	}
	return nil
}
