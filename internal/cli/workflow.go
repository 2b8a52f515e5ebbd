package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/caseflow/internal/wire"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Manage the phase/gate workflow of a case",
	Long:  "Initialize, inspect, and advance the phase workflow attached to a case",
}

var workflowInitCmd = &cobra.Command{
	Use:   "init [case-id]",
	Short: "Initialize the workflow from the case-type template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().Initialize(NewContext(), args[0])
	},
}

var workflowSummaryCmd = &cobra.Command{
	Use:   "summary [case-id]",
	Short: "Show the workflow overview for a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().Summary(NewContext(), args[0])
	},
}

var workflowPhasesCmd = &cobra.Command{
	Use:   "phases [case-id]",
	Short: "List the case's phases with gate counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().Phases(NewContext(), args[0])
	},
}

var workflowAdvanceCmd = &cobra.Command{
	Use:   "advance [case-id]",
	Short: "Close the current phase and open the next",
	Long: `Attempt to close the current phase and open the next one. The advance
is blocked while required gates of the current phase are unsatisfied; a
blocked advance reports the unmet gate keys and changes nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().Advance(NewContext(), args[0])
	},
}

var workflowSkipCmd = &cobra.Command{
	Use:   "skip [case-id] [reason]",
	Short: "Administratively skip the current phase (admin only)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason := strings.Join(args[1:], " ")

		return wire.WorkflowAdapter().SkipPhase(NewContext(), args[0], reason)
	},
}

var workflowReadinessCmd = &cobra.Command{
	Use:   "readiness [case-id]",
	Short: "Show the derived readiness score and risk bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().Readiness(NewContext(), args[0])
	},
}

// WorkflowCmd returns the workflow command
func WorkflowCmd() *cobra.Command {
	workflowCmd.AddCommand(workflowInitCmd)
	workflowCmd.AddCommand(workflowSummaryCmd)
	workflowCmd.AddCommand(workflowPhasesCmd)
	workflowCmd.AddCommand(workflowAdvanceCmd)
	workflowCmd.AddCommand(workflowSkipCmd)
	workflowCmd.AddCommand(workflowReadinessCmd)

	return workflowCmd
}
