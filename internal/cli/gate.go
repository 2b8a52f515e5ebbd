package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/caseflow/internal/wire"
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Manage workflow gates",
	Long:  "Inspect and toggle the checklist gates of a case's current phase",
}

var gateListCmd = &cobra.Command{
	Use:   "list [case-id] [phase-number]",
	Short: "List the gates of a phase",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		phase, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid phase number %q", args[1])
		}

		return wire.WorkflowAdapter().Gates(NewContext(), args[0], phase)
	},
}

var gateMeetCmd = &cobra.Command{
	Use:   "meet [case-id] [gate-key]",
	Short: "Mark a gate of the current phase as met",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().ToggleGate(NewContext(), args[0], args[1], true)
	},
}

var gateUnmeetCmd = &cobra.Command{
	Use:   "unmeet [case-id] [gate-key]",
	Short: "Mark a gate of the current phase as not met",
	Long: `Mark a gate of the current phase as not met. Toggling a gate off does
not clear a manual override; an overridden gate stays satisfied until the
override is cleared.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().ToggleGate(NewContext(), args[0], args[1], false)
	},
}

var gateOverrideCmd = &cobra.Command{
	Use:   "override [case-id] [gate-key]",
	Short: "Manually override a gate (expert or admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().OverrideGate(NewContext(), args[0], args[1])
	},
}

var gateClearOverrideCmd = &cobra.Command{
	Use:   "clear-override [case-id] [gate-key]",
	Short: "Clear a manual gate override (expert or admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.WorkflowAdapter().ClearGateOverride(NewContext(), args[0], args[1])
	},
}

// GateCmd returns the gate command
func GateCmd() *cobra.Command {
	gateCmd.AddCommand(gateListCmd)
	gateCmd.AddCommand(gateMeetCmd)
	gateCmd.AddCommand(gateUnmeetCmd)
	gateCmd.AddCommand(gateOverrideCmd)
	gateCmd.AddCommand(gateClearOverrideCmd)

	return gateCmd
}
