package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/caseflow/internal/wire"
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Manage compliance cases",
	Long:  "Create, list, and manage compliance cases in the caseflow ledger",
}

var caseCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new case",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caseType, _ := cmd.Flags().GetString("type")
		title := strings.Join(args, " ")

		return wire.CaseAdapter().Create(NewContext(), title, caseType)
	},
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		caseType, _ := cmd.Flags().GetString("type")
		assignedTo, _ := cmd.Flags().GetString("assigned-to")
		limit, _ := cmd.Flags().GetInt("limit")

		return wire.CaseAdapter().List(NewContext(), status, caseType, assignedTo, limit)
	},
}

var caseShowCmd = &cobra.Command{
	Use:   "show [case-id]",
	Short: "Show case details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.CaseAdapter().Show(NewContext(), args[0])
		return err
	},
}

var caseTransitionCmd = &cobra.Command{
	Use:   "transition [case-id] [to-status]",
	Short: "Move a case through its status machine",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")

		return wire.CaseAdapter().Transition(NewContext(), args[0], args[1], reason)
	},
}

var caseAssignCmd = &cobra.Command{
	Use:   "assign [case-id] [user-id]",
	Short: "Assign a case to a user",
	Long: `Assign a case to a user. Analysts may only assign cases to themselves;
assigning another user requires expert or admin capability.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.CaseAdapter().Assign(NewContext(), args[0], args[1])
	},
}

var caseOverrideCmd = &cobra.Command{
	Use:   "override [case-id] [field=value]...",
	Short: "Hand-edit AI-derived fields with an audited reason",
	Long: `Override AI-derived case fields. Each argument is field=value; the
--reason flag is mandatory and prior values are snapshotted into the
override trail.

Overridable fields: risk_score, risk_analysis, petition_draft, ai_summary,
expert_summary.

Examples:
  caseflow case override CASE-001 risk_score=42.5 --reason "model misread the filing"
  caseflow case override CASE-002 ai_summary="..." expert_summary="..." --reason "expert review"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reason, _ := cmd.Flags().GetString("reason")

		fields := make(map[string]string)
		for _, arg := range args[1:] {
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid field argument %q, expected field=value", arg)
			}
			fields[name] = value
		}

		return wire.CaseAdapter().Override(NewContext(), args[0], fields, reason)
	},
}

var caseHistoryCmd = &cobra.Command{
	Use:   "history [case-id]",
	Short: "Show the case's status transition trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.CaseAdapter().History(NewContext(), args[0])
	},
}

var caseOverridesCmd = &cobra.Command{
	Use:   "overrides [case-id]",
	Short: "Show the case's field override trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.CaseAdapter().Overrides(NewContext(), args[0])
	},
}

// CaseCmd returns the case command
func CaseCmd() *cobra.Command {
	caseCreateCmd.Flags().StringP("type", "t", "", "Case type (enforcement, petition; default enforcement)")
	caseListCmd.Flags().StringP("status", "s", "", "Filter by status")
	caseListCmd.Flags().StringP("type", "t", "", "Filter by case type")
	caseListCmd.Flags().String("assigned-to", "", "Filter by assignee user ID")
	caseListCmd.Flags().IntP("limit", "n", 0, "Limit number of results")
	caseTransitionCmd.Flags().StringP("reason", "r", "", "Reason recorded in the transition trail")
	caseOverrideCmd.Flags().StringP("reason", "r", "", "Reason for the override (required)")
	caseOverrideCmd.MarkFlagRequired("reason")

	caseCmd.AddCommand(caseCreateCmd)
	caseCmd.AddCommand(caseListCmd)
	caseCmd.AddCommand(caseShowCmd)
	caseCmd.AddCommand(caseTransitionCmd)
	caseCmd.AddCommand(caseAssignCmd)
	caseCmd.AddCommand(caseOverrideCmd)
	caseCmd.AddCommand(caseHistoryCmd)
	caseCmd.AddCommand(caseOverridesCmd)

	return caseCmd
}
