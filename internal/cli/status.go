package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/caseflow/internal/ports/primary"
	"github.com/example/caseflow/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the caseload at a glance",
		Long:  "Show who you are, the open caseload, and per-case readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			mine, _ := cmd.Flags().GetBool("mine")
			return runStatus(mine)
		},
	}

	cmd.Flags().Bool("mine", false, "Only show cases assigned to you")

	return cmd
}

func runStatus(mine bool) error {
	ctx := NewContext()

	actorID := GetActorID()
	if actorID == "" {
		fmt.Println("No actor configured. Run 'caseflow init' first.")
		return nil
	}
	fmt.Printf("Acting as: %s\n\n", actorID)

	filters := primary.CaseFilters{}
	if mine {
		filters.AssignedTo = actorID
	}
	cases, err := wire.CaseService().ListCases(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}

	if len(cases) == 0 {
		fmt.Println("No cases. Create one with: caseflow case create \"...\"")
		return nil
	}

	counts := map[string]int{}
	for _, c := range cases {
		counts[c.Status]++
	}
	fmt.Printf("Caseload: %d total", len(cases))
	for _, status := range []string{"pending", "ai_analyzing", "ai_completed", "needs_human", "human_processing", "reviewing", "submitted", "approved", "rejected", "closed"} {
		if counts[status] > 0 {
			fmt.Printf(", %d %s", counts[status], status)
		}
	}
	fmt.Println()
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPHASE\tREADINESS\tTITLE")
	fmt.Fprintln(w, "--\t------\t-----\t---------\t-----")
	for _, c := range cases {
		phase := "-"
		if c.CurrentPhase > 0 {
			phase = fmt.Sprintf("%d/7", c.CurrentPhase)
		}

		readiness := "-"
		if r, err := wire.WorkflowService().GetReadiness(ctx, c.ID); err == nil {
			readiness = fmt.Sprintf("%d %s", r.Score, riskMarker(r.RiskLevel))
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			statusMarker(c.Status),
			phase,
			readiness,
			c.Title,
		)
	}
	w.Flush()

	return nil
}

// statusMarker colors a case status for terminal display
func statusMarker(status string) string {
	switch status {
	case "pending":
		return color.New(color.FgHiBlack).Sprint(status)
	case "ai_analyzing", "ai_completed", "analyzed":
		return color.New(color.FgHiBlue).Sprint(status)
	case "needs_human", "human_processing", "reviewing", "submitted":
		return color.New(color.FgYellow).Sprint(status)
	case "approved":
		return color.New(color.FgHiGreen).Sprint(status)
	case "rejected":
		return color.New(color.FgRed).Sprint(status)
	case "closed":
		return color.New(color.FgWhite).Sprint(status)
	default:
		return status
	}
}

// riskMarker colors a readiness risk bucket for terminal display
func riskMarker(level string) string {
	switch level {
	case "LOW":
		return color.New(color.FgHiGreen).Sprint(level)
	case "MEDIUM":
		return color.New(color.FgYellow).Sprint(level)
	case "HIGH":
		return color.New(color.FgHiRed).Sprint(level)
	case "CRITICAL":
		return color.New(color.FgRed, color.Bold).Sprint(level)
	default:
		return level
	}
}
