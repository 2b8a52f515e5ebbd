package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/caseflow/internal/cli"
	"github.com/example/caseflow/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "caseflow",
		Short:   "caseflow - compliance case workflow engine",
		Version: version.String(),
		Long: `caseflow is a CLI tool for managing compliance cases through a phased,
gate-checked workflow. It tracks case status, phase progress, readiness,
and an append-only audit trail of every transition and override.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.DetectAndStoreActor()
		},
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.CaseCmd())
	rootCmd.AddCommand(cli.WorkflowCmd())
	rootCmd.AddCommand(cli.GateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
