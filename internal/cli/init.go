package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/caseflow/internal/config"
	"github.com/example/caseflow/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the caseflow database and actor config",
		Long: `Initialize the caseflow database at ~/.caseflow/caseflow.db with the
required schema, seed the built-in users, and write .caseflow/config.json
recording who is operating this working directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, _ := cmd.Flags().GetString("actor")
			role, _ := cmd.Flags().GetString("role")
			withFixtures, _ := cmd.Flags().GetBool("fixtures")

			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing caseflow database at %s\n", dbPath)

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Println("✓ Database initialized successfully")

			if withFixtures {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Println("✓ Demo fixtures seeded")
			} else {
				if err := db.SeedUsers(database); err != nil {
					return fmt.Errorf("failed to seed users: %w", err)
				}
				fmt.Println("✓ Built-in users seeded")
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			cfg := &config.Config{
				Version: "1.0",
				ActorID: actorID,
				Role:    role,
			}
			if err := config.SaveConfig(cwd, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("✓ Config written for %s (%s)\n", actorID, role)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  caseflow case create \"My first case\"")
			fmt.Println("  caseflow workflow init CASE-001")

			return nil
		},
	}

	cmd.Flags().String("actor", "USR-001", "Acting user ID recorded in the config")
	cmd.Flags().String("role", "analyst", "Acting role (analyst, expert, admin)")
	cmd.Flags().Bool("fixtures", false, "Seed demo cases alongside the built-in users")

	return cmd
}
