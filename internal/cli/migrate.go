package cli

import (
	"fmt"

	"estimator/internal/repository"

	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate command for the prediction audit database
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the prediction audit database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := repository.RunMigrations(cc.Config.GetPostgreSQLURL()); err != nil {
				return err
			}
			return printStatus(cmd, cc)
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := repository.RollbackMigration(cc.Config.GetPostgreSQLURL(), steps); err != nil {
				return err
			}
			return printStatus(cmd, cc)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the applied migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return printStatus(cmd, cc)
		},
	}

	cmd.AddCommand(upCmd, downCmd, statusCmd)
	return cmd
}

func printStatus(cmd *cobra.Command, cc *CLIContext) error {
	version, dirty, err := repository.MigrationStatus(cc.Config.GetPostgreSQLURL())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if cc.OutputFormat == "json" {
		return writeJSON(out, map[string]any{"version": version, "dirty": dirty})
	}
	state := "clean"
	if dirty {
		state = "dirty (manual intervention required)"
	}
	fmt.Fprintf(out, "Migration version: %d, %s\n", version, state)
	return nil
}
