package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sprint-board-api/internal/database"
	"sprint-board-api/internal/persistence"
	"sprint-board-api/internal/service"
)

func newMigrateCmd() *cobra.Command {
	var schemaOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the schema and upgrade legacy work items",
		Long: `Steps performed:
  1. Create or update every table
  2. Upgrade legacy work items on every board: a missing sprint binding
     becomes manual and a legacy sprint name is resolved to its sprint id

Safe to run multiple times (idempotent).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			out := cmd.OutOrStdout()
			if err := database.SafeAutoMigrate(e.db, e.logger); err != nil {
				return fmt.Errorf("migrate schema: %w", err)
			}
			fmt.Fprintln(out, "Schema up to date")
			if schemaOnly {
				return nil
			}

			snapshots := service.NewSnapshotService(e.repos, e.tx, persistence.NewGormStore(e.db), e.clock, e.logger)
			changed, err := snapshots.MigrateAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate work items: %w", err)
			}
			fmt.Fprintf(out, "%d work item(s) upgraded\n", changed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "skip the work item upgrade")
	return cmd
}
