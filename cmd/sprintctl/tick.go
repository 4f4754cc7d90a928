package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sprint-board-api/internal/service"
)

func newTickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run one sprint scheduler pass",
		Long: `Moves every sprint whose dates have come due to its next state:
PLANNED sprints start once their start date is reached and ACTIVE sprints
close once their end date has passed. Running it again changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			sprints := service.NewSprintService(e.repos, e.tx, e.cfg.Workflow.UndoWindow, e.clock, nil, e.logger)
			transitions, err := sprints.Tick(cmd.Context())
			if err != nil {
				return fmt.Errorf("tick: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, t := range transitions {
				fmt.Fprintf(out, "%s  %s -> %s\n", t.SprintID, t.From, t.To)
			}
			fmt.Fprintf(out, "%d sprint(s) changed state\n", len(transitions))
			return nil
		},
	}
}
