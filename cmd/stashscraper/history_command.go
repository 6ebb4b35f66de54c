package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pierre-delecto/stash-theporndb-scraper/internal/config"
	"github.com/pierre-delecto/stash-theporndb-scraper/internal/history"
)

func newHistoryCommand(configFlag *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reconciliation outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if !cfg.History.Enabled || cfg.History.Path == "" {
				return fmt.Errorf("run history is disabled in the configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			outcomes, err := store.SceneOutcomes(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([]table.Row, 0, len(outcomes))
			for _, outcome := range outcomes {
				rows = append(rows, table.Row{
					outcome.CreatedAt,
					outcome.SceneID,
					outcome.Outcome,
					outcome.Query,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(table.Row{"When", "Scene", "Outcome", "Query"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of rows to show")

	return cmd
}
