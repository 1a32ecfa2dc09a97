package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/chaincommand-go/internal/adapters/persistence"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/config"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/database"
)

// NewRunsCommand creates the runs command
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List journaled runs",
		Long: `List the most recent runs stored in the journal database.

Example:
  chaincommand runs --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, journal, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close(db)

			runs, err := journal.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs journaled yet")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tSCENARIO\tSTATUS\tTICKS\tSTARTED")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					r.ID, r.Scenario, r.Status, r.Ticks, r.StartedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

// NewEventsCommand creates the events command
func NewEventsCommand() *cobra.Command {
	var (
		runID     string
		eventType string
		fromTick  int64
		toTick    int64
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show journaled events of a run",
		Long: `Show the events of a journaled run. Without --run the most recent run
played on this machine is used.

Examples:
  chaincommand events
  chaincommand events --run <id> --type DIVISION_DESTROYED
  chaincommand events --from 10 --to 20 --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID == "" {
				h, err := config.NewUserConfigHandler()
				if err != nil {
					return err
				}
				userCfg, err := h.Load()
				if err != nil {
					return err
				}
				if userCfg.LastRunID == "" {
					return fmt.Errorf("no run given and no journaled run remembered")
				}
				runID = userCfg.LastRunID
			}

			db, journal, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close(db)

			filter := persistence.EventFilter{Limit: limit, Offset: offset}
			if eventType != "" {
				filter.Type = &eventType
			}
			if cmd.Flags().Changed("from") {
				filter.FromTick = &fromTick
			}
			if cmd.Flags().Changed("to") {
				filter.ToTick = &toTick
			}

			events, err := journal.Events(cmd.Context(), runID, filter)
			if err != nil {
				return fmt.Errorf("failed to read events: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s: %d events\n", runID, len(events))
			for _, e := range events {
				fmt.Fprintf(out, "[tick %4d] %s\n", e.Tick, e.Event)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run id (default: last run)")
	cmd.Flags().StringVar(&eventType, "type", "", "Only events of this type")
	cmd.Flags().Int64Var(&fromTick, "from", 0, "First tick")
	cmd.Flags().Int64Var(&toTick, "to", 0, "Last tick")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Events to skip (with --limit)")
	return cmd
}
