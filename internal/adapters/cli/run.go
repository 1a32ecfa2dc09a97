package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/chaincommand-go/internal/adapters/metrics"
	"github.com/andrescamacho/chaincommand-go/internal/adapters/persistence"
	applog "github.com/andrescamacho/chaincommand-go/internal/application/logging"
	"github.com/andrescamacho/chaincommand-go/internal/application/scenario"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/config"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		ticks     int
		tps       float64
		journal   bool
		quiet     bool
		showTree  bool
		withEmoji bool
	)

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Play a scenario",
		Long: `Play a scenario to the end of its script, printing events as they happen.

Ticks run as fast as possible unless --tps (or simulation.ticks_per_second)
paces them. With --journal every event is stored in the configured database
and can be inspected later with 'chaincommand events'.

Examples:
  chaincommand run scenarios/ridge.yaml
  chaincommand run scenarios/ridge.yaml --ticks 500 --tps 20 --tree
  chaincommand run scenarios/ridge.yaml --journal --quiet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scenarioArg(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			journal = journal || cfg.Database.Enabled

			var server *metrics.Server
			if cfg.Metrics.Enabled {
				if server, err = startMetrics(cfg.Metrics); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Serving metrics on http://%s%s\n", server.Addr(), cfg.Metrics.Path)
			}

			ctx, s, err := openSession(ctx, path, sessionOptions{journal: journal, metrics: cfg.Metrics.Enabled})
			if err != nil {
				return err
			}
			defer s.close()

			if ticks > 0 {
				s.scenario.Ticks = ticks
			}
			if !cmd.Flags().Changed("tps") {
				tps = cfg.Simulation.TicksPerSecond
			}
			if s.scenario.Delta == 0 {
				s.scenario.Delta = cfg.Simulation.TickDelta
			}

			out := cmd.OutOrStdout()
			observer := func(report *simulation.TickReport) {
				metrics.RecordWorld(s.world.Divisions())
				if !quiet {
					printEvents(out, report)
				}
			}

			runner := scenario.NewRunner(s.mediator, s.scenario, s.roster,
				scenario.WithTicksPerSecond(tps),
				scenario.WithTickObserver(observer),
			)
			summary, runErr := runner.Run(ctx)
			finishRun(ctx, s, runErr)

			if summary != nil {
				fmt.Fprintf(out, "\n%s: %d ticks, %d events, %d script errors, %d divisions standing at %s\n",
					s.scenario.Name, summary.Ticks, summary.Events, summary.ScriptErrors,
					len(s.world.Divisions()), s.world.Now())
			}
			if s.journal != nil {
				fmt.Fprintf(out, "Journal run: %s\n", s.journal.RunID())
			}
			if showTree {
				resp, err := s.mediator.Send(ctx, &types.CommandTreeQuery{})
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprint(out, NewTreeFormatter(false, withEmoji).FormatForest(resp.(*types.CommandTreeResponse).Roots))
			}

			if server != nil {
				lingerMetrics(ctx, server, cfg.Metrics)
			}
			return runErr
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0, "Override the number of ticks to play")
	cmd.Flags().Float64Var(&tps, "tps", 0, "Ticks per wall-clock second (0 = unpaced)")
	cmd.Flags().BoolVar(&journal, "journal", false, "Store events in the journal database")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the command tree when the run ends")
	cmd.Flags().BoolVar(&withEmoji, "emoji", false, "Use emoji in the tree")

	return cmd
}

func scenarioArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	h, err := config.NewUserConfigHandler()
	if err != nil {
		return "", err
	}
	userCfg, err := h.Load()
	if err != nil {
		return "", err
	}
	if userCfg.DefaultScenario == "" {
		return "", fmt.Errorf("no scenario given and no default set (chaincommand config set-scenario <path>)")
	}
	return userCfg.DefaultScenario, nil
}

func printEvents(out io.Writer, report *simulation.TickReport) {
	for _, e := range report.Events {
		fmt.Fprintf(out, "[tick %4d] %s\n", report.Tick, e)
	}
}

func finishRun(ctx context.Context, s *session, runErr error) {
	if s.journal == nil {
		return
	}
	status := persistence.RunStatusFinished
	if runErr != nil {
		status = persistence.RunStatusFailed
	}
	logger := applog.LoggerFromContext(ctx)
	// the run context may already be canceled
	if err := s.journal.FinishRun(context.WithoutCancel(ctx), status); err != nil {
		logger.Log(applog.LevelError, "failed to close journal run", map[string]interface{}{
			"run_id": s.journal.RunID(),
			"status": status,
			"error":  err.Error(),
		})
	}

	h, err := config.NewUserConfigHandler()
	if err == nil {
		err = h.SetLastRun(s.journal.RunID())
	}
	if err != nil {
		logger.Log(applog.LevelWarn, "failed to remember last run", map[string]interface{}{
			"run_id": s.journal.RunID(),
			"error":  err.Error(),
		})
	}
}

func startMetrics(cfg config.MetricsConfig) (*metrics.Server, error) {
	metrics.InitRegistry()
	collector := metrics.NewSimulationMetricsCollector()
	if err := collector.Register(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	metrics.SetGlobalCollector(collector)
	requests := metrics.NewRequestMetricsCollector()
	if err := requests.Register(); err != nil {
		return nil, fmt.Errorf("failed to register request metrics: %w", err)
	}
	metrics.SetRequestCollector(requests)

	server, err := metrics.NewServer(cfg.Host, cfg.Port, cfg.Path)
	if err != nil {
		return nil, err
	}
	go func() { _ = server.Serve() }()
	return server, nil
}

func lingerMetrics(ctx context.Context, server *metrics.Server, cfg config.MetricsConfig) {
	if cfg.Linger > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(time.Duration(cfg.Linger) * time.Second):
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
