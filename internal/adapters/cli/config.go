package cli

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/chaincommand-go/internal/adapters/scenariofile"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage chaincommand configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (CC_* prefix, e.g. CC_SIMULATION_TIE_BREAK)
2. Config file (config.yaml)
3. Default values

User state (default scenario, last journaled run) is stored in
~/.chaincommand/state.json

Examples:
  chaincommand config show
  chaincommand config set-scenario scenarios/ridge.yaml`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetScenarioCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			fmt.Fprintln(out, "chaincommand Configuration")
			fmt.Fprintln(out, "==========================")

			if h, err := config.NewUserConfigHandler(); err == nil {
				userCfg, err := h.Load()
				if err != nil {
					userCfg = &config.UserConfig{}
				}
				fmt.Fprintln(out, "User State:")
				fmt.Fprintf(out, "  State file:       %s\n", h.GetConfigPath())
				fmt.Fprintf(out, "  Default scenario: %s\n", orNotSet(userCfg.DefaultScenario))
				fmt.Fprintf(out, "  Last run:         %s\n", orNotSet(userCfg.LastRunID))
			}

			sim := cfg.Simulation
			fmt.Fprintln(out, "\nSimulation:")
			fmt.Fprintf(out, "  Tick delta:       %g\n", sim.TickDelta)
			fmt.Fprintf(out, "  Ticks/second:     %g\n", sim.TicksPerSecond)
			fmt.Fprintf(out, "  Epsilon:          %g\n", sim.Epsilon)
			fmt.Fprintf(out, "  Tie break:        %s\n", sim.TieBreak)
			fmt.Fprintf(out, "  Tombstone scope:  %s\n", sim.TombstoneScope)
			fmt.Fprintf(out, "  Delivery range:   %g\n", sim.DeliveryRange)
			fmt.Fprintf(out, "  Heartbeat:        %g\n", sim.HeartbeatInterval)

			fmt.Fprintln(out, "\nJournal database:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Database.Enabled)
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			}

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)

			return nil
		},
	}
}

// newConfigSetScenarioCommand creates the config set-scenario subcommand
func newConfigSetScenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-scenario <scenario.yaml>",
		Short: "Set the scenario used when none is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := scenariofile.Load(path); err != nil {
				return err
			}

			h, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := h.SetDefaultScenario(path); err != nil {
				return fmt.Errorf("failed to set default scenario: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default scenario set to %s\n", path)
			return nil
		},
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskPassword masks passwords in connection strings for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
