package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chaincommand",
		Short: "Chain-of-command battle simulator",
		Long: `chaincommand runs battles between hierarchies of divisions that know
each other only through what they have seen, been told, or heard by courier.

Examples:
  chaincommand run scenarios/ridge.yaml
  chaincommand run scenarios/ridge.yaml --tps 10 --journal
  chaincommand tree scenarios/ridge.yaml --at 40
  chaincommand validate scenarios/ridge.yaml
  chaincommand runs
  chaincommand events --type COURIER_DISPATCHED
  chaincommand config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewTreeCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewRunsCommand())
	rootCmd.AddCommand(NewEventsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
