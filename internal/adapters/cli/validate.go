package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/chaincommand-go/internal/application/scenario"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check a scenario file",
		Long: `Parse a scenario, validate every field and reference, and build it in
a scratch world without running any tick.

Example:
  chaincommand validate scenarios/ridge.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openSession(cmd.Context(), args[0], sessionOptions{})
			if err != nil {
				return err
			}
			defer s.close()

			scn := s.scenario
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d divisions, %d scripted events, %d ticks\n",
				scn.Name, len(s.world.Divisions()), len(scn.Script), scn.Ticks)
			return nil
		},
	}
}

// runQuietly plays the session's scenario without pacing or output
func runQuietly(ctx context.Context, s *session) (*scenario.Summary, error) {
	return scenario.NewRunner(s.mediator, s.scenario, s.roster).Run(ctx)
}
