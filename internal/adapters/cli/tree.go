package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
)

// NewTreeCommand creates the tree command
func NewTreeCommand() *cobra.Command {
	var (
		at        int
		withEmoji bool
	)

	cmd := &cobra.Command{
		Use:   "tree <scenario.yaml>",
		Short: "Show the command tree of a scenario",
		Long: `Play a scenario up to a tick, without pacing or journaling, and print
the live command tree at that point.

Examples:
  chaincommand tree scenarios/ridge.yaml
  chaincommand tree scenarios/ridge.yaml --at 60 --emoji`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scenarioArg(args)
			if err != nil {
				return err
			}
			ctx, s, err := openSession(cmd.Context(), path, sessionOptions{})
			if err != nil {
				return err
			}
			defer s.close()

			if at >= 0 && at < s.scenario.Ticks {
				s.scenario.Ticks = at
			}
			if _, err := runQuietly(ctx, s); err != nil {
				return err
			}

			resp, err := s.mediator.Send(ctx, &types.CommandTreeQuery{})
			if err != nil {
				return err
			}
			tree := resp.(*types.CommandTreeResponse)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s after %d ticks (%s)\n\n", s.scenario.Name, tree.Tick, tree.Now)
			fmt.Fprint(out, NewTreeFormatter(false, withEmoji).FormatForest(tree.Roots))
			return nil
		},
	}

	cmd.Flags().IntVar(&at, "at", -1, "Tick to stop at (default: end of the scenario)")
	cmd.Flags().BoolVar(&withEmoji, "emoji", false, "Use emoji in the tree")

	return cmd
}
