package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Dosada05/rotation-players/brackets"
	"github.com/spf13/cobra"
)

type bracketOptions struct {
	Seed uint64
	IDs  []int
}

func newBracketCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &bracketOptions{}

	cmd := &cobra.Command{
		Use:   "bracket <roster.yaml>",
		Short: "Draw a single-elimination bracket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBracket(cmd.Context(), rootOpts, opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for the draw (0 = random)")
	cmd.Flags().IntSliceVar(&opts.IDs, "ids", nil, "participant IDs to draw (default: whole roster)")

	return cmd
}

func runBracket(ctx context.Context, rootOpts *rootOptions, opts *bracketOptions, path string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	roster, err := loadRoster(path)
	if err != nil {
		return err
	}
	names := namesByID(roster)

	ids := opts.IDs
	if len(ids) == 0 {
		for _, p := range roster {
			ids = append(ids, p.ID)
		}
	}
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			return fmt.Errorf("participant %d is not in the roster", id)
		}
	}

	bracket, err := brackets.NewSingleEliminationGenerator(newRand(opts.Seed)).Build(ctx, ids)
	if err != nil {
		return err
	}

	return rootOpts.print(w, bracket, func(w io.Writer) error {
		for _, round := range bracket.Rounds {
			fmt.Fprintf(w, "%s (%s)\n", round.Name, round.Status)
			for _, id := range round.MatchIDs {
				m, _ := bracket.Match(id)
				switch {
				case m.IsBye:
					fmt.Fprintf(w, "  #%d  %s  (bye)\n", m.ID, slotName(m.Winner, names))
				default:
					fmt.Fprintf(w, "  #%d  %s  vs  %s\n", m.ID, slotName(m.Player1, names), slotName(m.Player2, names))
				}
			}
		}
		return nil
	})
}

func slotName(id *int, names map[int]string) string {
	if id == nil {
		return "TBD"
	}
	return names[*id]
}
