package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/rotation-players/courts"
	"github.com/Dosada05/rotation-players/models"
	"github.com/spf13/cobra"
)

type allocateOptions struct {
	Strategy string
	Seed     uint64
	Rounds   int
}

type allocatedRound struct {
	Round  int                `json:"round"`
	Courts []models.CourtSlot `json:"courts"`
}

func newAllocateCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &allocateOptions{}

	cmd := &cobra.Command{
		Use:   "allocate <roster.yaml>",
		Short: "Seat a roster on courts",
		Long: `Allocate the roster to 2v2 courts. With --rounds > 1 every following
round is produced by rotating the previous one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllocate(rootOpts, opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", string(models.StrategyUniform), "allocation strategy (uniform|skill_balanced)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for the uniform strategy (0 = random)")
	cmd.Flags().IntVar(&opts.Rounds, "rounds", 1, "number of rounds to produce")

	return cmd
}

func runAllocate(rootOpts *rootOptions, opts *allocateOptions, path string, w io.Writer) error {
	strategy, err := models.ParseStrategy(opts.Strategy)
	if err != nil {
		return err
	}
	if opts.Rounds < 1 {
		return fmt.Errorf("--rounds must be at least 1, got %d", opts.Rounds)
	}
	roster, err := loadRoster(path)
	if err != nil {
		return err
	}
	if len(roster) < courts.PlayersPerCourt {
		return fmt.Errorf("need at least %d participants, roster has %d", courts.PlayersPerCourt, len(roster))
	}

	allocator := courts.NewAllocator(newRand(opts.Seed))
	rounds := make([]allocatedRound, 0, opts.Rounds)
	slots := allocator.Allocate(roster, strategy)
	for i := 1; i <= opts.Rounds; i++ {
		if i > 1 {
			slots = allocator.Rotate(slots, roster, strategy)
		}
		rounds = append(rounds, allocatedRound{Round: i, Courts: slots})
	}

	names := namesByID(roster)
	ratings := models.RatingsByID(roster)
	return rootOpts.print(w, rounds, func(w io.Writer) error {
		for _, r := range rounds {
			fmt.Fprintf(w, "Round %d\n", r.Round)
			for _, slot := range r.Courts {
				if slot.IsRest {
					fmt.Fprintf(w, "  Rest:     %s\n", teamNames(slot.TeamA, names))
					continue
				}
				fmt.Fprintf(w, "  Court %d:  %s  vs  %s  (balance %.2f)\n",
					slot.CourtNumber, teamNames(slot.TeamA, names), teamNames(slot.TeamB, names), courts.Balance(slot, ratings))
			}
		}
		return nil
	})
}

func teamNames(ids []int, names map[int]string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = names[id]
	}
	return strings.Join(parts, " & ")
}
