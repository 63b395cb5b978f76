package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/Dosada05/rotation-players/models"
	"github.com/spf13/cobra"
)

func newRatingsCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ratings <roster.yaml>",
		Short: "Compute ratings and print the standings",
		Long:  "Rating = (wins - losses) + point differential / 100. Ties keep roster ID order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRatings(rootOpts, args[0], cmd.OutOrStdout())
		},
	}
}

func runRatings(rootOpts *rootOptions, path string, w io.Writer) error {
	roster, err := loadRoster(path)
	if err != nil {
		return err
	}
	slices.SortStableFunc(roster, func(a, b models.Participant) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return rootOpts.print(w, roster, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tNAME\tW\tL\tDIFF\tRATING")
		for i, p := range roster {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%+d\t%.2f\n", i+1, p.Name, p.Wins, p.Losses, p.PointDifferential(), p.Rating)
		}
		return tw.Flush()
	})
}
