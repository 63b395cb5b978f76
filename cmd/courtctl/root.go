package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Format string // "json" | "text"
}

var validFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "courtctl",
		Short: "Court rotation toolkit",
		Long:  "Allocate courts, draw brackets and inspect ratings from a YAML roster without a running server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newAllocateCommand(opts))
	cmd.AddCommand(newBracketCommand(opts))
	cmd.AddCommand(newRatingsCommand(opts))
	cmd.AddCommand(newHashPasswordCommand())

	return cmd
}

// print пишет data как JSON либо текст через textFn.
func (o *rootOptions) print(w io.Writer, data interface{}, textFn func(io.Writer) error) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return textFn(w)
}

// newRand returns a generator seeded with seed, or a random one for seed 0.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}
