package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/genpare/genpare/internal/config"
	"github.com/genpare/genpare/internal/fixture"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Fake     int    // number of synthetic members to generate
	RandSeed uint64 // seed of the synthetic data generator
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed [fixture-file]",
		Short: "Write members and salaries into the store",
		Long: `Write members and salaries into the configured store.

Records come either from a fixture file (yaml, json or toml) or, with
--fake, from a deterministic generator. Records already written stay
written when a later record fails.

Examples:
  genpare seed members.yaml
  genpare seed --fake 500 --rand-seed 7 --db-dsn demo.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Fake, "fake", 0, "generate this many synthetic members instead of reading a file")
	cmd.Flags().Uint64Var(&opts.RandSeed, "rand-seed", 1, "seed for --fake")

	return cmd
}

func runSeed(opts *SeedOptions, args []string, cmd *cobra.Command) error {
	var f *fixture.File
	switch {
	case len(args) == 1 && opts.Fake > 0:
		return NewExitError(ExitCommandError, "give either a fixture file or --fake, not both")
	case len(args) == 1:
		loaded, err := fixture.Load(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "load fixture", err)
		}
		f = loaded
	case opts.Fake > 0:
		f = fixture.Fake(opts.Fake, opts.RandSeed, time.Now())
	default:
		return NewExitError(ExitCommandError, "nothing to seed: give a fixture file or --fake N")
	}

	ctx := cmd.Context()
	cfg := opts.config()
	if cfg.DB.Driver == config.DriverMemory {
		log.Ctx(ctx).Warn().Msg("seeding the in-memory store; records are lost when the command exits")
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "open backend", err)
	}
	defer b.Close()

	stats, err := fixture.Apply(ctx, b.store, f)
	if err != nil {
		return WrapExitError(ExitFailure,
			fmt.Sprintf("seed stopped after %d members", stats.Members), err)
	}

	out := opts.formatter(cmd)
	if out.IsJSON() {
		return out.Success(stats)
	}
	return out.Success(fmt.Sprintf("Seeded %d members, %d salaries", stats.Members, stats.Salaries))
}
