package cli

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/genpare/genpare/internal/config"
	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/logger"
	"github.com/genpare/genpare/internal/store"
)

// RootOptions holds global flags and the loaded configuration for all
// commands.
type RootOptions struct {
	ConfigFile string
	Format     string // "json" | "text"

	// Viper collects flags, environment and config file. Config is set
	// once the root command's pre-run has loaded it.
	Viper  *viper.Viper
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the genpare CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Viper: viper.New()}

	cmd := &cobra.Command{
		Use:     "genpare",
		Version: ir.EngineVersion,
		Short:   "genpare - anonymized salary comparison",
		Long: `Query engine for anonymized salary comparisons.

Serves the salary query API, runs queries against a store, seeds stores
with fixture or fake data and runs query scenarios.

Settings come from flags, GENPARE_ environment variables (GENPARE_DB_DSN
for db.dsn) and an optional config file, in that order of precedence.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.String("log-level", zerolog.LevelInfoValue, fmt.Sprintf(
		"logging level [%s|%s|%s|%s]",
		zerolog.LevelDebugValue, zerolog.LevelInfoValue, zerolog.LevelWarnValue, zerolog.LevelErrorValue,
	))
	flags.String("log-format", logger.LogFormatTextValue, "logging format [text|json]")
	flags.String("db-driver", store.DriverSQLite, fmt.Sprintf(
		"record store driver [%s|%s|%s]", store.DriverSQLite, store.DriverMySQL, config.DriverMemory,
	))
	flags.String("db-dsn", "genpare.db", "record store data source name")
	mustBindFlags(opts.Viper, flags, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
		"db.driver":  "db-driver",
		"db.dsn":     "db-dsn",
	})

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewFiltersCommand(opts))
	cmd.AddCommand(NewTransformersCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// load validates the format, loads the configuration and sets up logging
// on the command's error stream.
func (o *RootOptions) load(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.Viper, o.ConfigFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	if err := logger.SetLogOutput(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format); err != nil {
		return WrapExitError(ExitCommandError, "set up logging", err)
	}
	o.Config = cfg
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root command.
func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		o.Config = config.NewConfig()
	}
	return o.Config
}

// settings returns the shared viper instance flags are bound to.
func (o *RootOptions) settings() *viper.Viper {
	if o.Viper == nil {
		o.Viper = viper.New()
	}
	return o.Viper
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}

// mustBindFlags binds config keys to flags. Flag names are constants, so a
// failure is a programming error.
func mustBindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
