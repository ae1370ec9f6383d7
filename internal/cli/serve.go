package cli

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/genpare/genpare/internal/httpapi"
)

// shutdownGrace is how long in-flight requests may run after a stop signal.
const shutdownGrace = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Seed string // fixture to load before serving
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the salary query API",
		Long: `Serve the salary query API over HTTP until interrupted.

Routes:
  POST /salary       run a query
  GET  /salary/info  list job titles

Examples:
  genpare serve --listen :8080 --db-dsn genpare.db
  genpare serve --db-driver memory --seed members.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().String("listen", ":8080", "address to listen on")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "fixture file to load into the store first")
	mustBindFlags(rootOpts.settings(), cmd.Flags(), map[string]string{"http.listen": "listen"})

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.config()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "open backend", err)
	}
	defer b.Close()

	if _, err := b.seed(ctx, opts.Seed); err != nil {
		return WrapExitError(ExitCommandError, "seed store", err)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Listen,
		Handler:      httpapi.NewHandler(b.engine, b.store, log.Logger),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	log.Ctx(ctx).Info().
		Str("Driver", cfg.DB.Driver).
		Str("Bucketing", string(cfg.Anonymization.Bucketing)).
		Msg("starting server")

	if err := httpapi.Serve(ctx, srv, shutdownGrace); err != nil {
		return WrapExitError(ExitCommandError, "serve", err)
	}
	return nil
}
