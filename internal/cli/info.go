package cli

import (
	"github.com/spf13/cobra"

	"github.com/genpare/genpare/internal/httpapi"
)

// InfoOptions holds flags for the info command.
type InfoOptions struct {
	*RootOptions
	URL string
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InfoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "List the job titles that have salaries",
		Long: `List the distinct job titles of all stored salaries, sorted.

Reads the configured store, or a running server with --url.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "base URL of a running genpare server")

	return cmd
}

func runInfo(opts *InfoOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	var lister httpapi.JobTitleLister
	if opts.URL != "" {
		lister = httpapi.NewClient(opts.URL)
	} else {
		b, err := openBackend(ctx, opts.config())
		if err != nil {
			return WrapExitError(ExitCommandError, "open backend", err)
		}
		defer b.Close()
		lister = b.store
	}

	titles, err := lister.DistinctJobTitles(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "list job titles", err)
	}
	if titles == nil {
		titles = []string{}
	}

	out := opts.formatter(cmd)
	if out.IsJSON() {
		return out.Success(titles)
	}
	rows := make([][]string, len(titles))
	for i, title := range titles {
		rows[i] = []string{title}
	}
	out.Table([]string{"job title"}, rows)
	return nil
}
