package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/genpare/genpare/internal/engine"
	"github.com/genpare/genpare/internal/httpapi"
	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/transform"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	URL  string // query a running server instead of the store
	Seed string // fixture to load before querying
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <request.json|->",
		Short: "Run a salary query",
		Long: `Run one query request and print its results.

The request body is read from the given file, or from stdin for "-".
By default the query runs against the configured store; with --url it is
posted to a running server instead.

Exit codes:
  0 - Query served
  1 - Query rejected
  2 - Command error (unreadable file, store unavailable, etc.)

Examples:
  genpare query request.json
  echo '{"filters":[{"name":"state","desiredState":"BERLIN"}],"resultTransformers":[{"name":"average"}]}' | genpare query -
  genpare query request.json --url http://localhost:8080 --format json
  genpare query request.json --db-driver memory --seed members.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "base URL of a running genpare server")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "fixture file to load into the store first")

	return cmd
}

func runQuery(opts *QueryOptions, source string, cmd *cobra.Command) error {
	body, err := readBody(source, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "read request", err)
	}

	ctx := cmd.Context()
	var resp transform.Response
	if opts.URL != "" {
		if opts.Seed != "" {
			return NewExitError(ExitCommandError, "--seed cannot be combined with --url")
		}
		resp, err = httpapi.NewClient(opts.URL).Query(ctx, body)
	} else {
		b, openErr := openBackend(ctx, opts.config())
		if openErr != nil {
			return WrapExitError(ExitCommandError, "open backend", openErr)
		}
		defer b.Close()

		if _, seedErr := b.seed(ctx, opts.Seed); seedErr != nil {
			return WrapExitError(ExitCommandError, "seed store", seedErr)
		}
		resp, err = b.engine.Run(ctx, body)
	}

	out := opts.formatter(cmd)
	if err != nil {
		return reportQueryError(out, err)
	}

	if out.IsJSON() {
		return out.Success(resp)
	}
	renderResponse(out, resp)
	return nil
}

func readBody(source string, stdin io.Reader) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(source)
}

// reportQueryError prints a rejected query and maps it to an exit code.
// Errors that are not query errors (the server could not be reached) are
// command errors.
func reportQueryError(out *OutputFormatter, err error) error {
	var qe *engine.QueryError
	if !errors.As(err, &qe) {
		return WrapExitError(ExitCommandError, "query failed", err)
	}

	details := map[string]any{"component": qe.Component}
	if qe.Index >= 0 {
		details["index"] = qe.Index
	}
	if outErr := out.Error(string(qe.Code), qe.Message, details); outErr != nil {
		return outErr
	}

	if qe.Code == engine.ErrCodeStoreFailure {
		return WrapExitError(ExitCommandError, "query failed", err)
	}
	return WrapExitError(ExitFailure, "query rejected", err)
}

// renderResponse prints each result as a table.
func renderResponse(out *OutputFormatter, resp transform.Response) {
	for i, result := range resp.Results {
		if i > 0 {
			fmt.Fprintln(out.Writer)
		}
		fmt.Fprintf(out.Writer, "Result %d: %s\n", i+1, result.ResultOf())

		switch r := result.(type) {
		case transform.AverageResult:
			out.Table([]string{"partition", "average salary"}, [][]string{
				{"total", formatAverage(r.AverageTotal)},
				{"male", formatAverage(r.AverageMale)},
				{"female", formatAverage(r.AverageFemale)},
				{"diverse", formatAverage(r.AverageDiverse)},
			})
		case transform.ListResult:
			rows := make([][]string, len(r.Results))
			for j, s := range r.Results {
				rows[j] = []string{
					formatRange(s.Age),
					formatRange(s.Salary),
					string(s.Gender),
					s.JobTitle,
					string(s.State),
					string(s.LevelOfEducation),
				}
			}
			out.Table([]string{"age", "salary", "gender", "job title", "state", "education"}, rows)
			fmt.Fprintf(out.Writer, "%d salaries\n", len(rows))
		}
	}
}

func formatAverage(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func formatRange(r ir.IntRange) string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}
