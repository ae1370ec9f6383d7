package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genpare/genpare/internal/anonymize"
	"github.com/genpare/genpare/internal/filter"
	"github.com/genpare/genpare/internal/transform"
)

// FilterInfo describes one filter variant for output.
type FilterInfo struct {
	Name   string      `json:"name"`
	Fields []FieldInfo `json:"fields"`
}

// FieldInfo describes one descriptor field of a filter.
type FieldInfo struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Values []string `json:"values,omitempty"`
}

// TransformerInfo describes one result transformer for output.
type TransformerInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewFiltersCommand creates the filters command.
func NewFiltersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the filters a request may use",
		Long: `List every registered filter with the fields its descriptor needs.

Example descriptor:
  {"name": "age", "min": 30, "max": 39}`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := describeFilters(filter.DefaultRegistry())

			out := rootOpts.formatter(cmd)
			if out.IsJSON() {
				return out.Success(infos)
			}
			var rows [][]string
			for _, info := range infos {
				for _, field := range info.Fields {
					rows = append(rows, []string{info.Name, field.Name, field.Kind, strings.Join(field.Values, ", ")})
				}
			}
			out.Table([]string{"filter", "field", "kind", "values"}, rows)
			return nil
		},
	}
}

// NewTransformersCommand creates the transformers command.
func NewTransformersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "transformers",
		Short:         "List the result transformers a request may use",
		Long:          "List every registered result transformer, with the anonymization the list transformer applies.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bucketer, err := rootOpts.config().Anonymization.Bucketer()
			if err != nil {
				return WrapExitError(ExitCommandError, "anonymization", err)
			}
			infos := describeTransformers(transform.NewRegistry(bucketer), bucketer)

			out := rootOpts.formatter(cmd)
			if out.IsJSON() {
				return out.Success(infos)
			}
			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{info.Name, info.Description}
			}
			out.Table([]string{"transformer", "description"}, rows)
			return nil
		},
	}
}

func describeFilters(r *filter.Registry) []FilterInfo {
	entries := r.Entries()
	infos := make([]FilterInfo, len(entries))
	for i, e := range entries {
		fields := make([]FieldInfo, len(e.Fields))
		for j, f := range e.Fields {
			fields[j] = FieldInfo{Name: f.Name, Kind: string(f.Kind), Values: f.Values}
		}
		infos[i] = FilterInfo{Name: e.Name, Fields: fields}
	}
	return infos
}

func describeTransformers(r *transform.Registry, b anonymize.Bucketer) []TransformerInfo {
	kinds := r.Kinds()
	infos := make([]TransformerInfo, len(kinds))
	for i, kind := range kinds {
		infos[i] = TransformerInfo{Name: string(kind), Description: describeKind(kind, b)}
	}
	return infos
}

func describeKind(kind transform.Kind, b anonymize.Bucketer) string {
	switch kind {
	case transform.KindAverage:
		return "mean salary overall and per gender, rounded to whole units"
	case transform.KindList:
		return fmt.Sprintf("every matching salary with %s-bucketed age (width %d) and salary (width %d)",
			b.Rule, b.AgeWidth, b.SalaryWidth)
	default:
		return ""
	}
}
