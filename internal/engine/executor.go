package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/genpare/genpare/internal/filter"
	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryir"
)

// SalaryReader reads the member ⋈ salary view.
//
// Implementations must evaluate the whole select inside one read
// transaction, so every row comes from the same snapshot. Row order is not
// significant.
type SalaryReader interface {
	ReadSalaries(ctx context.Context, q queryir.Select) ([]ir.SalaryRecord, error)
}

// Fetch compiles filters against now, runs the query and projects every
// matching record to an IntermediateResult.
//
// filters must be non-empty.
func (e *Engine) Fetch(ctx context.Context, filters []filter.Filter, now time.Time) ([]ir.IntermediateResult, error) {
	pred, err := filter.Compile(filters, now)
	if err != nil {
		return nil, newEmptyError(ErrCodeEmptyFilterList, ComponentFilter, err.Error())
	}

	query := queryir.SalaryView(pred)
	if err := queryir.Validate(query).Err(); err != nil {
		// Filters only produce known columns and typed values.
		return nil, fmt.Errorf("compile filters: %w", err)
	}

	log.Ctx(ctx).Debug().
		Int("Filters", len(filters)).
		Str("Today", ir.FormatDate(ir.Today(now))).
		Msg("reading salaries")

	records, err := e.store.ReadSalaries(ctx, query)
	if err != nil {
		return nil, newStoreError(err)
	}

	return project(records, ir.Today(now)), nil
}

// project turns store records into transformer input. Exact birthdates do
// not survive this step.
func project(records []ir.SalaryRecord, today time.Time) []ir.IntermediateResult {
	rows := make([]ir.IntermediateResult, len(records))
	for i, rec := range records {
		rows[i] = ir.IntermediateResult{
			Age:              ir.AgeAt(rec.Birthdate, today),
			Salary:           rec.Salary,
			Gender:           rec.Gender,
			JobTitle:         rec.JobTitle,
			State:            rec.State,
			LevelOfEducation: rec.LevelOfEducation,
		}
	}
	return rows
}
