// Package transform turns the rows matched by a query into the results a
// client asked for.
//
// Transformers are pure functions keyed by a Kind. They read the shared
// row snapshot and never modify it. No transformer emits an exact age or
// salary: averages aggregate, lists bucket.
package transform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/genpare/genpare/internal/anonymize"
	"github.com/genpare/genpare/internal/ir"
)

// Kind names a transformer on the wire.
type Kind string

const (
	KindAverage Kind = "average"
	KindList    Kind = "list"
)

// Func computes one result from the matched rows.
type Func func(rows []ir.IntermediateResult) Result

// Decode errors.
var (
	ErrNotObject   = errors.New("transformer descriptor is not a JSON object")
	ErrMissingName = errors.New("missing field name")
	ErrUnknownName = errors.New("unknown transformer name")
)

// Registry maps transformer kinds to their functions. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	funcs map[Kind]Func
}

// NewRegistry returns the registry of the built-in transformers, bucketing
// list output with b.
func NewRegistry(b anonymize.Bucketer) *Registry {
	return &Registry{funcs: map[Kind]Func{
		KindAverage: Average,
		KindList:    List(b),
	}}
}

// Decode resolves a transformer descriptor to its kind. Only the name field
// is read.
func (r *Registry) Decode(obj gjson.Result) (Kind, error) {
	if !obj.IsObject() {
		return "", ErrNotObject
	}
	name := obj.Get("name")
	if !name.Exists() {
		return "", ErrMissingName
	}
	if name.Type != gjson.String {
		return "", fmt.Errorf("%w: name must be a string, got %s", ErrUnknownName, name.Type)
	}
	kind := Kind(name.Str)
	if _, ok := r.funcs[kind]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownName, name.Str)
	}
	return kind, nil
}

// Apply runs each requested transformer over rows, keeping the requested
// order. Every kind must have been obtained from Decode.
func (r *Registry) Apply(rows []ir.IntermediateResult, kinds []Kind) (Response, error) {
	resp := Response{Results: make([]Result, 0, len(kinds))}
	for _, kind := range kinds {
		fn, ok := r.funcs[kind]
		if !ok {
			return Response{}, fmt.Errorf("%w %q", ErrUnknownName, kind)
		}
		resp.Results = append(resp.Results, fn(rows))
	}
	return resp, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.funcs))
	for k := range r.funcs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Average computes the mean salary over all rows and per gender.
// Means are exact and rounded to the nearest integer, halves away from zero.
func Average(rows []ir.IntermediateResult) Result {
	var total, male, female, diverse mean
	for _, row := range rows {
		total.add(row.Salary)
		switch row.Gender {
		case ir.GenderMale:
			male.add(row.Salary)
		case ir.GenderFemale:
			female.add(row.Salary)
		case ir.GenderDiverse:
			diverse.add(row.Salary)
		}
	}
	return AverageResult{
		AverageTotal:   total.value(),
		AverageMale:    male.value(),
		AverageFemale:  female.value(),
		AverageDiverse: diverse.value(),
	}
}

type mean struct {
	sum   decimal.Decimal
	count int64
}

func (m *mean) add(v int64) {
	m.sum = m.sum.Add(decimal.NewFromInt(v))
	m.count++
}

// value returns nil for an empty partition.
func (m mean) value() *int64 {
	if m.count == 0 {
		return nil
	}
	avg := m.sum.Div(decimal.NewFromInt(m.count)).Round(0).IntPart()
	return &avg
}

// List returns the transformer that anonymizes every row with b, one
// output row per input row in input order.
func List(b anonymize.Bucketer) Func {
	return func(rows []ir.IntermediateResult) Result {
		out := make([]AnonymizedSalary, len(rows))
		for i, row := range rows {
			out[i] = AnonymizedSalary{
				Age:              b.Age(row.Age),
				Salary:           b.Salary(row.Salary),
				Gender:           row.Gender,
				JobTitle:         row.JobTitle,
				State:            row.State,
				LevelOfEducation: row.LevelOfEducation,
			}
		}
		return ListResult{Results: out}
	}
}
