package queryir

import (
	"fmt"
	"strings"

	"github.com/genpare/genpare/internal/ir"
)

// ValidationResult contains the structural analysis of a query.
//
// Errors make a query unexecutable. Warnings flag queries that execute fine
// but can never match a row, such as an inverted range.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the query has no errors.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the errors as a single error, or nil if the query is valid.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("invalid query: %s", strings.Join(r.Errors, "; "))
}

// knownColumns are the columns of the salary view.
var knownColumns = map[Column]bool{
	MemberID:               true,
	MemberBirthdate:        true,
	MemberGender:           true,
	SalaryID:               true,
	SalaryMemberID:         true,
	SalaryAmount:           true,
	SalaryJobTitle:         true,
	SalaryState:            true,
	SalaryLevelOfEducation: true,
}

// Validate checks a query against the fragment rules:
//  1. Every column is a known column of the salary view
//  2. Every predicate and value is non-nil
//  3. Between bounds share one value type
//  4. Columns are listed explicitly
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{}
	v.validateQuery(query)
	return ValidationResult{Errors: v.errors, Warnings: v.warnings}
}

// validator accumulates problems during traversal.
type validator struct {
	errors   []string
	warnings []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addError("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addError("nil query")
			return
		}
		v.validateSelect(*query)
	default:
		v.addError("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From == "" {
		v.addError("select without table")
	}
	if len(sel.Columns) == 0 {
		v.addError("select without columns")
	}
	for _, c := range sel.Columns {
		v.validateColumn(c)
	}
	if sel.Join != nil {
		if sel.Join.Table == "" {
			v.addError("join without table")
		}
		v.validatePredicate(sel.Join.On)
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validateColumn(c Column) {
	if !knownColumns[c] {
		v.addError("unknown column %q", c)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		v.addError("nil predicate")
	case Equals:
		v.validateColumn(pred.Column)
		if pred.Value == nil {
			v.addError("column %q compared to nil value", pred.Column)
		}
	case Between:
		v.validateBetween(pred)
	case FieldEquals:
		v.validateColumn(pred.Left)
		v.validateColumn(pred.Right)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	default:
		v.addError("unknown predicate type: %T", p)
	}
}

func (v *validator) validateBetween(b Between) {
	v.validateColumn(b.Column)
	if b.Lower == nil || b.Upper == nil {
		v.addError("range on %q with nil bound", b.Column)
		return
	}

	switch lower := b.Lower.(type) {
	case ir.IRInt:
		upper, ok := b.Upper.(ir.IRInt)
		if !ok {
			v.addError("range on %q mixes %T and %T", b.Column, b.Lower, b.Upper)
			return
		}
		if lower > upper {
			v.addWarning("range on %q is empty (%d > %d)", b.Column, lower, upper)
		}
	case ir.IRDate:
		upper, ok := b.Upper.(ir.IRDate)
		if !ok {
			v.addError("range on %q mixes %T and %T", b.Column, b.Lower, b.Upper)
			return
		}
		if lower.Time.After(upper.Time) {
			v.addWarning("range on %q is empty (%s > %s)", b.Column, lower, upper)
		}
	case ir.IRString:
		upper, ok := b.Upper.(ir.IRString)
		if !ok {
			v.addError("range on %q mixes %T and %T", b.Column, b.Lower, b.Upper)
			return
		}
		if lower > upper {
			v.addWarning("range on %q is empty (%q > %q)", b.Column, lower, upper)
		}
	default:
		v.addError("range on %q with unsupported bound type %T", b.Column, b.Lower)
	}
}
