// Package queryexpr compiles QueryIR predicates to expr-lang programs so
// that stores without a query language can evaluate them row by row.
//
// A compiled predicate reads columns as members.<name> and salaries.<name>
// from the row environment. Literal values are bound as parameters p0..pN,
// never spliced into the expression source.
package queryexpr

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryir"
)

// Row is the environment a predicate is evaluated against: table name to
// column name to native value (int, string, or YYYY-MM-DD string for dates).
type Row map[string]map[string]any

// Program is a compiled predicate. It is safe for concurrent use.
type Program struct {
	source  string
	params  map[string]any
	program *vm.Program
}

// Source returns the expression source the predicate compiled to.
func (p *Program) Source() string {
	return p.source
}

// Params returns the bound parameter values keyed by name.
func (p *Program) Params() map[string]any {
	out := make(map[string]any, len(p.params))
	for k, v := range p.params {
		out[k] = v
	}
	return out
}

// Compile translates a predicate to an expr program. A nil predicate or an
// empty And compiles to a program that matches every row.
func Compile(p queryir.Predicate) (*Program, error) {
	c := &compiler{params: map[string]any{}}
	source, err := c.predicate(p)
	if err != nil {
		return nil, err
	}

	program, err := expr.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", source, err)
	}

	return &Program{source: source, params: c.params, program: program}, nil
}

// Match evaluates the predicate against one row.
func (p *Program) Match(row Row) (bool, error) {
	env := make(map[string]any, len(p.params)+len(row))
	for k, v := range p.params {
		env[k] = v
	}
	for table, cols := range row {
		env[table] = cols
	}

	output, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", p.source, err)
	}

	matched, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("predicate should return boolean, got (%T) and value %+v", output, output)
	}
	return matched, nil
}

type compiler struct {
	params map[string]any
	next   int
}

// bind registers a literal and returns its parameter name.
func (c *compiler) bind(v ir.IRValue) (string, error) {
	native, err := ir.Native(v)
	if err != nil {
		return "", err
	}
	// expr arithmetic and comparisons operate on int
	if n, ok := native.(int64); ok {
		native = int(n)
	}
	name := fmt.Sprintf("p%d", c.next)
	c.next++
	c.params[name] = native
	return name, nil
}

func (c *compiler) predicate(p queryir.Predicate) (string, error) {
	switch pred := p.(type) {
	case nil:
		return "true", nil
	case queryir.Equals:
		param, err := c.bind(pred.Value)
		if err != nil {
			return "", fmt.Errorf("convert value of %s: %w", pred.Column, err)
		}
		return fmt.Sprintf("%s == %s", column(pred.Column), param), nil
	case queryir.Between:
		lower, err := c.bind(pred.Lower)
		if err != nil {
			return "", fmt.Errorf("convert lower bound of %s: %w", pred.Column, err)
		}
		upper, err := c.bind(pred.Upper)
		if err != nil {
			return "", fmt.Errorf("convert upper bound of %s: %w", pred.Column, err)
		}
		col := column(pred.Column)
		return fmt.Sprintf("(%s >= %s && %s <= %s)", col, lower, col, upper), nil
	case queryir.FieldEquals:
		return fmt.Sprintf("%s == %s", column(pred.Left), column(pred.Right)), nil
	case queryir.And:
		if len(pred.Predicates) == 0 {
			return "true", nil
		}
		parts := make([]string, 0, len(pred.Predicates))
		for _, sub := range pred.Predicates {
			part, err := c.predicate(sub)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		return "(" + strings.Join(parts, " && ") + ")", nil
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// column renders a qualified column as a member access on its table map.
func column(c queryir.Column) string {
	return c.Table() + "." + c.Name()
}

// RowOf builds the evaluation row of a member joined with its salary.
func RowOf(m ir.Member, s ir.Salary) Row {
	return Row{
		queryir.TableMember: {
			queryir.MemberID.Name():        int(m.ID),
			queryir.MemberBirthdate.Name(): ir.FormatDate(m.Birthdate),
			queryir.MemberGender.Name():    string(m.Gender),
		},
		queryir.TableSalary: {
			queryir.SalaryID.Name():               int(s.ID),
			queryir.SalaryMemberID.Name():         int(s.MemberID),
			queryir.SalaryAmount.Name():           int(s.Salary),
			queryir.SalaryJobTitle.Name():         s.JobTitle,
			queryir.SalaryState.Name():            string(s.State),
			queryir.SalaryLevelOfEducation.Name(): string(s.LevelOfEducation),
		},
	}
}
