package querysql

import (
	"fmt"

	"github.com/huandu/go-sqlbuilder"

	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryir"
)

// SQLCompiler compiles QueryIR to parameterized SQL.
//
// The SQL dialect is chosen by the sqlbuilder flavor: SQLite and MySQL both
// use ? placeholders, so compiled statements run unchanged on either driver.
//
// All values are parameterized, never interpolated. Every statement ends with
// an ORDER BY on the driving table's id so results are reproducible.
type SQLCompiler struct {
	Flavor sqlbuilder.Flavor
}

// NewSQLCompiler creates a new SQLCompiler for the given flavor.
func NewSQLCompiler(flavor sqlbuilder.Flavor) *SQLCompiler {
	return &SQLCompiler{Flavor: flavor}
}

// FlavorFor returns the sqlbuilder flavor for a database/sql driver name.
func FlavorFor(driver string) (sqlbuilder.Flavor, error) {
	switch driver {
	case "sqlite3":
		return sqlbuilder.SQLite, nil
	case "mysql":
		return sqlbuilder.MySQL, nil
	default:
		return 0, fmt.Errorf("no SQL flavor for driver %q", driver)
	}
}

// Compile converts a QueryIR query to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	switch query := q.(type) {
	case nil:
		return "", nil, fmt.Errorf("cannot compile nil query")
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// compileSelect compiles a queryir.Select to SQL.
func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	if len(q.Columns) == 0 {
		return "", nil, fmt.Errorf("select on %s without columns", q.From)
	}

	columns := make([]string, len(q.Columns))
	for i, col := range q.Columns {
		columns[i] = string(col)
	}

	sb := c.Flavor.NewSelectBuilder()
	sb.Select(columns...).From(q.From)

	if q.Join != nil {
		sb.JoinWithOption(sqlbuilder.InnerJoin, q.Join.Table, compileFieldEquals(q.Join.On))
	}

	if q.Filter != nil {
		where, err := c.compilePredicate(sb, q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		sb.Where(where)
	}

	sb.OrderBy(q.From + ".id").Asc()

	sql, params := sb.Build()
	return sql, params, nil
}

// compilePredicate compiles a queryir.Predicate to a WHERE clause fragment,
// registering its parameters with sb.
func (c *SQLCompiler) compilePredicate(sb *sqlbuilder.SelectBuilder, p queryir.Predicate) (string, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil // Always true
	case queryir.Equals:
		param, err := ir.Native(pred.Value)
		if err != nil {
			return "", fmt.Errorf("convert value of %s: %w", pred.Column, err)
		}
		return sb.Equal(string(pred.Column), param), nil
	case queryir.Between:
		lower, err := ir.Native(pred.Lower)
		if err != nil {
			return "", fmt.Errorf("convert lower bound of %s: %w", pred.Column, err)
		}
		upper, err := ir.Native(pred.Upper)
		if err != nil {
			return "", fmt.Errorf("convert upper bound of %s: %w", pred.Column, err)
		}
		return sb.Between(string(pred.Column), lower, upper), nil
	case queryir.FieldEquals:
		return compileFieldEquals(pred), nil
	case queryir.And:
		return c.compileAnd(sb, pred)
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileAnd compiles an And predicate to a parenthesized conjunction.
func (c *SQLCompiler) compileAnd(sb *sqlbuilder.SelectBuilder, and queryir.And) (string, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil // Always true (vacuous truth)
	}

	parts := make([]string, 0, len(and.Predicates))
	for _, pred := range and.Predicates {
		part, err := c.compilePredicate(sb, pred)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}

	return sb.And(parts...), nil
}

// compileFieldEquals compiles a column comparison. Column names come from
// queryir constants, never from client input.
func compileFieldEquals(fe queryir.FieldEquals) string {
	return fmt.Sprintf("%s = %s", fe.Left, fe.Right)
}
