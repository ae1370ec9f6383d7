// Package queryir provides the abstract query intermediate representation
// (IR) for genpare's salary queries.
//
// QueryIR is the abstraction boundary between the typed filters a client
// sends and the backends that evaluate them:
//
//	[filters] → [Query IR] → [SQL backend]        (internal/querysql)
//	                       → [expression backend] (internal/queryexpr)
//
// Keeping predicates as data lets the predicate compiler be tested without
// a live store, and lets the same predicate run against SQLite, MySQL or the
// in-memory store without change.
//
// FRAGMENT:
//
// The IR covers exactly what salary queries need:
//   - Select(from, join, columns, filter) - one table, optionally inner-joined to a second
//   - Predicates: Equals, Between (inclusive), FieldEquals (column = column), And
//   - Explicit columns (no SELECT *)
//
// The IR deliberately EXCLUDES:
//   - OR predicates and grouping (filters are always conjunctive)
//   - Outer joins (a salary without a member never participates)
//   - Aggregations (averages are computed by result transformers, not the store)
//   - NULL comparisons
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed interfaces using the marker method pattern.
// Only types in this package can implement them, which keeps type switches
// in the backends exhaustive:
//
//	switch p := pred.(type) {
//	case Equals:
//	    // column = ?
//	case Between:
//	    // column BETWEEN ? AND ?
//	case FieldEquals:
//	    // left = right
//	case And:
//	    // p1 AND p2 AND ...
//	}
//
// All literal values in predicates are ir.IRValue types, so backends always
// bind them as parameters and never interpolate them.
package queryir
