package queryir

import (
	"strings"

	"github.com/genpare/genpare/internal/ir"
)

// Query represents an abstract query in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Equals: column = literal
//   - Between: lower <= column <= upper
//   - FieldEquals: column = column (join keys)
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Column names a column qualified by its table, e.g. "salaries.job_title".
type Column string

// Table and column names of the joined salary view.
const (
	TableMember = "members"
	TableSalary = "salaries"

	MemberID        Column = "members.id"
	MemberBirthdate Column = "members.birthdate"
	MemberGender    Column = "members.gender"

	SalaryID               Column = "salaries.id"
	SalaryMemberID         Column = "salaries.member_id"
	SalaryAmount           Column = "salaries.salary"
	SalaryJobTitle         Column = "salaries.job_title"
	SalaryState            Column = "salaries.state"
	SalaryLevelOfEducation Column = "salaries.level_of_education"
)

// SalaryRecordColumns is the column order in which backends return the
// fields of an ir.SalaryRecord.
var SalaryRecordColumns = []Column{
	SalaryID,
	SalaryMemberID,
	MemberBirthdate,
	MemberGender,
	SalaryAmount,
	SalaryJobTitle,
	SalaryState,
	SalaryLevelOfEducation,
}

// Table returns the table part of a qualified column.
func (c Column) Table() string {
	table, _, ok := strings.Cut(string(c), ".")
	if !ok {
		return ""
	}
	return table
}

// Name returns the unqualified column name.
func (c Column) Name() string {
	_, name, ok := strings.Cut(string(c), ".")
	if !ok {
		return string(c)
	}
	return name
}

// Select represents table access with an optional inner join and filtering.
//
// Semantics:
//
//	SELECT <columns> FROM <from> [INNER JOIN <join.table> ON <join.on>] WHERE <filter>
//
// Example (the salary view):
//
//	Select{
//	  From:    "salaries",
//	  Join:    &Join{Table: "members", On: FieldEquals{Left: SalaryMemberID, Right: MemberID}},
//	  Columns: SalaryRecordColumns,
//	  Filter:  And{Predicates: []Predicate{
//	    Equals{Column: SalaryState, Value: ir.IRString("BERLIN")},
//	  }},
//	}
type Select struct {
	From    string    // Driving table
	Join    *Join     // Optional inner join
	Columns []Column  // Projected columns, in scan order
	Filter  Predicate // WHERE conditions (nil = no filter)
}

func (Select) queryNode() {}

// Join is an inner join of a second table onto a Select.
type Join struct {
	Table string
	On    FieldEquals
}

// SalaryView returns the query over the member ⋈ salary join filtered by p.
func SalaryView(p Predicate) Select {
	return Select{
		From: TableSalary,
		Join: &Join{
			Table: TableMember,
			On:    FieldEquals{Left: SalaryMemberID, Right: MemberID},
		},
		Columns: SalaryRecordColumns,
		Filter:  p,
	}
}

// Equals represents an equality check against a literal value.
//
// Semantics:
//
//	<column> = <value>
type Equals struct {
	Column Column
	Value  ir.IRValue
}

func (Equals) predicateNode() {}

// Between represents an inclusive range check.
//
// Semantics:
//
//	<lower> <= <column> AND <column> <= <upper>
//
// Lower and Upper must be of the same IRValue type. Lower > Upper is legal
// and matches nothing.
type Between struct {
	Column Column
	Lower  ir.IRValue
	Upper  ir.IRValue
}

func (Between) predicateNode() {}

// FieldEquals compares two columns, typically a foreign key with its target.
//
// Semantics:
//
//	<left> = <right>
type FieldEquals struct {
	Left  Column
	Right Column
}

func (FieldEquals) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
//
// Semantics:
//
//	<predicate1> AND <predicate2> AND ... AND <predicateN>
//
// An empty Predicates slice is vacuously true. Conjunction is commutative
// and associative, so the order of Predicates never changes the match set.
type And struct {
	Predicates []Predicate // All must be true (empty = always true)
}

func (And) predicateNode() {}
