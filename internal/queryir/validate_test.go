package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genpare/genpare/internal/ir"
)

func TestValidate_SalaryView(t *testing.T) {
	query := SalaryView(And{Predicates: []Predicate{
		Equals{Column: SalaryState, Value: ir.IRString("BERLIN")},
		Between{Column: SalaryAmount, Lower: ir.IRInt(1000), Upper: ir.IRInt(5000)},
		Between{
			Column: MemberBirthdate,
			Lower:  ir.NewIRDate(ir.NewDate(1980, 1, 1)),
			Upper:  ir.NewIRDate(ir.NewDate(1990, 1, 1)),
		},
	}})

	result := Validate(query)

	assert.True(t, result.Valid())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.NoError(t, result.Err())
}

func TestValidate_PointerSelect(t *testing.T) {
	query := SalaryView(nil)

	result := Validate(&query)

	assert.True(t, result.Valid())
}

func TestValidate_NilQuery(t *testing.T) {
	result := Validate(nil)

	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "nil query")
	assert.Error(t, result.Err())
}

func TestValidate_UnknownColumn(t *testing.T) {
	query := SalaryView(Equals{Column: "salaries.bonus", Value: ir.IRInt(1)})

	result := Validate(query)

	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "salaries.bonus")
}

func TestValidate_NilPredicateInsideAnd(t *testing.T) {
	query := SalaryView(And{Predicates: []Predicate{nil}})

	result := Validate(query)

	assert.False(t, result.Valid())
	assert.Contains(t, result.Errors, "nil predicate")
}

func TestValidate_MixedBetweenTypes(t *testing.T) {
	query := SalaryView(Between{Column: SalaryAmount, Lower: ir.IRInt(1), Upper: ir.IRString("2")})

	result := Validate(query)

	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "mixes")
}

func TestValidate_InvertedRangeIsWarning(t *testing.T) {
	testCases := []struct {
		name string
		pred Between
	}{
		{
			name: "int",
			pred: Between{Column: SalaryAmount, Lower: ir.IRInt(10), Upper: ir.IRInt(5)},
		},
		{
			name: "date",
			pred: Between{
				Column: MemberBirthdate,
				Lower:  ir.NewIRDate(ir.NewDate(2000, 1, 2)),
				Upper:  ir.NewIRDate(ir.NewDate(2000, 1, 1)),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Validate(SalaryView(tc.pred))

			assert.True(t, result.Valid(), "inverted ranges execute, they just match nothing")
			require.Len(t, result.Warnings, 1)
			assert.Contains(t, result.Warnings[0], "empty")
		})
	}
}

func TestValidate_SelectWithoutColumns(t *testing.T) {
	result := Validate(Select{From: TableSalary})

	assert.False(t, result.Valid())
	assert.Contains(t, result.Errors, "select without columns")
}
