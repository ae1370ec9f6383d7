package anonymize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genpare/genpare/internal/ir"
)

func TestRuleRemainder(t *testing.T) {
	testCases := []struct {
		v, w     int64
		expected ir.IntRange
	}{
		{v: 0, w: 5, expected: ir.IntRange{Min: 0, Max: 1}},
		{v: 4, w: 5, expected: ir.IntRange{Min: 4, Max: 5}},
		{v: 5, w: 5, expected: ir.IntRange{Min: 0, Max: 1}},
		{v: 37, w: 5, expected: ir.IntRange{Min: 2, Max: 3}},
		{v: 4200, w: 500, expected: ir.IntRange{Min: 200, Max: 201}},
		{v: 4500, w: 500, expected: ir.IntRange{Min: 0, Max: 1}},
		{v: -1, w: 5, expected: ir.IntRange{Min: 4, Max: 5}},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, RuleRemainder.Bucket(tc.v, tc.w), "bucket(%d, %d)", tc.v, tc.w)
	}
}

func TestRuleWidth(t *testing.T) {
	testCases := []struct {
		v, w     int64
		expected ir.IntRange
	}{
		{v: 0, w: 5, expected: ir.IntRange{Min: 0, Max: 4}},
		{v: 4, w: 5, expected: ir.IntRange{Min: 0, Max: 4}},
		{v: 5, w: 5, expected: ir.IntRange{Min: 5, Max: 9}},
		{v: 37, w: 5, expected: ir.IntRange{Min: 35, Max: 39}},
		{v: 4200, w: 500, expected: ir.IntRange{Min: 4000, Max: 4499}},
		{v: 4500, w: 500, expected: ir.IntRange{Min: 4500, Max: 4999}},
		{v: -1, w: 5, expected: ir.IntRange{Min: -5, Max: -1}},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, RuleWidth.Bucket(tc.v, tc.w), "bucket(%d, %d)", tc.v, tc.w)
	}
}

func TestRuleWidth_ContainsValue(t *testing.T) {
	for v := int64(-50); v <= 2000; v++ {
		for _, w := range []int64{1, 5, 500} {
			r := RuleWidth.Bucket(v, w)
			require.True(t, r.Contains(v), "bucket(%d, %d) = %+v", v, w, r)
			require.Equal(t, w-1, r.Max-r.Min)
		}
	}
}

func TestParseRule(t *testing.T) {
	r, err := ParseRule("width")
	require.NoError(t, err)
	assert.Equal(t, RuleWidth, r)

	r, err = ParseRule("remainder")
	require.NoError(t, err)
	assert.Equal(t, RuleRemainder, r)

	_, err = ParseRule("Width")
	assert.Error(t, err)
}

func TestBucketer(t *testing.T) {
	b := DefaultBucketer()
	assert.Equal(t, ir.IntRange{Min: 2, Max: 3}, b.Age(37))
	assert.Equal(t, ir.IntRange{Min: 200, Max: 201}, b.Salary(4200))

	b, err := NewBucketer(RuleWidth, 10, 1000)
	require.NoError(t, err)
	assert.Equal(t, ir.IntRange{Min: 30, Max: 39}, b.Age(37))
	assert.Equal(t, ir.IntRange{Min: 4000, Max: 4999}, b.Salary(4200))

	_, err = NewBucketer(RuleWidth, 0, 500)
	assert.Error(t, err)
	_, err = NewBucketer("fuzzy", 5, 500)
	assert.Error(t, err)
}

func TestBucketer_ZeroValueUsesDefaults(t *testing.T) {
	var b Bucketer
	assert.Equal(t, ir.IntRange{Min: 2, Max: 3}, b.Age(37))
	assert.Equal(t, ir.IntRange{Min: 200, Max: 201}, b.Salary(4200))

	b = Bucketer{Rule: RuleWidth, AgeWidth: -1}
	assert.Equal(t, ir.IntRange{Min: 35, Max: 39}, b.Age(37))
	assert.Equal(t, ir.IntRange{Min: 4000, Max: 4499}, b.Salary(4200))
}
