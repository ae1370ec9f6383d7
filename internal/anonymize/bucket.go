// Package anonymize turns exact ages and salaries into ranges before they
// leave the system.
package anonymize

import (
	"fmt"

	"github.com/genpare/genpare/internal/ir"
)

// Rule selects how a value is mapped to its bucket.
type Rule string

const (
	// RuleRemainder maps v to [v mod w, v mod w + 1]. This is the range the
	// published API has always returned; clients may depend on it.
	RuleRemainder Rule = "remainder"

	// RuleWidth maps v to the width-w bucket containing it:
	// [⌊v/w⌋·w, ⌊v/w⌋·w + w − 1].
	RuleWidth Rule = "width"
)

// Default bucket widths.
const (
	AgeWidth    int64 = 5
	SalaryWidth int64 = 500
)

// ParseRule returns the Rule named s.
func ParseRule(s string) (Rule, error) {
	switch Rule(s) {
	case RuleRemainder, RuleWidth:
		return Rule(s), nil
	default:
		return "", fmt.Errorf("unknown bucketing rule %q", s)
	}
}

// Bucket returns the range of v under rule r with width w. Width must be
// positive. Negative values are bucketed by floor division, so every bucket
// still has w members.
func (r Rule) Bucket(v, w int64) ir.IntRange {
	switch r {
	case RuleWidth:
		lower := floorDiv(v, w) * w
		return ir.IntRange{Min: lower, Max: lower + w - 1}
	default:
		rem := v - floorDiv(v, w)*w
		return ir.IntRange{Min: rem, Max: rem + 1}
	}
}

// Bucketer applies one rule with fixed widths for age and salary.
//
// The zero value is usable: an empty rule buckets like RuleRemainder and a
// width ≤ 0 falls back to AgeWidth or SalaryWidth.
type Bucketer struct {
	Rule        Rule
	AgeWidth    int64
	SalaryWidth int64
}

// NewBucketer validates the widths and returns a Bucketer.
func NewBucketer(rule Rule, ageWidth, salaryWidth int64) (Bucketer, error) {
	if _, err := ParseRule(string(rule)); err != nil {
		return Bucketer{}, err
	}
	if ageWidth <= 0 || salaryWidth <= 0 {
		return Bucketer{}, fmt.Errorf("bucket widths must be positive, got age=%d salary=%d", ageWidth, salaryWidth)
	}
	return Bucketer{Rule: rule, AgeWidth: ageWidth, SalaryWidth: salaryWidth}, nil
}

// DefaultBucketer uses RuleRemainder with the default widths.
func DefaultBucketer() Bucketer {
	return Bucketer{Rule: RuleRemainder, AgeWidth: AgeWidth, SalaryWidth: SalaryWidth}
}

// Age buckets an age in years.
func (b Bucketer) Age(age int64) ir.IntRange {
	return b.Rule.Bucket(age, widthOr(b.AgeWidth, AgeWidth))
}

// Salary buckets a salary.
func (b Bucketer) Salary(salary int64) ir.IntRange {
	return b.Rule.Bucket(salary, widthOr(b.SalaryWidth, SalaryWidth))
}

func widthOr(w, fallback int64) int64 {
	if w <= 0 {
		return fallback
	}
	return w
}

func floorDiv(v, w int64) int64 {
	q := v / w
	if (v%w != 0) && ((v < 0) != (w < 0)) {
		q--
	}
	return q
}
