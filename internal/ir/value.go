package ir

import (
	"fmt"
	"time"
)

// IRValue is a sealed interface representing the literal values a predicate
// may compare a column against.
// Only IRString, IRInt and IRDate implement this.
// NO IRFloat - salaries and ages are whole numbers.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRString represents a string value in the IR.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value in the IR.
// Always int64, never float64.
type IRInt int64

func (IRInt) irValue() {}

// IRDate represents a civil date in the IR.
// The wrapped time is always UTC midnight; see NewDate.
type IRDate struct {
	Time time.Time
}

func (IRDate) irValue() {}

// String returns the date as YYYY-MM-DD, which is also its storage form.
func (d IRDate) String() string {
	return FormatDate(d.Time)
}

// NewIRString creates an IRString value.
func NewIRString(s string) IRString {
	return IRString(s)
}

// NewIRInt creates an IRInt value.
func NewIRInt(n int64) IRInt {
	return IRInt(n)
}

// NewIRDate creates an IRDate value truncated to its civil date.
func NewIRDate(t time.Time) IRDate {
	return IRDate{Time: NewDate(t.Year(), t.Month(), t.Day())}
}

// Native converts an IRValue to the Go value drivers and evaluators expect:
// string for IRString, int64 for IRInt and a YYYY-MM-DD string for IRDate.
// Dates are compared as ISO strings, which orders them chronologically.
func Native(v IRValue) (any, error) {
	switch val := v.(type) {
	case IRString:
		return string(val), nil
	case IRInt:
		return int64(val), nil
	case IRDate:
		return val.String(), nil
	default:
		return nil, fmt.Errorf("unsupported IRValue type: %T", v)
	}
}
