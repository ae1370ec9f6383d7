package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"

	"github.com/genpare/genpare/internal/engine"
)

// AssertionError describes an assertion that did not hold.
type AssertionError struct {
	Index    int
	Path     string
	Expected any
	Actual   any
	Missing  bool
}

func (e *AssertionError) Error() string {
	if e.Missing {
		return fmt.Sprintf("assertion %d: path %q not found in snapshot", e.Index, e.Path)
	}
	return fmt.Sprintf("assertion %d: %s: expected %v, got %v", e.Index, e.Path, e.Expected, e.Actual)
}

// checkAssertions evaluates every assertion against the snapshot.
//
// Both sides are normalized through JSON so that YAML integers compare
// equal to JSON numbers and YAML mappings to JSON objects.
func checkAssertions(snapshot []byte, assertions []Assertion) []error {
	var errs []error
	for i, a := range assertions {
		value := gjson.GetBytes(snapshot, a.Path)
		if !value.Exists() {
			errs = append(errs, &AssertionError{Index: i, Path: a.Path, Missing: true})
			continue
		}

		expected, err := normalize(a.Equals)
		if err != nil {
			errs = append(errs, fmt.Errorf("assertion %d: %w", i, err))
			continue
		}
		actual := value.Value()
		if !reflect.DeepEqual(expected, actual) {
			errs = append(errs, &AssertionError{Index: i, Path: a.Path, Expected: expected, Actual: actual})
		}
	}
	return errs
}

// checkError compares a rejected request with the expected error.
func checkError(err error, want *ExpectError) error {
	var qe *engine.QueryError
	if !errors.As(err, &qe) {
		return fmt.Errorf("expected %s, got %v", want.Code, err)
	}
	if qe.Code != want.Code {
		return fmt.Errorf("expected error code %s, got %s (%s)", want.Code, qe.Code, qe.Message)
	}
	if want.Component != "" && qe.Component != want.Component {
		return fmt.Errorf("expected component %s, got %s", want.Component, qe.Component)
	}
	if want.Index != nil && qe.Index != *want.Index {
		return fmt.Errorf("expected index %d, got %d", *want.Index, qe.Index)
	}
	return nil
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode expected value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode expected value: %w", err)
	}
	return out, nil
}
