package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genpare/genpare/internal/engine"
)

func TestCheckAssertions(t *testing.T) {
	snapshot := []byte(`{"results":[{"resultOf":"list","results":[{"age":{"min":1,"max":2}}]}]}`)

	errs := checkAssertions(snapshot, []Assertion{
		{Path: "results.0.resultOf", Equals: "list"},
		{Path: "results.0.results.#", Equals: 1},
		{Path: "results.0.results.0.age", Equals: map[string]any{"min": 1, "max": 2}},
	})
	assert.Empty(t, errs)

	errs = checkAssertions(snapshot, []Assertion{
		{Path: "results.0.resultOf", Equals: "average"},
		{Path: "results.1", Equals: nil},
	})
	require.Len(t, errs, 2)

	var ae *AssertionError
	require.ErrorAs(t, errs[0], &ae)
	assert.Equal(t, "assertion 0: results.0.resultOf: expected average, got list", ae.Error())
	require.ErrorAs(t, errs[1], &ae)
	assert.True(t, ae.Missing)
}

func TestCheckError(t *testing.T) {
	index := 2
	qe := &engine.QueryError{Code: engine.ErrCodeInvalidFilter, Component: engine.ComponentFilter, Index: 2}

	assert.NoError(t, checkError(qe, &ExpectError{Code: engine.ErrCodeInvalidFilter}))
	assert.NoError(t, checkError(qe, &ExpectError{
		Code:      engine.ErrCodeInvalidFilter,
		Component: engine.ComponentFilter,
		Index:     &index,
	}))
	assert.ErrorContains(t, checkError(qe, &ExpectError{Code: engine.ErrCodeMalformedPayload}), "expected error code")
	assert.ErrorContains(t, checkError(qe, &ExpectError{
		Code:      engine.ErrCodeInvalidFilter,
		Component: engine.ComponentTransformer,
	}), "expected component")
	assert.ErrorContains(t, checkError(errors.New("boom"), &ExpectError{Code: engine.ErrCodeInvalidFilter}), "got boom")
}
