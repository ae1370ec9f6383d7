package request

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	d, err := NewDecoder()
	require.NoError(t, err)

	env, err := d.Decode([]byte(`{
		"filters": [{"name":"state","desiredState":"BERLIN"}, {"name":"age","min":1,"max":2}],
		"resultTransformers": [{"name":"average"}]
	}`))
	require.NoError(t, err)

	require.Len(t, env.Filters, 2)
	assert.Equal(t, "state", env.Filters[0].Get("name").String())
	assert.Equal(t, "age", env.Filters[1].Get("name").String())
	require.Len(t, env.ResultTransformers, 1)
	assert.Equal(t, "average", env.ResultTransformers[0].Get("name").String())
}

func TestDecode_EmptyListsAreWellFormed(t *testing.T) {
	d, err := NewDecoder()
	require.NoError(t, err)

	env, err := d.Decode([]byte(`{"filters":[],"resultTransformers":[]}`))
	require.NoError(t, err)
	assert.Empty(t, env.Filters)
	assert.Empty(t, env.ResultTransformers)
}

func TestDecode_EntriesAreNotChecked(t *testing.T) {
	d, err := NewDecoder()
	require.NoError(t, err)

	env, err := d.Decode([]byte(`{"filters":[1,"x",{}],"resultTransformers":[null]}`))
	require.NoError(t, err)
	assert.Len(t, env.Filters, 3)
	assert.Len(t, env.ResultTransformers, 1)
}

func TestDecode_ExtraFieldsIgnored(t *testing.T) {
	d, err := NewDecoder()
	require.NoError(t, err)

	_, err = d.Decode([]byte(`{"filters":[{}],"resultTransformers":[{}],"page":2}`))
	assert.NoError(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	d, err := NewDecoder()
	require.NoError(t, err)

	testCases := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "not json", body: `filters=1`},
		{name: "truncated", body: `{"filters":[`},
		{name: "array body", body: `[]`},
		{name: "missing filters", body: `{"resultTransformers":[{"name":"list"}]}`},
		{name: "missing transformers", body: `{"filters":[{"name":"age","min":1,"max":2}]}`},
		{name: "filters not a list", body: `{"filters":{"name":"age"},"resultTransformers":[]}`},
		{name: "null transformers", body: `{"filters":[],"resultTransformers":null}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Decode([]byte(tc.body))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_Concurrent(t *testing.T) {
	d, err := NewDecoder()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Decode([]byte(`{"filters":[{}],"resultTransformers":[{}]}`))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
