package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genpare/genpare/internal/engine"
	"github.com/genpare/genpare/internal/transform"
)

func newTestServer(t *testing.T, reader engine.SalaryReader, titles JobTitleLister) *Client {
	t.Helper()
	var logs bytes.Buffer
	srv := httptest.NewServer(newTestHandler(t, reader, titles, &logs))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClient_Query(t *testing.T) {
	s := newTestStore(t)
	c := newTestServer(t, s, s)

	resp, err := c.Query(context.Background(),
		[]byte(`{"filters":[{"name":"state","desiredState":"HAMBURG"}],"resultTransformers":[{"name":"average"},{"name":"list"}]}`))
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	avg, ok := resp.Results[0].(transform.AverageResult)
	require.True(t, ok)
	require.NotNil(t, avg.AverageFemale)
	assert.Equal(t, int64(5000), *avg.AverageFemale)
	assert.Nil(t, avg.AverageMale)

	list, ok := resp.Results[1].(transform.ListResult)
	require.True(t, ok)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "Pilot", list.Results[0].JobTitle)
}

func TestClient_QueryRejected(t *testing.T) {
	s := newTestStore(t)
	c := newTestServer(t, s, s)

	_, err := c.Query(context.Background(),
		[]byte(`{"filters":[{"name":"state","desiredState":"BERLIN"}],"resultTransformers":[{"name":"median"}]}`))

	var qe *engine.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, engine.ErrCodeInvalidTransformer, qe.Code)
	assert.Equal(t, engine.ComponentTransformer, qe.Component)
	assert.Equal(t, 0, qe.Index)
	assert.True(t, engine.IsClientError(err))
}

func TestClient_QueryEmptyListHasNoIndex(t *testing.T) {
	s := newTestStore(t)
	c := newTestServer(t, s, s)

	_, err := c.Query(context.Background(), []byte(`{"filters":[],"resultTransformers":[{"name":"list"}]}`))

	var qe *engine.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, engine.ErrCodeEmptyFilterList, qe.Code)
	assert.Equal(t, -1, qe.Index)
}

func TestClient_StoreFailure(t *testing.T) {
	c := newTestServer(t, failingStore{}, failingStore{})

	_, err := c.Query(context.Background(),
		[]byte(`{"filters":[{"name":"salary","min":0,"max":1}],"resultTransformers":[{"name":"list"}]}`))
	assert.True(t, engine.IsStoreError(err))

	_, err = c.JobTitles(context.Background())
	assert.True(t, engine.IsStoreError(err))
}

func TestClient_JobTitles(t *testing.T) {
	s := newTestStore(t)
	c := newTestServer(t, s, s)

	titles, err := c.DistinctJobTitles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Baker", "Pilot"}, titles)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).JobTitles(context.Background())
	require.ErrorContains(t, err, "unexpected status 404")
}
