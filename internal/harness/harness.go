package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/genpare/genpare/internal/engine"
	"github.com/genpare/genpare/internal/fixture"
	"github.com/genpare/genpare/internal/memstore"
	"github.com/genpare/genpare/internal/store"
	"github.com/genpare/genpare/internal/testutil"
)

// RequestID is the request id every scenario runs under.
const RequestID = "scenario"

// recordStore is what a backend must offer to run a scenario.
type recordStore interface {
	fixture.Writer
	engine.SalaryReader
}

// Run executes a scenario against a fresh store of the given backend.
//
// A returned error means the scenario could not be run at all (the store
// could not be opened or seeded). Failed expectations are reported in the
// Result instead.
func Run(ctx context.Context, scenario *Scenario, backend Backend) (*Result, error) {
	now, err := scenario.ReferenceTime()
	if err != nil {
		return nil, err
	}
	bucketer, err := scenario.Bucketer()
	if err != nil {
		return nil, err
	}
	body, err := scenario.Body()
	if err != nil {
		return nil, err
	}

	st, cleanup, err := openBackend(ctx, backend)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", backend, err)
	}
	defer cleanup()

	if _, err := fixture.Apply(ctx, st, &fixture.File{Members: scenario.Members}); err != nil {
		return nil, fmt.Errorf("seed %s backend: %w", backend, err)
	}

	eng, err := engine.New(st,
		engine.WithClock(testutil.NewClock(now)),
		engine.WithRequestIDs(testutil.NewStaticRequestIDs(RequestID)),
		engine.WithBucketer(bucketer),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	result := &Result{Backend: backend, Pass: true}
	resp, runErr := eng.Run(ctx, body)

	var snapshot any = resp
	if runErr != nil {
		var qe *engine.QueryError
		if !errors.As(runErr, &qe) {
			return nil, fmt.Errorf("run scenario: %w", runErr)
		}
		snapshot = errorSnapshot(qe)
	}
	result.Snapshot, err = encodeSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	switch want := scenario.Expect.Error; {
	case want != nil && runErr == nil:
		result.AddError("expected %s, request succeeded", want.Code)
	case want != nil:
		if err := checkError(runErr, want); err != nil {
			result.AddError("%v", err)
		}
	case runErr != nil:
		result.AddError("unexpected error: %v", runErr)
	}

	for _, err := range checkAssertions(result.Snapshot, scenario.Expect.Assertions) {
		result.AddError("%v", err)
	}
	return result, nil
}

// RunAll executes a scenario on every backend and checks that they agree.
// The returned Result is the memory backend's, with any disagreement
// recorded as an error.
func RunAll(ctx context.Context, scenario *Scenario) (*Result, error) {
	var first *Result
	for _, backend := range Backends {
		r, err := Run(ctx, scenario, backend)
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = r
			continue
		}
		for _, e := range r.Errors {
			first.AddError("%s: %s", backend, e)
		}
		if !bytes.Equal(first.Snapshot, r.Snapshot) {
			first.AddError("%s snapshot differs from %s:\n%s", backend, first.Backend, r.Snapshot)
		}
	}
	return first, nil
}

// errorSnapshot is the snapshot of a rejected request. The message is left
// out: it carries parser wording that is not part of the contract.
func errorSnapshot(qe *engine.QueryError) any {
	type errorBody struct {
		Code      engine.ErrorCode `json:"code"`
		Component engine.Component `json:"component"`
		Index     *int             `json:"index,omitempty"`
	}
	body := errorBody{Code: qe.Code, Component: qe.Component}
	if qe.Index >= 0 {
		index := qe.Index
		body.Index = &index
	}
	return map[string]errorBody{"error": body}
}

func encodeSnapshot(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

func openBackend(ctx context.Context, backend Backend) (recordStore, func(), error) {
	switch backend {
	case BackendMemory:
		return memstore.New(), func() {}, nil
	case BackendSQLite:
		dir, err := os.MkdirTemp("", "genpare-scenario-*")
		if err != nil {
			return nil, nil, err
		}
		st, err := store.Open(ctx, store.DriverSQLite, filepath.Join(dir, "scenario.db"), store.Options{})
		if err != nil {
			os.RemoveAll(dir)
			return nil, nil, err
		}
		return st, func() {
			st.Close()
			os.RemoveAll(dir)
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}
