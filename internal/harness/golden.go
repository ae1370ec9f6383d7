package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/gosimple/slug"
	"github.com/sebdah/goldie/v2"
)

// GoldenName is the golden file name of a scenario, without extension.
func GoldenName(scenario *Scenario) string {
	return slug.Make(scenario.Name)
}

// RunWithGolden executes a scenario on every backend and compares the
// snapshot against a golden file in testdata/golden/{slug}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot be run. Failed expectations and
// golden mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := RunAll(context.Background(), scenario)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, e)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, GoldenName(scenario), result.Snapshot)
	return nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenarios directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(entry.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		key := GoldenName(s)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%s: scenario name %q collides with %s", name, s.Name, prev)
		}
		seen[key] = name
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Matches reports whether a scenario is selected by a name filter. An empty
// filter selects everything.
func Matches(scenario *Scenario, filter string) bool {
	return filter == "" || strings.Contains(scenario.Name, filter)
}
