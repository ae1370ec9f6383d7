package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestGoldenName(t *testing.T) {
	require.Equal(t, "berlin-average", GoldenName(&Scenario{Name: "berlin-average"}))
	require.Equal(t, "average-over-bremen", GoldenName(&Scenario{Name: "Average over Bremen!"}))
}

func TestLoadScenarios_RejectsNameCollision(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", minimalScenario("Berlin Average"))
	writeScenario(t, dir, "b.yaml", minimalScenario("berlin-average"))

	_, err := LoadScenarios(dir)
	require.ErrorContains(t, err, "collides")
}

func TestLoadScenarios_SkipsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", minimalScenario("second"))
	writeScenario(t, dir, "a.yml", minimalScenario("first"))
	writeScenario(t, dir, "notes.txt", "not a scenario")

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	require.Equal(t, "first", scenarios[0].Name)
	require.Equal(t, "second", scenarios[1].Name)
}

func TestMatches(t *testing.T) {
	s := &Scenario{Name: "berlin-average"}
	require.True(t, Matches(s, ""))
	require.True(t, Matches(s, "berlin"))
	require.False(t, Matches(s, "hamburg"))
}
