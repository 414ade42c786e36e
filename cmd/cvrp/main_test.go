package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/cvrp/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lineInstance = `NAME : line
COMMENT : generated for tests
TYPE : CVRP
DIMENSION : 9
EDGE_WEIGHT_TYPE : EUC_2D
CAPACITY : 5
NODE_COORD_SECTION
1 0 0
2 1 0
3 2 0
4 3 0
5 4 0
6 40 0
7 41 0
8 42 0
9 43 0
DEMAND_SECTION
1 0
2 2
3 2
4 2
5 1
6 2
7 2
8 2
9 1
`

// TestRun_EndToEndProducesAllOutputs drives the full pipeline on a tiny
// instance with a small budget and checks the three emitted files.
func TestRun_EndToEndProducesAllOutputs(t *testing.T) {
	dir := t.TempDir()
	instancePath := filepath.Join(dir, "line.vrp")
	require.NoError(t, os.WriteFile(instancePath, []byte(lineInstance), 0o644))

	params := opt.DefaultParameters()
	params.InstancePath = instancePath
	params.OutPath = filepath.Join(dir, "out")
	params.NeighborsNum = 9
	params.GranularNeighbors = 5
	params.CacheSize = 9
	params.RouteminIterations = 20
	params.CoreOptIterations = 100
	params.Seed = 3
	params.Normalize()

	require.NoError(t, run(params, nil))

	base := filepath.Join(dir, "out", "line.vrp_seed-3")

	// .out: "<cost>\t<seconds>".
	outContent, err := os.ReadFile(base + ".out")
	require.NoError(t, err)
	fields := strings.Split(strings.TrimSpace(string(outContent)), "\t")
	require.Len(t, fields, 2)

	// .vrp.sol: route lines then the cost line.
	solContent, err := os.ReadFile(base + ".vrp.sol")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(solContent)), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "Route #1:"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Cost "))

	// Every customer appears exactly once across the route lines.
	seen := map[string]int{}
	for _, line := range lines[:len(lines)-1] {
		colon := strings.Index(line, ":")
		require.Positive(t, colon)
		for _, token := range strings.Fields(line[colon+1:]) {
			seen[token]++
		}
	}
	assert.Len(t, seen, 8)
	for customer, count := range seen {
		assert.Equal(t, 1, count, "customer %s served more than once", customer)
	}

	// .json: decodable run report with matching seed.
	reportContent, err := os.ReadFile(base + ".json")
	require.NoError(t, err)
	var report runReport
	require.NoError(t, json.Unmarshal(reportContent, &report))
	assert.Equal(t, 3, report.Seed)
	assert.NotEmpty(t, report.RunID)
	assert.Positive(t, report.Cost)
}

// TestRun_MissingInstanceFails maps parse failures to an error exit.
func TestRun_MissingInstanceFails(t *testing.T) {
	params := opt.DefaultParameters()
	params.InstancePath = filepath.Join(t.TempDir(), "missing.vrp")
	params.Normalize()

	assert.Error(t, run(params, nil))
}

// TestRootCommand_UnknownFlagFails keeps unknown flags fatal.
func TestRootCommand_UnknownFlagFails(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"whatever.vrp", "--no-such-flag", "1"})
	assert.Error(t, cmd.Execute())
}
