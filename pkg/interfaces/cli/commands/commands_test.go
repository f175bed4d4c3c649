package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenarioDir = filepath.Join("..", "..", "..", "infrastructure", "repositories", "csv", "testdata", "scenario")

// execute runs the command tree with args and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPlan_JSONFromScenario(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plan.json")

	_, err := execute(t, "plan", "--scenario", scenarioDir, "--format", "json", "--output", out)
	require.NoError(t, err)

	var report struct {
		Stats struct {
			Exploded int `json:"exploded"`
		} `json:"stats"`
		Requirements []struct {
			Code         string `json:"code"`
			Necessary    string `json:"necessary"`
			Shortage     string `json:"shortage"`
			PurchaseDate string `json:"purchase_date"`
		} `json:"requirements"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, out)), &report))

	assert.Equal(t, 2, report.Stats.Exploded)
	require.Len(t, report.Requirements, 1, "only the hex bolt is short")
	assert.Equal(t, "CMP-001", report.Requirements[0].Code)
	assert.Equal(t, "72", report.Requirements[0].Necessary)
	assert.Equal(t, "67", report.Requirements[0].Shortage)
	assert.True(t, strings.HasPrefix(report.Requirements[0].PurchaseDate, "2024-01-17"))
}

func TestPlan_AllListsCoveredItems(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plan.csv")

	_, err := execute(t, "plan", "--scenario", scenarioDir, "--all", "--format", "csv", "-o", out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "CMP-001")
	assert.Contains(t, lines[2], "CMP-002")
	assert.Contains(t, lines[3], "RM-001")
}

func TestDetail_FiltersByOrder(t *testing.T) {
	out := filepath.Join(t.TempDir(), "detail.csv")

	_, err := execute(t, "detail", "--scenario", scenarioDir, "--order", "pilot", "--format", "csv", "-o", out)
	require.NoError(t, err)

	content := readFile(t, out)
	assert.Contains(t, content, "OP1")
	assert.NotContains(t, content, "OP2")
}

func TestFlat_CSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flat.csv")

	_, err := execute(t, "flat", "--scenario", scenarioDir, "--format", "csv", "-o", out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(readFile(t, out)), "\n")
	require.Len(t, lines, 4, "header plus three component rows")
	assert.Equal(t, "Rover;Drive train;Wheel;;;CMP-001;Hex bolt M8;6;100%;6;hub bolts", lines[1])
	assert.Contains(t, lines[2], ";50%;")
}

func TestFlat_FromDemandKeepsEdgeColumns(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flat.csv")

	_, err := execute(t, "flat", "--scenario", scenarioDir, "--from-demand", "--format", "csv", "-o", out)
	require.NoError(t, err)

	content := readFile(t, out)
	assert.True(t, strings.HasPrefix(content, "Order;Series;"))
	assert.Contains(t, content, ";Comments;Per Unit;Line Quantity\n")
	assert.Contains(t, content, "OP1;Rover;Drive train;Wheel;;;CMP-001;Hex bolt M8;6;100%;6;hub bolts;24;48")
	assert.Contains(t, content, "OP2;Rover;Drive train;Wheel;;;CMP-001;Hex bolt M8;6;100%;6;hub bolts;24;24")
}

func TestFlat_FromDemandRoot(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flat.csv")

	_, err := execute(t, "flat", "--scenario", scenarioDir, "--from-demand", "--root", "A1", "--format", "csv", "-o", out)
	require.NoError(t, err)
	assert.NotContains(t, readFile(t, out), "OP1", "orders are placed on S1, not A1")

	_, err = execute(t, "flat", "--scenario", scenarioDir, "--from-demand", "--root", "S1", "--format", "csv", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "OP1")

	_, err = execute(t, "flat", "--scenario", scenarioDir, "--from-demand", "--root", "NOPE")
	assert.Error(t, err)

	_, err = execute(t, "flat", "--scenario", scenarioDir, "--from-demand", "--detailed")
	assert.Error(t, err)
}

func TestStock_RejectsScenario(t *testing.T) {
	dir := t.TempDir()
	position := filepath.Join(dir, "position.csv")
	require.NoError(t, os.WriteFile(position, []byte("code,quantity\nCMP-001,40\n"), 0o644))

	_, err := execute(t, "stock", position, "--scenario", scenarioDir, "--db", filepath.Join(dir, "catalog.db"))
	assert.ErrorContains(t, err, "--scenario")
}

func TestImportThenStock(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")

	printed, err := execute(t, "import", scenarioDir, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, printed, "Imported 3 items")

	position := filepath.Join(dir, "position.csv")
	require.NoError(t, os.WriteFile(position, []byte("code,quantity\nCMP-001,40\nCMP-001,32\nRM-001,1\n"), 0o644))

	printed, err = execute(t, "stock", position, "--db", db, "--zero-missing", "--changes")
	require.NoError(t, err)
	assert.Contains(t, printed, "2 codes in file, 1 updated, 1 zeroed")
	assert.Contains(t, printed, "5 → 72")
	assert.Contains(t, printed, "40 → 0")

	out := filepath.Join(dir, "plan.json")
	_, err = execute(t, "plan", "--db", db, "--format", "json", "-o", out)
	require.NoError(t, err)

	var report struct {
		Requirements []struct {
			Code string `json:"code"`
		} `json:"requirements"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, out)), &report))
	require.Len(t, report.Requirements, 1, "72 bolts in stock now; the zeroed bearings are short")
	assert.Equal(t, "CMP-002", report.Requirements[0].Code)
}

func TestRoot_RejectsBadFlags(t *testing.T) {
	_, err := execute(t, "plan", "--scenario", scenarioDir, "--format", "xlsx")
	assert.Error(t, err)

	_, err = execute(t, "plan", "--scenario", scenarioDir, "--level-policy", "loose")
	assert.Error(t, err)
}

func TestPlan_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "mrp.prom")

	_, err := execute(t, "plan", "--scenario", scenarioDir, "-o", filepath.Join(dir, "plan.txt"), "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.Contains(t, readFile(t, metricsFile), "mrp_orders_exploded_total 2")
}
