package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/gridwarp/api/v1"
	"github.com/f9-o/gridwarp/internal/core/config"
	"github.com/f9-o/gridwarp/internal/core/state"
)

const layout = "1000x900+0+0"

type result struct {
	code   int
	stdout string
	stderr string
}

// execute runs the CLI with a private state dir.
func execute(t *testing.T, stateDir string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	code := run(root, append([]string{"--state-dir", stateDir}, args...))
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func TestVersionJSON(t *testing.T) {
	r := execute(t, t.TempDir(), "version", "--json")
	require.Equal(t, 0, r.code, r.stderr)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &info))
	assert.Equal(t, "dev", info["version"])
	assert.NotEmpty(t, info["go_version"])
}

func TestInitWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	r := execute(t, dir, "init", "--path", dir)
	require.Equal(t, 0, r.code, r.stderr)

	path := filepath.Join(dir, config.DefaultPath)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigTemplate, string(data))

	// The written file loads cleanly.
	_, err = config.Load(path)
	require.NoError(t, err)

	r = execute(t, dir, "init", "--path", dir)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "ERR-003")
	assert.Contains(t, r.stderr, "--force")

	r = execute(t, dir, "init", "--path", dir, "--force")
	assert.Equal(t, 0, r.code, r.stderr)
}

func TestLocate(t *testing.T) {
	r := execute(t, t.TempDir(), "locate", "380", "320", "--layout", layout, "--json")
	require.Equal(t, 0, r.code, r.stderr)

	var got struct {
		Point   v1.Point `json:"point"`
		Found   bool     `json:"found"`
		Address struct {
			Display, Region, Cell int
		} `json:"address"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.True(t, got.Found)
	assert.Equal(t, 0, got.Address.Display)
	assert.Equal(t, 5, got.Address.Region)
	assert.Equal(t, 7, got.Address.Cell)

	r = execute(t, t.TempDir(), "locate", "5000", "5000", "--layout", layout)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "not on any display")

	r = execute(t, t.TempDir(), "locate", "x", "1", "--layout", layout)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "must be a number")
}

func TestCell(t *testing.T) {
	r := execute(t, t.TempDir(), "cell", "0", "5", "7", "--layout", layout, "--json")
	require.Equal(t, 0, r.code, r.stderr)

	var got struct {
		Center v1.Point `json:"center"`
		Rect   v1.Rect  `json:"rect"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, v1.Pt(375, 337.5), got.Center)
	assert.Equal(t, v1.Pt(350, 300), got.Rect.Min)

	r = execute(t, t.TempDir(), "cell", "0", "16", "0", "--layout", layout)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "region must be in 0..15")

	r = execute(t, t.TempDir(), "cell", "2", "0", "0", "--layout", layout)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "display must be in 0..0")
}

func TestDisplaysAppliesPrimaryOffset(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"primary_offset_y": 40}`), 0o644))

	r := execute(t, dir, "-c", cfgPath, "displays", "--layout", "800x600+0+0,1000x900+800+0*", "--json")
	require.Equal(t, 0, r.code, r.stderr)

	var ds []v1.Display
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &ds))
	require.Len(t, ds, 2)
	assert.Equal(t, v1.Vector{}, ds[0].UsableOffset)
	assert.Equal(t, v1.Vec(0, 40), ds[1].UsableOffset)
}

func TestKeys(t *testing.T) {
	r := execute(t, t.TempDir(), "keys", "--json")
	require.Equal(t, 0, r.code, r.stderr)

	var rows []struct{ Action, Key string }
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &rows))
	require.Len(t, rows, 55)
	assert.Equal(t, "region[0]", rows[0].Action)
	assert.Equal(t, "1", rows[0].Key)

	r = execute(t, t.TempDir(), "keys", "--conflicts", "--json")
	require.Equal(t, 0, r.code, r.stderr)
	assert.JSONEq(t, "[]", r.stdout)
}

func TestKeysReportsBadKeyName(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"bindings": {"quit": "hyper"}}`), 0o644))

	r := execute(t, dir, "-c", cfgPath, "keys")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "ERR-KEY-001")
	assert.Contains(t, r.stderr, "bindings.quit")
}

func TestExplicitMissingConfigIsFatal(t *testing.T) {
	r := execute(t, t.TempDir(), "-c", filepath.Join(t.TempDir(), "nope.json"), "keys")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "ERR-CFG-001")
}

func TestBareCommandNeedsConfig(t *testing.T) {
	r := execute(t, t.TempDir(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "ERR-CFG-001")
	assert.Contains(t, r.stderr, "gridwarp init")
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()

	r := execute(t, dir, "history")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "No sessions recorded")

	db, err := state.Open(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"aaaaaaaa-1", "bbbbbbbb-2", "cccccccc-3"} {
		require.NoError(t, db.PutSession(v1.SessionRecord{
			ID:         id,
			Backend:    "sim",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			Displays:   1,
			ExitReason: "quit",
			Dispatched: map[string]int{"warp": i},
		}))
	}
	require.NoError(t, db.Close())

	r = execute(t, dir, "history", "--json", "--limit", "2")
	require.Equal(t, 0, r.code, r.stderr)
	var recs []v1.SessionRecord
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "cccccccc-3", recs[0].ID)

	r = execute(t, dir, "history", "--prune", "1")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Removed 2 session(s)")

	r = execute(t, dir, "history")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "cccccccc")
	assert.NotContains(t, r.stdout, "aaaaaaaa")
}

func TestDoctor(t *testing.T) {
	r := execute(t, t.TempDir(), "doctor", "--layout", layout, "--json")
	require.Equal(t, 0, r.code, r.stderr)

	var results []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &results))
	byName := map[string]string{}
	for _, res := range results {
		byName[res.Name] = res.Status
	}
	for _, name := range []string{"config", "bindings", "backend", "displays", "pointer", "state"} {
		assert.Equal(t, "ok", byName[name], name)
	}

	r = execute(t, t.TempDir(), "doctor", "--layout", "garbage")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, "skipped")
}

func TestDoctorSkipsProbesAfterBackendFailure(t *testing.T) {
	r := execute(t, t.TempDir(), "doctor", "--layout", "garbage", "--json")
	assert.Equal(t, 1, r.code)

	var results []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &results))
	byName := map[string]string{}
	for _, res := range results {
		byName[res.Name] = res.Status
	}
	assert.Equal(t, "failed", byName["backend"])
	assert.Equal(t, "skipped", byName["displays"])
	assert.Equal(t, "skipped", byName["pointer"])
	assert.Equal(t, "ok", byName["bindings"])
}
