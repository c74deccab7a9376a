package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// env is one isolated pair of config and data directories.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	t.Setenv("WIKIGAMES_CONFIG_DIR", "")
	t.Setenv("WIKIGAMES_DATA_DIR", "")
	t.Setenv("WIKIGAMES_LOG_LEVEL", "")
	return env{
		configDir: filepath.Join(t.TempDir(), "config"),
		dataDir:   filepath.Join(t.TempDir(), "data"),
	}
}

// run executes the CLI and returns exit code, stdout and stderr.
func (e env) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := Run(full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	code, out, errOut := e.run(t, args...)
	require.Equal(t, exitSuccess, code, "stderr: %s", errOut)
	return out
}

var chronoArgs = []string{
	"games", "add",
	"--name", "Chrono Trigger",
	"--description", "Time travel RPG",
	"--genre", "RPG",
	"--year", "1995",
	"--developer", "Square",
	"--image", "content://media/42",
}

func TestVersion(t *testing.T) {
	var stdout bytes.Buffer
	code := Run([]string{"version"}, &stdout, &bytes.Buffer{})
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout.String(), "wikigames v"+Version)
	assert.Contains(t, stdout.String(), modulePath)
}

func TestInit_CreatesConfigAndStore(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "init")
	assert.Contains(t, out, "catalog ready")

	assert.FileExists(t, filepath.Join(e.configDir, configFileExt))
	assert.FileExists(t, filepath.Join(e.dataDir, types.StoreFileName))

	cfg, err := loadConfig(e.configDir)
	require.NoError(t, err)
	assert.Equal(t, e.dataDir, cfg.DataDir)
	assert.Equal(t, "warn", cfg.Log.Level)

	// Second run leaves the config alone.
	out = e.mustRun(t, "init")
	assert.NotContains(t, out, "wrote")
}

func TestGames_AddListShow(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, chronoArgs...)
	assert.Equal(t, "added game 1\n", out)

	out = e.mustRun(t, "--json", "games", "list")
	var games []types.GameRecord
	require.NoError(t, json.Unmarshal([]byte(out), &games))
	require.Len(t, games, 1)
	assert.Equal(t, int64(1), games[0].ID)
	assert.Equal(t, "Chrono Trigger", games[0].Name)
	require.NotNil(t, games[0].ImageReference)
	assert.Equal(t, "content://media/42", *games[0].ImageReference)

	out = e.mustRun(t, "games", "show", "1")
	assert.Contains(t, out, "Chrono Trigger")
	assert.Contains(t, out, "Square")
}

func TestGames_AddBlankNameIsUserError(t *testing.T) {
	e := newEnv(t)

	code, _, errOut := e.run(t, "games", "add", "--name", "  ", "--description", "x", "--image", "content://1")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "missing data: name")

	out := e.mustRun(t, "--json", "games", "list")
	assert.JSONEq(t, "[]", out)
}

func TestGames_UpdateChangesOnlyGivenFlags(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, chronoArgs...)

	out := e.mustRun(t, "games", "update", "1", "--developer", "Square Co.")
	assert.Equal(t, "updated game 1\n", out)

	out = e.mustRun(t, "--json", "games", "show", "1")
	var g types.GameRecord
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, "Square Co.", g.Developer)
	assert.Equal(t, "Chrono Trigger", g.Name)
	assert.Equal(t, "1995", g.Year)
}

func TestGames_UnknownOrInvalidID(t *testing.T) {
	e := newEnv(t)

	code, _, errOut := e.run(t, "games", "update", "7", "--name", "x")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "game 7 not found")

	code, _, errOut = e.run(t, "games", "delete", "abc")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, `invalid game id "abc"`)
}

func TestGames_Delete(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, chronoArgs...)

	out := e.mustRun(t, "games", "delete", "1")
	assert.Equal(t, "deleted game 1\n", out)

	out = e.mustRun(t, "--json", "games", "list")
	assert.JSONEq(t, "[]", out)
}

func TestConsoles_AddAndStats(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, chronoArgs...)
	e.mustRun(t, "consoles", "add",
		"--name", "Super Nintendo",
		"--description", "16-bit home console",
		"--manufacturer", "Nintendo",
		"--release-year", "1990",
		"--generation", "4",
		"--image", "content://media/7",
	)

	out := e.mustRun(t, "consoles", "list")
	assert.Contains(t, out, "MANUFACTURER")
	assert.Contains(t, out, "Nintendo")

	out = e.mustRun(t, "--json", "stats")
	var s catalogStats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, catalogStats{Games: 1, Consoles: 1, Total: 2}, s)
}

func TestConsoles_MissingImageIsUserError(t *testing.T) {
	e := newEnv(t)
	code, _, errOut := e.run(t, "consoles", "add", "--name", "NES", "--description", "8-bit")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "image_reference")
}

func TestStats_Metrics(t *testing.T) {
	e := newEnv(t)

	code, _, errOut := e.run(t, "stats", "--metrics")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "metrics are disabled")

	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt),
		[]byte("metrics:\n  enabled: true\n"), 0o644))

	e.mustRun(t, chronoArgs...)
	out := e.mustRun(t, "stats", "--metrics")
	assert.Contains(t, out, "total:    1")
	assert.Contains(t, out, `wikigames_collection_size{kind="game"} 1`)
	assert.Contains(t, out, `wikigames_tasks_total{op="load",result="ok"} 1`)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := newEnv(t)
	src.mustRun(t, chronoArgs...)
	dir := filepath.Join(t.TempDir(), "dump")

	out := src.mustRun(t, "export", dir)
	assert.Equal(t, "exported 1 games and 0 consoles\n", out)
	assert.FileExists(t, filepath.Join(dir, "games.jsonl"))

	dst := newEnv(t)
	out = dst.mustRun(t, "import", dir)
	assert.Equal(t, "imported 1 games and 0 consoles\n", out)

	out = dst.mustRun(t, "games", "show", "1")
	assert.Contains(t, out, "Chrono Trigger")
}

func TestBadLogLevelIsUserError(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt),
		[]byte("log:\n  level: loud\n"), 0o644))

	code, _, errOut := e.run(t, "stats")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, `unknown log level "loud"`)
}

func TestEnvOverridesConfig(t *testing.T) {
	e := newEnv(t)
	t.Setenv("WIKIGAMES_LOG_LEVEL", "error")

	cfg, err := loadConfig(e.configDir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitSysError, exitCode(sysError(assert.AnError)))
	assert.Equal(t, exitUserError, exitCode(userError(assert.AnError)))
	assert.Equal(t, exitUserError, exitCode(assert.AnError))
}
