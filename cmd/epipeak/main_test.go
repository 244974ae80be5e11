package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/epipeak/internal/config"
	"github.com/san-kum/epipeak/internal/montecarlo"
	"github.com/san-kum/epipeak/internal/sim"
	"github.com/san-kum/epipeak/internal/storage"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDefaultOutputIsTwoLines(t *testing.T) {
	stdout, stderr, err := execRoot(t, "--iterations", "50", "--seed", "9")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Mean peak infected: "))
	assert.True(t, strings.HasPrefix(lines[1], "Std dev of peaks: "))
}

func TestRunIsReproducibleWithSeed(t *testing.T) {
	a, _, err := execRoot(t, "run", "-n", "40", "--seed", "5")
	require.NoError(t, err)
	b, _, err := execRoot(t, "run", "-n", "40", "--seed", "5", "--workers", "4")
	require.NoError(t, err)
	assert.NotEqual(t, "", a)

	c, _, err := execRoot(t, "run", "-n", "40", "--seed", "5")
	require.NoError(t, err)
	assert.Equal(t, a, c)
	assert.Contains(t, b, "Mean peak infected: ")
}

func resolveFor(t *testing.T, args ...string) *config.Config {
	t.Helper()
	root := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	runCmd, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	require.NoError(t, runCmd.ParseFlags(args))

	cfg, err := resolveConfig(runCmd)
	require.NoError(t, err)
	return cfg
}

func TestResolveConfigWorkers(t *testing.T) {
	assert.Equal(t, 1, resolveFor(t).Workers)
	assert.Equal(t, 0, resolveFor(t, "--preset", "uncertain").Workers, "preset value is kept")
	assert.Equal(t, 3, resolveFor(t, "--preset", "uncertain", "--workers", "3").Workers)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 5\n"), 0644))
	assert.Equal(t, 5, resolveFor(t, "--config", path).Workers)
	assert.Equal(t, 2, resolveFor(t, "--config", path, "-w", "2").Workers)
}

func TestZeroIterationsFails(t *testing.T) {
	stdout, _, err := execRoot(t, "--iterations", "0")
	assert.ErrorIs(t, err, montecarlo.ErrNoIterations)
	assert.Empty(t, stdout)
}

func TestUnknownPreset(t *testing.T) {
	_, _, err := execRoot(t, "--preset", "atlantis")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("iterations: 20\nr0:\n  std: 0\ncontrol:\n  effectiveness: 0.3\n"), 0644))

	stdout, _, err := execRoot(t, "run", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Std dev of peaks: 0.00")
}

func TestSaveAndShow(t *testing.T) {
	dir := t.TempDir()

	_, stderr, err := execRoot(t, "run", "-n", "30", "--seed", "2", "--save", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "saved run:")

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	stdout, _, err := execRoot(t, "runs", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, runs[0].ID)

	stdout, _, err = execRoot(t, "show", runs[0].ID, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Peak infected")

	stdout, _, err = execRoot(t, "show", runs[0].ID, "--json", "--data", dir)
	require.NoError(t, err)
	var data storage.ExportData
	require.NoError(t, json.Unmarshal([]byte(stdout), &data))
	assert.Len(t, data.Peaks, 30)

	_, _, err = execRoot(t, "show", "missing", "--data", dir)
	assert.ErrorIs(t, err, storage.ErrRunNotFound)

	_, _, err = execRoot(t, "show", "../"+runs[0].ID, "--data", dir)
	assert.ErrorIs(t, err, storage.ErrInvalidRunID)
}

func TestCurve(t *testing.T) {
	stdout, _, err := execRoot(t, "curve", "--r0", "2.5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(day 68)")

	path := filepath.Join(t.TempDir(), "curve.svg")
	_, _, err = execRoot(t, "curve", "--all", "--svg", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `id="infected"`)
}

func TestCurveDailyLog(t *testing.T) {
	_, stderr, err := execRoot(t, "curve", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "component=curve")
	assert.Contains(t, stderr, "day=1 ")
	assert.Contains(t, stderr, "day=100 ")

	_, stderr, err = execRoot(t, "curve")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "day=1 ")
}

func TestCurveRejectsOverflow(t *testing.T) {
	_, _, err := execRoot(t, "curve", "--r0", "1e308")
	assert.ErrorIs(t, err, sim.ErrInvalidState)
}

func TestSweep(t *testing.T) {
	stdout, _, err := execRoot(t, "sweep", "-n", "10", "--controls", "0,0.5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "50%")
	assert.Contains(t, stdout, "*")

	_, _, err = execRoot(t, "sweep", "--objective", "median")
	assert.Error(t, err)
}

func TestReportAndPresets(t *testing.T) {
	stdout, _, err := execRoot(t, "report", "-n", "25", "--seed", "1", "--bins", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "5 bins")

	stdout, _, err = execRoot(t, "presets")
	require.NoError(t, err)
	for _, name := range []string{"spain", "lockdown", "small-town"} {
		assert.Contains(t, stdout, name)
	}
}

func TestLogLevel(t *testing.T) {
	_, stderr, err := execRoot(t, "-n", "10", "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, stderr, "monte carlo run complete")

	_, _, err = execRoot(t, "--log-level", "chatty")
	assert.Error(t, err)
}
