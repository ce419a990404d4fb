package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/script"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDemoJSON(t *testing.T) {
	out, err := execute(t, "demo", "-o", "json")
	require.NoError(t, err)

	var report script.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Steps, 15)
	assert.Equal(t, 3, report.Failed)
	assert.Len(t, report.Board.Tasks, 3)
}

func TestDemoTable(t *testing.T) {
	out, err := execute(t, "demo", "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "Steps")
	assert.Contains(t, out, "Write contributor docs")
	assert.Contains(t, out, "History")
}

func TestDemoPrintRoundTrips(t *testing.T) {
	out, err := execute(t, "demo", "--print")
	require.NoError(t, err)

	var s script.Script
	require.NoError(t, yaml.Unmarshal([]byte(out), &s))
	assert.Len(t, s.Steps, 15)
}

func TestRunScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tasks:
  - {ref: docs, title: Write docs}
steps:
  - {op: toggle, task: docs}
`), 0o600))

	out, err := execute(t, "run", path, "-o", "yaml")
	require.NoError(t, err)

	var report script.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	require.Len(t, report.Steps, 1)
	assert.True(t, report.Steps[0].Applied)
	assert.True(t, report.Board.Tasks[0].Completed)
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "demo", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = execute(t, "demo", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestTransitions(t *testing.T) {
	out, err := execute(t, "transitions", "--kind", "bug", "-o", "json")
	require.NoError(t, err)

	var matrix map[string]map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &matrix))
	require.Contains(t, matrix, "bug")
	assert.Equal(t, []string{"ASSIGNED", "ARCHIVED"}, matrix["bug"]["CREATED"])

	out, err = execute(t, "transitions")
	require.NoError(t, err)
	assert.Contains(t, out, "feature")

	_, err = execute(t, "transitions", "--kind", "epic")
	assert.ErrorContains(t, err, "unknown kind")
}

func TestVersion(t *testing.T) {
	t.Setenv("APP_VERSION", "2.3.4")
	out, err := execute(t, "version", "-o", "yaml")
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, "2.3.4", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
