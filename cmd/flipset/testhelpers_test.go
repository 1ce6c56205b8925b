package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/flipset/internal/testutil"
)

// setConfigFile sets the global configFile variable and registers a cleanup to restore it.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// testCLI runs the root command against a SQLite database and a session file in a temp dir.
type testCLI struct {
	t       *testing.T
	dir     string
	cfgPath string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	dir := t.TempDir()
	c := &testCLI{t: t, dir: dir, cfgPath: testutil.SetupTestConfig(t, dir)}
	setConfigFile(t, c.cfgPath)
	return c
}

func (c *testCLI) runWithInput(input string, args ...string) (string, error) {
	c.t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--config", c.cfgPath, "--env-file="}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *testCLI) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runWithInput("", args...)
}

func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

// createdID returns the id printed by an add command, as in "Created card <id>".
func (c *testCLI) createdID(args ...string) string {
	c.t.Helper()
	out := strings.TrimSpace(c.mustRun(args...))
	fields := strings.Fields(out)
	require.NotEmpty(c.t, fields, out)
	return strings.Trim(fields[len(fields)-1], "()")
}
