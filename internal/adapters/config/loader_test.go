package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parsec/internal/adapters/config"
	"go.trai.ch/parsec/internal/adapters/logger"
)

func writeWorkspaceFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.WorkspaceFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func quietLogger() *logger.Logger {
	l := logger.New()
	l.SetOutput(&bytes.Buffer{})
	return l
}

func TestLoad_CellsAndDaemon(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkspaceFile(t, dir, `
cells:
  "":
    root: .
  third-party:
    root: ./third-party
    buildFileName: DEPS.yaml
daemon:
  debounceWindow: 250ms
  speculativeDeps: false
  prefetchWorkers: 8
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Cells, 2)
	assert.Equal(t, "", cfg.Cells[0].Name)
	assert.Equal(t, dir, cfg.Cells[0].Root)
	assert.Equal(t, "BUILD.yaml", cfg.Cells[0].BuildFileName)
	assert.Equal(t, "third-party", cfg.Cells[1].Name)
	assert.Equal(t, filepath.Join(dir, "third-party"), cfg.Cells[1].Root)
	assert.Equal(t, "DEPS.yaml", cfg.Cells[1].BuildFileName)

	assert.Equal(t, 250*time.Millisecond, cfg.Daemon.DebounceWindow)
	assert.False(t, cfg.Daemon.SpeculativeDeps)
	assert.Equal(t, 8, cfg.Daemon.PrefetchWorkers)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkspaceFile(t, dir, "cells:\n  \"\":\n    root: .\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.Daemon.DebounceWindow)
	assert.True(t, cfg.Daemon.SpeculativeDeps)
	assert.Equal(t, 4, cfg.Daemon.PrefetchWorkers)
}

func TestLoad_EnvPassthrough(t *testing.T) {
	t.Setenv("PARSEC_TEST_OUT", "/tmp/out")
	dir := t.TempDir()
	path := writeWorkspaceFile(t, dir, `
cells:
  "":
    root: .
    envPassthrough: [PARSEC_TEST_OUT, PARSEC_TEST_UNSET]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Cells, 1)
	assert.Equal(t, map[string]string{"PARSEC_TEST_OUT": "/tmp/out"}, cfg.Cells[0].Env,
		"unset variables are not passed through")
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkspaceFile(t, dir, "cells: [not: a: map\n")

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_InvalidDebounceWindow(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkspaceFile(t, dir, "daemon:\n  debounceWindow: soon\n")

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoader_FindsWorkspaceFileUpward(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "cells:\n  \"\":\n    root: .\n")
	nested := filepath.Join(root, "foo", "bar")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := config.NewLoader(quietLogger()).Load(nested)
	require.NoError(t, err)

	require.Len(t, cfg.Cells, 1)
	assert.Equal(t, root, cfg.Cells[0].Root)
}

func TestLoader_WithoutWorkspaceFileUsesCwdAsRootCell(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.NewLoader(quietLogger()).Load(dir)
	require.NoError(t, err)

	require.Len(t, cfg.Cells, 1)
	assert.Equal(t, "", cfg.Cells[0].Name)
	assert.Equal(t, dir, cfg.Cells[0].Root)
	assert.True(t, cfg.Daemon.SpeculativeDeps)
}
