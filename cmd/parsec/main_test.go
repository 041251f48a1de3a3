package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		buildFile    string
		args         []string
		expectedExit int
	}{
		{
			name: "Success with valid build file",
			buildFile: `targets:
  bar:
    type: library
`,
			args:         []string{"parsec", "parse", "//foo:bar"},
			expectedExit: 0,
		},
		{
			name: "Unknown target fails",
			buildFile: `targets:
  bar:
    type: library
`,
			args:         []string{"parsec", "parse", "//foo:missing"},
			expectedExit: 1,
		},
		{
			name:         "Malformed build file fails",
			buildFile:    "targets: [not, a, map\n",
			args:         []string{"parsec", "parse", "//foo:bar"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "foo"), 0o750))
			require.NoError(t, os.WriteFile(
				filepath.Join(tmpDir, "foo", "BUILD.yaml"), []byte(tt.buildFile), 0o600))

			// Change to tmpDir for relative path resolution
			originalWd, _ := os.Getwd()
			require.NoError(t, os.Chdir(tmpDir))
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args

			exitCode := run()
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestRun_Version(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	os.Args = []string{"parsec", "version"}
	assert.Equal(t, 0, run())
}
