package buildfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parsec/internal/adapters/buildfile"
	"go.trai.ch/parsec/internal/core/domain"
)

func cellAt(root string, env map[string]string) domain.Cell {
	if env == nil {
		env = map[string]string{}
	}
	return domain.Cell{
		Root:          root,
		BuildFileName: "BUILD.yaml",
		Env:           env,
	}
}

func writeFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParser_Parse_SingleFile(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "foo/BUILD.yaml", `
targets:
  bar:
    type: genrule
    deps: ["//lib:core"]
    out: bar.o
`)

	result, err := buildfile.NewParser().Parse(t.Context(), cellAt(root, nil), buildFile)
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, buildFile, m.BuildFile.String())
	assert.Equal(t, []string{buildFile}, m.ReadFiles)
	assert.NotZero(t, m.Fingerprint)
	assert.Empty(t, result.Env)

	raw, ok := m.RawNodeFor("bar")
	require.True(t, ok)
	name, _ := raw.Name()
	basePath, _ := raw.BasePath()
	assert.Equal(t, "bar", name)
	assert.Equal(t, "foo", basePath)
	assert.Equal(t, "genrule", raw.RuleType())
	assert.Equal(t, []string{"//lib:core"}, raw.Deps())
	assert.Equal(t, "bar.o", raw["out"])
}

func TestParser_Parse_RootPackageHasEmptyBasePath(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "BUILD.yaml", `
targets:
  top:
    type: library
`)

	result, err := buildfile.NewParser().Parse(t.Context(), cellAt(root, nil), buildFile)
	require.NoError(t, err)

	raw, ok := result.Manifest.RawNodeFor("top")
	require.True(t, ok)
	basePath, _ := raw.BasePath()
	assert.Equal(t, "", basePath)
}

func TestParser_Parse_IncludesRecursively(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "foo/BUILD.yaml", `
include:
  - defs.bcfg
targets:
  bar:
    type: genrule
`)
	defs := writeFile(t, root, "foo/defs.bcfg", `
include:
  - more.bcfg
targets:
  baz:
    type: library
`)
	more := writeFile(t, root, "foo/more.bcfg", `
targets:
  qux:
    type: library
`)

	result, err := buildfile.NewParser().Parse(t.Context(), cellAt(root, nil), buildFile)
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, []string{buildFile, defs, more}, m.ReadFiles)
	assert.Len(t, m.Targets, 3)

	// Targets declared in includes belong to the including build file's
	// package.
	for _, name := range []string{"bar", "baz", "qux"} {
		raw, ok := m.RawNodeFor(name)
		require.True(t, ok, name)
		basePath, _ := raw.BasePath()
		assert.Equal(t, "foo", basePath)
	}
}

func TestParser_Parse_CyclicIncludesTerminate(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "foo/BUILD.yaml", `
include:
  - defs.bcfg
targets:
  bar:
    type: genrule
`)
	defs := writeFile(t, root, "foo/defs.bcfg", `
include:
  - BUILD.yaml
targets:
  baz:
    type: library
`)

	result, err := buildfile.NewParser().Parse(t.Context(), cellAt(root, nil), buildFile)
	require.NoError(t, err)
	assert.Equal(t, []string{buildFile, defs}, result.Manifest.ReadFiles)
	assert.Len(t, result.Manifest.Targets, 2)
}

func TestParser_Parse_RecordsConsultedEnv(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "foo/BUILD.yaml", `
targets:
  bar:
    type: genrule
    deps: ["//lib:${LIB_NAME}"]
    env:
      out_dir: ${OUT_DIR}
      missing: ${NOT_SET}
`)
	cell := cellAt(root, map[string]string{
		"LIB_NAME": "core",
		"OUT_DIR":  "/tmp/out",
		"IGNORED":  "never consulted",
	})

	result, err := buildfile.NewParser().Parse(t.Context(), cell, buildFile)
	require.NoError(t, err)

	raw, ok := result.Manifest.RawNodeFor("bar")
	require.True(t, ok)
	assert.Equal(t, []string{"//lib:core"}, raw.Deps())
	assert.Equal(t, map[string]string{"out_dir": "/tmp/out", "missing": ""}, raw["env"])

	assert.Equal(t, domain.EnvSnapshot{
		"LIB_NAME": {Value: "core", Present: true},
		"OUT_DIR":  {Value: "/tmp/out", Present: true},
		"NOT_SET":  {Present: false},
	}, result.Env, "only consulted variables are recorded, unset ones included")
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "foo/BUILD.yaml", "targets: [not: a: map\n")

	_, err := buildfile.NewParser().Parse(t.Context(), cellAt(root, nil), buildFile)
	require.ErrorIs(t, err, domain.ErrBuildFileSyntax)
}

func TestParser_Parse_MissingInclude(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "foo/BUILD.yaml", `
include:
  - nowhere.bcfg
`)

	_, err := buildfile.NewParser().Parse(t.Context(), cellAt(root, nil), buildFile)
	require.ErrorIs(t, err, domain.ErrBuildFileSyntax)
}

func TestParser_Parse_DuplicateTargetRejected(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "foo/BUILD.yaml", `
include:
  - defs.bcfg
targets:
  bar:
    type: genrule
`)
	writeFile(t, root, "foo/defs.bcfg", `
targets:
  bar:
    type: library
`)

	_, err := buildfile.NewParser().Parse(t.Context(), cellAt(root, nil), buildFile)
	require.ErrorIs(t, err, domain.ErrBuildFileSyntax)
}

func TestParser_Parse_FingerprintTracksContent(t *testing.T) {
	root := t.TempDir()
	buildFile := writeFile(t, root, "foo/BUILD.yaml", `
targets:
  bar:
    type: genrule
`)

	parser := buildfile.NewParser()
	cell := cellAt(root, nil)
	first, err := parser.Parse(t.Context(), cell, buildFile)
	require.NoError(t, err)

	again, err := parser.Parse(t.Context(), cell, buildFile)
	require.NoError(t, err)
	assert.Equal(t, first.Manifest.Fingerprint, again.Manifest.Fingerprint)

	writeFile(t, root, "foo/BUILD.yaml", `
targets:
  bar:
    type: library
`)
	changed, err := parser.Parse(t.Context(), cell, buildFile)
	require.NoError(t, err)
	assert.NotEqual(t, first.Manifest.Fingerprint, changed.Manifest.Fingerprint)
}
