// Package buildfile provides the YAML build file parser.
package buildfile

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.BuildFileParser = (*Parser)(nil)

var interpolationPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Parser implements ports.BuildFileParser over YAML build files with
// include resolution and ${VAR} environment interpolation.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the build file, follows its includes recursively and returns
// the manifest together with the environment variables the parse consulted.
func (p *Parser) Parse(_ context.Context, cell domain.Cell, buildFile string) (*ports.ParseResult, error) {
	basePath, err := filepath.Rel(cell.Root, filepath.Dir(buildFile))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "build file outside cell"), "build_file", buildFile)
	}
	if basePath == "." {
		basePath = ""
	}

	run := &parseRun{
		cell:    cell,
		env:     domain.EnvSnapshot{},
		targets: map[string]domain.RawNode{},
		visited: map[string]struct{}{},
		hasher:  xxhash.New(),
	}
	if err := run.parseFile(buildFile, basePath); err != nil {
		return nil, err
	}

	return &ports.ParseResult{
		Manifest: &domain.BuildFileManifest{
			BuildFile:   domain.NewInternedString(buildFile),
			Targets:     run.targets,
			ReadFiles:   run.readFiles,
			Fingerprint: run.hasher.Sum64(),
		},
		Env: run.env,
	}, nil
}

// parseRun accumulates the state of one Parse call across include recursion.
type parseRun struct {
	cell      domain.Cell
	env       domain.EnvSnapshot
	targets   map[string]domain.RawNode
	readFiles []string
	visited   map[string]struct{}
	hasher    *xxhash.Digest
}

func (r *parseRun) parseFile(path, basePath string) error {
	// A revisited file was already folded in; skipping it terminates cyclic
	// include chains.
	if _, ok := r.visited[path]; ok {
		return nil
	}
	r.visited[path] = struct{}{}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the cell layout
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrBuildFileSyntax, err.Error()), "file", path)
	}
	r.readFiles = append(r.readFiles, path)
	_, _ = r.hasher.Write(data)

	var dto buildFileDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrBuildFileSyntax, err.Error()), "file", path)
	}

	// Includes first: the including file's declarations shadow nothing, a
	// short name declared twice anywhere is an error.
	dir := filepath.Dir(path)
	for _, include := range dto.Include {
		includePath := include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(dir, includePath)
		}
		if err := r.parseFile(includePath, basePath); err != nil {
			return err
		}
	}

	for name, target := range dto.Targets {
		if _, ok := r.targets[name]; ok {
			err := zerr.With(zerr.Wrap(domain.ErrBuildFileSyntax, "target declared twice"), "target", name)
			return zerr.With(err, "file", path)
		}
		r.targets[name] = r.rawNode(name, basePath, target)
	}
	return nil
}

func (r *parseRun) rawNode(name, basePath string, dto targetDTO) domain.RawNode {
	node := domain.RawNode{
		domain.RawAttrName:     name,
		domain.RawAttrBasePath: basePath,
		domain.RawAttrType:     dto.Type,
	}
	if len(dto.Deps) > 0 {
		deps := make([]string, len(dto.Deps))
		for i, dep := range dto.Deps {
			deps[i] = r.interpolate(dep)
		}
		node[domain.RawAttrDeps] = deps
	}
	if len(dto.Flavors) > 0 {
		node[domain.RawAttrFlavors] = dto.Flavors
	}
	if len(dto.Env) > 0 {
		env := make(map[string]string, len(dto.Env))
		for k, v := range dto.Env {
			env[k] = r.interpolate(v)
		}
		node["env"] = env
	}
	for k, v := range dto.Attrs {
		node[k] = r.interpolateAny(v)
	}
	return node
}

// interpolate substitutes ${VAR} references from the cell environment and
// records every consulted variable, present or not, for later env-change
// invalidation.
func (r *parseRun) interpolate(s string) string {
	return interpolationPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		value := r.cell.EnvValue(name)
		r.env[name] = value
		return value.Value
	})
}

func (r *parseRun) interpolateAny(v any) any {
	switch v := v.(type) {
	case string:
		return r.interpolate(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = r.interpolateAny(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = r.interpolateAny(e)
		}
		return out
	default:
		return v
	}
}
