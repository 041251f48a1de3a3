package pipeline_test

import (
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/parsec/internal/adapters/telemetry"
	"go.trai.ch/parsec/internal/core/domain"
	"go.trai.ch/parsec/internal/core/ports"
	"go.trai.ch/parsec/internal/core/ports/mocks"
	"go.trai.ch/parsec/internal/engine/pipeline"
	"go.trai.ch/parsec/internal/engine/state"
	"go.uber.org/mock/gomock"
)

type harness struct {
	cell     domain.Cell
	cs       *state.CellState
	parser   *mocks.MockBuildFileParser
	factory  *mocks.MockNodeFactory
	registry *mocks.MockRuleRegistry
	logger   *mocks.MockLogger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	cell := domain.Cell{
		Root:          "/repo",
		BuildFileName: "BUILD.yaml",
		Env:           map[string]string{},
	}
	return &harness{
		cell:     cell,
		cs:       state.NewCellState(cell),
		parser:   mocks.NewMockBuildFileParser(ctrl),
		factory:  mocks.NewMockNodeFactory(ctrl),
		registry: mocks.NewMockRuleRegistry(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
}

func (h *harness) pipeline(cfg pipeline.Config) *pipeline.Pipeline {
	return pipeline.New(h.cell, h.cs, h.parser, h.factory, h.registry, h.logger, telemetry.NewNoOpTracer(), cfg)
}

func libNode(basePath, name string, deps ...string) domain.RawNode {
	n := domain.RawNode{
		domain.RawAttrBasePath: basePath,
		domain.RawAttrName:     name,
		domain.RawAttrType:     "library",
	}
	if len(deps) > 0 {
		n[domain.RawAttrDeps] = deps
	}
	return n
}

func parsed(buildFile string, nodes ...domain.RawNode) *ports.ParseResult {
	targets := make(map[string]domain.RawNode, len(nodes))
	for _, n := range nodes {
		name, _ := n.Name()
		targets[name] = n
	}
	return &ports.ParseResult{
		Manifest: &domain.BuildFileManifest{
			BuildFile: domain.NewInternedString(buildFile),
			Targets:   targets,
			ReadFiles: []string{buildFile},
		},
	}
}

func mustTarget(t *testing.T, cell domain.Cell, s string) domain.BuildTarget {
	t.Helper()
	target, err := domain.ParseTarget(cell, s)
	require.NoError(t, err)
	return target
}

// Two concurrent requests for the same target must share one parse and one
// conversion, and both must observe the same published node.
func TestPipeline_ConvertsEachTargetOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		buildFile := "/repo/foo/BUILD.yaml"
		target := mustTarget(t, h.cell, "//foo:bar")
		node := &domain.TargetNode{Target: target, RuleType: domain.NewInternedString("library")}

		h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
			Return(parsed(buildFile, libNode("foo", "bar")), nil).
			Times(1)
		h.registry.EXPECT().Capabilities("library").
			Return(domain.RuleCapabilities{}, nil).
			Times(1)
		h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, target, gomock.Any()).
			Return(node, nil).
			Times(1)

		p := h.pipeline(pipeline.Config{})
		results := make(chan *domain.TargetNode, 2)
		for range 2 {
			go func() {
				got, err := p.Node(t.Context(), target)
				assert.NoError(t, err)
				results <- got
			}()
		}
		synctest.Wait()

		first, second := <-results, <-results
		assert.Same(t, node, first)
		assert.Same(t, first, second)
	})
}

func TestPipeline_ManifestParsedOncePerBuildFile(t *testing.T) {
	h := newHarness(t)
	buildFile := "/repo/foo/BUILD.yaml"
	bar := mustTarget(t, h.cell, "//foo:bar")
	baz := mustTarget(t, h.cell, "//foo:baz")

	h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
		Return(parsed(buildFile, libNode("foo", "bar"), libNode("foo", "baz")), nil).
		Times(1)
	h.registry.EXPECT().Capabilities("library").
		Return(domain.RuleCapabilities{}, nil).
		Times(2)
	h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, bar, gomock.Any()).
		Return(&domain.TargetNode{Target: bar}, nil)
	h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, baz, gomock.Any()).
		Return(&domain.TargetNode{Target: baz}, nil)

	p := h.pipeline(pipeline.Config{})
	barNode, err := p.Node(t.Context(), bar)
	require.NoError(t, err)
	bazNode, err := p.Node(t.Context(), baz)
	require.NoError(t, err)
	assert.NotSame(t, barNode, bazNode)
}

// A converted node survives the session that produced it: a fresh pipeline
// over the same cell state serves it without touching parser or factory.
func TestPipeline_NodesPersistAcrossSessions(t *testing.T) {
	h := newHarness(t)
	buildFile := "/repo/foo/BUILD.yaml"
	target := mustTarget(t, h.cell, "//foo:bar")
	node := &domain.TargetNode{Target: target}

	h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
		Return(parsed(buildFile, libNode("foo", "bar")), nil).
		Times(1)
	h.registry.EXPECT().Capabilities("library").
		Return(domain.RuleCapabilities{}, nil).
		Times(1)
	h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, target, gomock.Any()).
		Return(node, nil).
		Times(1)

	first, err := h.pipeline(pipeline.Config{}).Node(t.Context(), target)
	require.NoError(t, err)

	second, err := h.pipeline(pipeline.Config{}).Node(t.Context(), target)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

// Parse failures resolve every requester in the failing session but are never
// committed, so the next session retries from scratch.
func TestPipeline_ParseErrorsDoNotOutliveTheSession(t *testing.T) {
	h := newHarness(t)
	buildFile := "/repo/foo/BUILD.yaml"
	target := mustTarget(t, h.cell, "//foo:bar")
	boom := assert.AnError

	gomock.InOrder(
		h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
			Return(nil, boom),
		h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
			Return(parsed(buildFile, libNode("foo", "bar")), nil),
	)
	h.registry.EXPECT().Capabilities("library").
		Return(domain.RuleCapabilities{}, nil)
	h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, target, gomock.Any()).
		Return(&domain.TargetNode{Target: target}, nil)

	failing := h.pipeline(pipeline.Config{})
	_, err := failing.Node(t.Context(), target)
	require.ErrorIs(t, err, boom)

	// Same session: the failed job is memoized, no re-parse happens.
	_, err = failing.Node(t.Context(), target)
	require.ErrorIs(t, err, boom)

	// New session over the same cell state: the parse runs again.
	_, err = h.pipeline(pipeline.Config{}).Node(t.Context(), target)
	require.NoError(t, err)
}

func TestPipeline_UnknownTargetInManifest(t *testing.T) {
	h := newHarness(t)
	buildFile := "/repo/foo/BUILD.yaml"
	target := mustTarget(t, h.cell, "//foo:missing")

	h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
		Return(parsed(buildFile, libNode("foo", "bar")), nil)

	_, err := h.pipeline(pipeline.Config{}).Node(t.Context(), target)
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestPipeline_RejectsUnsupportedFlavor(t *testing.T) {
	h := newHarness(t)
	buildFile := "/repo/foo/BUILD.yaml"
	target := mustTarget(t, h.cell, "//foo:bar#opt")

	h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
		Return(parsed(buildFile, libNode("foo", "bar")), nil)
	h.registry.EXPECT().Capabilities("library").
		Return(domain.RuleCapabilities{Flavored: false}, nil)

	_, err := h.pipeline(pipeline.Config{}).Node(t.Context(), target)
	require.ErrorIs(t, err, domain.ErrUnsupportedFlavor)
}

// With speculation on, converting a node prefetches each declared dependency;
// flavored deps are speculated both without and with their flavors.
func TestPipeline_SpeculativeDepsPrefetched(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		buildFile := "/repo/foo/BUILD.yaml"
		bar := mustTarget(t, h.cell, "//foo:bar")
		depFlavored := mustTarget(t, h.cell, "//foo:dep#shared")
		depBase := depFlavored.WithoutFlavors()
		barNode := &domain.TargetNode{
			Target:    bar,
			ParseDeps: []domain.BuildTarget{depFlavored},
		}

		h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
			Return(parsed(buildFile, libNode("foo", "bar", "//foo:dep#shared"), libNode("foo", "dep")), nil).
			Times(1)
		h.registry.EXPECT().Capabilities("library").
			Return(domain.RuleCapabilities{Flavored: true}, nil).
			AnyTimes()
		h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, bar, gomock.Any()).
			Return(barNode, nil)
		h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, depBase, gomock.Any()).
			Return(&domain.TargetNode{Target: depBase}, nil)
		h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, depFlavored, gomock.Any()).
			Return(&domain.TargetNode{Target: depFlavored}, nil)

		p := h.pipeline(pipeline.Config{SpeculativeDepsTraversal: true, PrefetchWorkers: 2})
		got, err := p.Node(t.Context(), bar)
		require.NoError(t, err)
		assert.Same(t, barNode, got)

		// Prefetch runs detached; drain it so the controller sees every call.
		synctest.Wait()
	})
}

// A failing speculative dep is logged and forgotten: the requested node still
// converts cleanly.
func TestPipeline_SpeculativeFailureIsLoggedNotSurfaced(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		buildFile := "/repo/foo/BUILD.yaml"
		otherBuildFile := "/repo/other/BUILD.yaml"
		bar := mustTarget(t, h.cell, "//foo:bar")
		barNode := &domain.TargetNode{
			Target:    bar,
			ParseDeps: []domain.BuildTarget{mustTarget(t, h.cell, "//other:missing")},
		}

		h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
			Return(parsed(buildFile, libNode("foo", "bar", "//other:missing")), nil)
		h.parser.EXPECT().Parse(gomock.Any(), h.cell, otherBuildFile).
			Return(parsed(otherBuildFile), nil)
		h.registry.EXPECT().Capabilities("library").
			Return(domain.RuleCapabilities{}, nil)
		h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, bar, gomock.Any()).
			Return(barNode, nil)
		h.logger.EXPECT().Warn(gomock.Any()).Times(1)

		p := h.pipeline(pipeline.Config{SpeculativeDepsTraversal: true})
		got, err := p.Node(t.Context(), bar)
		require.NoError(t, err)
		assert.Same(t, barNode, got)

		synctest.Wait()
	})
}

// A dependency chain deeper than the prefetch worker count must not wedge the
// pipeline: the lone worker waits on //foo:b while b's own conversion finds
// every worker busy, drops its speculation, and completes. Every target still
// resolves on the normal request path.
func TestPipeline_DeepDepChainWithSaturatedPrefetch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := newHarness(t)
		buildFile := "/repo/foo/BUILD.yaml"
		a := mustTarget(t, h.cell, "//foo:a")
		b := mustTarget(t, h.cell, "//foo:b")
		c := mustTarget(t, h.cell, "//foo:c")
		aNode := &domain.TargetNode{Target: a, ParseDeps: []domain.BuildTarget{b}}
		bNode := &domain.TargetNode{Target: b, ParseDeps: []domain.BuildTarget{c}}
		cNode := &domain.TargetNode{Target: c}

		h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
			Return(parsed(buildFile,
				libNode("foo", "a", "//foo:b"),
				libNode("foo", "b", "//foo:c"),
				libNode("foo", "c")), nil).
			Times(1)
		h.registry.EXPECT().Capabilities("library").
			Return(domain.RuleCapabilities{}, nil).
			AnyTimes()
		h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, a, gomock.Any()).
			Return(aNode, nil).
			Times(1)
		h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, b, gomock.Any()).
			Return(bNode, nil).
			Times(1)
		h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, c, gomock.Any()).
			Return(cNode, nil).
			Times(1)

		p := h.pipeline(pipeline.Config{SpeculativeDepsTraversal: true, PrefetchWorkers: 1})
		_, err := p.Node(t.Context(), a)
		require.NoError(t, err)

		gotB, err := p.Node(t.Context(), b)
		require.NoError(t, err)
		assert.Same(t, bNode, gotB)

		gotC, err := p.Node(t.Context(), c)
		require.NoError(t, err)
		assert.Same(t, cNode, gotC)

		synctest.Wait()
	})
}

func TestPipeline_AllNodes(t *testing.T) {
	h := newHarness(t)
	buildFile := "/repo/foo/BUILD.yaml"
	bar := mustTarget(t, h.cell, "//foo:bar")
	baz := mustTarget(t, h.cell, "//foo:baz")

	h.parser.EXPECT().Parse(gomock.Any(), h.cell, buildFile).
		Return(parsed(buildFile, libNode("foo", "baz"), libNode("foo", "bar")), nil).
		Times(1)
	h.registry.EXPECT().Capabilities("library").
		Return(domain.RuleCapabilities{}, nil).
		Times(2)
	h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, bar, gomock.Any()).
		Return(&domain.TargetNode{Target: bar}, nil)
	h.factory.EXPECT().CreateNode(gomock.Any(), h.cell, baz, gomock.Any()).
		Return(&domain.TargetNode{Target: baz}, nil)

	p := h.pipeline(pipeline.Config{})
	raw, err := p.AllRawNodes(t.Context(), buildFile)
	require.NoError(t, err)
	require.Len(t, raw, 2)

	nodes, err := p.AllNodes(t.Context(), buildFile)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, bar, nodes[0].Target, "nodes come back in declaration-name order")
	assert.Equal(t, baz, nodes[1].Target)
}
