package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/parsec/internal/adapters/buildfile" //nolint:depguard // Wired in app layer
	"go.trai.ch/parsec/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/parsec/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/parsec/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/parsec/internal/adapters/rules"     //nolint:depguard // Wired in app layer
	"go.trai.ch/parsec/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	adapterwatcher "go.trai.ch/parsec/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/parsec/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			buildfile.ParserNodeID,
			rules.FactoryNodeID,
			rules.RegistryNodeID,
			fs.FinderNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			adapterwatcher.WatcherNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	configLoader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	parser, err := graft.Dep[ports.BuildFileParser](ctx)
	if err != nil {
		return nil, err
	}
	factory, err := graft.Dep[ports.NodeFactory](ctx)
	if err != nil {
		return nil, err
	}
	registry, err := graft.Dep[ports.RuleRegistry](ctx)
	if err != nil {
		return nil, err
	}
	finder, err := graft.Dep[ports.BuildFileFinder](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	return New(configLoader, parser, factory, registry, finder, log, tracer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	return &Components{
		App:     a,
		Logger:  log,
		Watcher: w,
	}, nil
}
