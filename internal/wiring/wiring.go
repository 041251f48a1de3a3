// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/parsec/internal/adapters/buildfile"
	_ "go.trai.ch/parsec/internal/adapters/config"
	_ "go.trai.ch/parsec/internal/adapters/fs"
	_ "go.trai.ch/parsec/internal/adapters/logger"
	_ "go.trai.ch/parsec/internal/adapters/rules"
	_ "go.trai.ch/parsec/internal/adapters/telemetry"
	_ "go.trai.ch/parsec/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/parsec/internal/app"
)
