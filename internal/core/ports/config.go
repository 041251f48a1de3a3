package ports

import "go.trai.ch/parsec/internal/core/domain"

// ConfigLoader loads the workspace configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config.go -destination=mocks/mock_config.go -package=mocks
type ConfigLoader interface {
	// Load reads the workspace configuration for the given working directory.
	Load(cwd string) (*domain.WorkspaceConfig, error)
}
