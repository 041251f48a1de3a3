package config

// workspaceDTO is the YAML structure of the parsec.yaml workspace file.
type workspaceDTO struct {
	Cells  map[string]cellDTO `yaml:"cells"`
	Daemon daemonDTO          `yaml:"daemon"`
}

// cellDTO is one cell entry. Root is resolved relative to the workspace file.
type cellDTO struct {
	Root           string   `yaml:"root"`
	BuildFileName  string   `yaml:"buildFileName"`
	EnvPassthrough []string `yaml:"envPassthrough"`
}

// daemonDTO holds daemon loop settings.
type daemonDTO struct {
	DebounceWindow  string `yaml:"debounceWindow"`
	SpeculativeDeps *bool  `yaml:"speculativeDeps"`
	PrefetchWorkers int    `yaml:"prefetchWorkers"`
}
