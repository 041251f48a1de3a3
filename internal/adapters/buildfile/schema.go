package buildfile

// buildFileDTO is the YAML structure of one build file.
type buildFileDTO struct {
	Include []string             `yaml:"include"`
	Targets map[string]targetDTO `yaml:"targets"`
}

// targetDTO is one target declaration. Unknown keys are kept as free-form
// attributes on the raw node.
type targetDTO struct {
	Type    string            `yaml:"type"`
	Deps    []string          `yaml:"deps"`
	Flavors []string          `yaml:"flavors"`
	Env     map[string]string `yaml:"env"`
	Attrs   map[string]any    `yaml:",inline"`
}
