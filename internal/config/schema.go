package config

// NetworkConfig is the top-level network declaration (JSON or YAML).
// Nodes and Edges keep file order; that order becomes registry order and
// parent order downstream.
type NetworkConfig struct {
	Preferences map[string]interface{} `yaml:"preferences"` // resolved by ResolvePreferences
	Nodes       []NodeDecl             `yaml:"nodes"`
	Edges       []string               `yaml:"edges"` // "Source -> Target" or "Source => Target"
}

// NodeDecl declares one discrete variable.
type NodeDecl struct {
	Name     string   `yaml:"name"`
	Column   string   `yaml:"csv_name"` // dataset column; defaults to Name
	Values   []string `yaml:"values"`   // ordered domain
	Position string   `yaml:"position"` // "(row, column)" or "(row/column)"
}

// Preferences holds the scalar settings of a run after layering defaults,
// the config file, environment variables and command-line flags.
type Preferences struct {
	CSVDelimiter  string `koanf:"csv_delimiter" validate:"csvdelim"`
	GridSizeX     int    `koanf:"grid_size_x" validate:"gt=0"`
	GridSizeY     int    `koanf:"grid_size_y" validate:"gt=0"`
	DataThreshold int    `koanf:"data_threshold" validate:"gte=0"`
	Workers       int    `koanf:"workers" validate:"gte=1"`
	MaxConditions int64  `koanf:"max_conditions" validate:"gte=0"` // 0 = unlimited
	NetworkName   string `koanf:"network_name" validate:"required"`
}

// Delimiter returns the CSV field separator as a rune.
func (p *Preferences) Delimiter() rune {
	for _, r := range p.CSVDelimiter {
		return r
	}
	return '\t'
}
