package config

// Config is a fixture configuration.
type Config struct {
	Version        string         `yaml:"version"`
	Random         bool           `yaml:"random,omitempty"`
	Seed           uint64         `yaml:"seed,omitempty"`
	CollectionSize *int           `yaml:"collection_size,omitempty"`
	MaxDepth       *int           `yaml:"max_depth,omitempty"`
	LogLevel       string         `yaml:"log_level,omitempty"`
	Skip           []Skip         `yaml:"skip,omitempty"`
	Properties     []Property     `yaml:"properties,omitempty"`
	Names          map[string]any `yaml:"names,omitempty"`
	Saver          Saver          `yaml:"saver,omitempty"`
}

// Skip lists properties of a type that are never generated.
type Skip struct {
	Type       string   `yaml:"type"`
	Properties []string `yaml:"properties"`
}

// Property fixes the value of one property of a type.
type Property struct {
	Type     string `yaml:"type"`
	Property string `yaml:"property"`
	Value    any    `yaml:"value"`
}

// Saver locates the database of the SQL saver. An empty DSN means beans are
// not saved.
type Saver struct {
	Driver string `yaml:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
	Table  string `yaml:"table,omitempty"`
}

// Drivers lists the accepted saver drivers.
var Drivers = []string{"sqlite", "postgres", "mysql"}
