package config

// NavConfig is the top-level YAML structure.
type NavConfig struct {
	Version  string     `yaml:"version"`
	LogLevel string     `yaml:"log_level"` // debug | info | warn | error
	Map      MapConf    `yaml:"map"`
	Engine   EngineConf `yaml:"engine"`
}

// MapConf points at the map file the graphs are built from.
type MapConf struct {
	Path string `yaml:"path"`
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	QueryWorkers   int `yaml:"query_workers"`
	QueueDepth     int `yaml:"queue_depth"`
	QueryTimeoutMs int `yaml:"query_timeout_ms"`
}
