package config

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
	// Token guards the HTTP API with bearer auth. Empty disables auth.
	Token string
}

type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type StorageConfig struct {
	DataDir string
}

type PipelineConfig struct {
	// Duration strings ("15s", "1m"). Unparseable or empty values fall
	// back to the pipeline defaults.
	AnalysisTimeout string
	RoadmapTimeout  string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4000,
		},
		Gemini: GeminiConfig{
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   "gemini-2.0-flash",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Pipeline: PipelineConfig{
			AnalysisTimeout: "15s",
			RoadmapTimeout:  "20s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/astra/config.json, then applies ASTRA_* environment
// overrides.
//
// A missing Gemini API key is not a load error: every pipeline degrades
// to its deterministic fallback, so the app stays usable offline.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
