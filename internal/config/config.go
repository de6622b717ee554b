package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultDBPath          = "slangeval.sqlite3"
	DefaultAlternateDBPath = "slangeval-alternate.sqlite3"
	DefaultBatchSize       = 10
	DefaultEndOfCallWindow = 5
	DefaultContextRadius   = 10
	DefaultMaxScore        = 2
	DefaultAgentMarker     = "AGENT:"
)

// Config holds the application configuration. It is assembled once at
// startup from defaults, an optional TOML file, and environment overrides,
// and treated as immutable afterwards.
type Config struct {
	DBPath          string
	AlternateDBPath string
	LexiconPath     string
	AgentMarker     string
	BatchSize       int
	EndOfCallWindow int
	ContextRadius   int
	MaxScore        int
	LogLevel        string
	LogFile         string
}

type fileConfig struct {
	Storage struct {
		DBPath          string `toml:"db_path"`
		AlternateDBPath string `toml:"alternate_db_path"`
	} `toml:"storage"`
	Detection struct {
		LexiconPath     string `toml:"lexicon_path"`
		AgentMarker     string `toml:"agent_marker"`
		EndOfCallWindow int    `toml:"end_of_call_window"`
		ContextRadius   int    `toml:"context_radius"`
		MaxScore        int    `toml:"max_score"`
	} `toml:"detection"`
	Batch struct {
		Size int `toml:"size"`
	} `toml:"batch"`
	Logging struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"logging"`
}

// Load builds the configuration. configPath may be empty, in which case
// only defaults and environment variables apply; a named file that does
// not exist is an error.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		DBPath:          DefaultDBPath,
		AlternateDBPath: DefaultAlternateDBPath,
		AgentMarker:     DefaultAgentMarker,
		BatchSize:       DefaultBatchSize,
		EndOfCallWindow: DefaultEndOfCallWindow,
		ContextRadius:   DefaultContextRadius,
		MaxScore:        DefaultMaxScore,
		LogLevel:        "info",
	}

	if configPath != "" {
		fileData, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var parsed fileConfig
		if err := toml.Unmarshal(fileData, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		if parsed.Storage.DBPath != "" {
			cfg.DBPath = parsed.Storage.DBPath
		}
		if parsed.Storage.AlternateDBPath != "" {
			cfg.AlternateDBPath = parsed.Storage.AlternateDBPath
		}
		if parsed.Detection.LexiconPath != "" {
			cfg.LexiconPath = parsed.Detection.LexiconPath
		}
		if parsed.Detection.AgentMarker != "" {
			cfg.AgentMarker = parsed.Detection.AgentMarker
		}
		if parsed.Detection.EndOfCallWindow > 0 {
			cfg.EndOfCallWindow = parsed.Detection.EndOfCallWindow
		}
		if parsed.Detection.ContextRadius > 0 {
			cfg.ContextRadius = parsed.Detection.ContextRadius
		}
		if parsed.Detection.MaxScore > 0 {
			cfg.MaxScore = parsed.Detection.MaxScore
		}
		if parsed.Batch.Size > 0 {
			cfg.BatchSize = parsed.Batch.Size
		}
		if parsed.Logging.Level != "" {
			cfg.LogLevel = parsed.Logging.Level
		}
		if parsed.Logging.File != "" {
			cfg.LogFile = parsed.Logging.File
		}
	}

	// Environment overrides, matching the .env convention of the upstream
	// deployment.
	if v := os.Getenv("SLANGEVAL_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SLANGEVAL_ALTERNATE_DB_PATH"); v != "" {
		cfg.AlternateDBPath = v
	}
	if v := os.Getenv("SLANGEVAL_LEXICON_PATH"); v != "" {
		cfg.LexiconPath = v
	}
	if v := os.Getenv("SLANGEVAL_AGENT_MARKER"); v != "" {
		cfg.AgentMarker = v
	}
	if v := os.Getenv("SLANGEVAL_BATCH_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.BatchSize = size
		}
	}
	if v := os.Getenv("SLANGEVAL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SLANGEVAL_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	return cfg, nil
}

// Validate verifies the configuration is usable.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("primary database path is empty")
	}
	if c.AlternateDBPath == "" {
		return fmt.Errorf("alternate database path is empty")
	}
	if c.DBPath == c.AlternateDBPath {
		return fmt.Errorf("primary and alternate stores must be separate databases")
	}
	if c.AgentMarker == "" {
		return fmt.Errorf("agent marker is empty")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.EndOfCallWindow <= 0 {
		return fmt.Errorf("end-of-call window must be positive")
	}
	if c.ContextRadius < 0 {
		return fmt.Errorf("context radius cannot be negative")
	}
	if c.MaxScore <= 0 {
		return fmt.Errorf("max score must be positive")
	}
	return nil
}
