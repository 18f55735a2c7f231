// Package config loads application configuration from file and environment
// and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultWorkspaceID is the tenant used when a caller does not specify one.
// The store migration seeds it.
const DefaultWorkspaceID = "00000000-0000-0000-0000-000000000001"

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Exa    ExaConfig    `yaml:"exa" mapstructure:"exa"`
	Run    RunConfig    `yaml:"run" mapstructure:"run"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the prospect store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ExaConfig holds Exa search API settings.
type ExaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	NumResults    int    `yaml:"num_results" mapstructure:"num_results"`
	MaxTextChars  int    `yaml:"max_text_chars" mapstructure:"max_text_chars"`
	IncludeDomain string `yaml:"include_domain" mapstructure:"include_domain"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries       int    `yaml:"retries" mapstructure:"retries"`
	BackoffMs     int    `yaml:"backoff_ms" mapstructure:"backoff_ms"`
	QueriesPerSec float64 `yaml:"queries_per_sec" mapstructure:"queries_per_sec"`
}

// RunConfig holds run-execution defaults.
type RunConfig struct {
	Workspace     string `yaml:"workspace" mapstructure:"workspace"`
	ResultsPerICP int    `yaml:"results_per_icp" mapstructure:"results_per_icp"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and PROSPECT_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	// Registered empty so PROSPECT_EXA_KEY is picked up without a file entry.
	v.SetDefault("exa.key", "")
	v.SetDefault("exa.base_url", "https://api.exa.ai")
	v.SetDefault("exa.num_results", 10)
	v.SetDefault("exa.max_text_chars", 500)
	v.SetDefault("exa.include_domain", "linkedin.com")
	v.SetDefault("exa.timeout_secs", 15)
	v.SetDefault("exa.retries", 3)
	v.SetDefault("exa.backoff_ms", 500)
	v.SetDefault("exa.queries_per_sec", 2.0)
	v.SetDefault("run.workspace", DefaultWorkspaceID)
	v.SetDefault("run.results_per_icp", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file is optional; env and defaults are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
