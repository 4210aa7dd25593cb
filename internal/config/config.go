// Package config loads and validates checkmate configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HistoryConfig configures the run-history store.
type HistoryConfig struct {
	// Enabled turns on recording of check outcomes after each run.
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database.
	DBPath string `yaml:"db_path"`
}

// Config holds runner configuration options.
type Config struct {
	// Timeout caps the duration of a whole orchestration run.
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel sets console verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogDir is where per-run log files are written.
	LogDir string `yaml:"log_dir"`

	// Upstream is the remote default branch used for changed-file
	// discovery, e.g. "origin/master".
	Upstream string `yaml:"upstream"`

	// WorkflowFile is the CI pipeline definition steps are resolved from.
	WorkflowFile string `yaml:"workflow_file"`

	// FlakeConfig is the style tool's own config file, the source of its
	// exclude rules.
	FlakeConfig string `yaml:"flake_config"`

	// ClangTidyExe is the native-analysis binary to use.
	ClangTidyExe string `yaml:"clang_tidy_exe"`

	// History configures the run-history store.
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Timeout:      2 * time.Hour,
		LogLevel:     "info",
		LogDir:       ".checkmate/logs",
		Upstream:     "origin/master",
		WorkflowFile: filepath.Join(".github", "workflows", "lint.yml"),
		FlakeConfig:  ".flake8",
		ClangTidyExe: "clang-tidy",
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(".checkmate", "history.db"),
		},
	}
}

// LoadConfig loads configuration from the given path. A missing file
// yields defaults without error; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations arrive as strings in YAML.
	type yamlConfig struct {
		Timeout      string        `yaml:"timeout"`
		LogLevel     string        `yaml:"log_level"`
		LogDir       string        `yaml:"log_dir"`
		Upstream     string        `yaml:"upstream"`
		WorkflowFile string        `yaml:"workflow_file"`
		FlakeConfig  string        `yaml:"flake_config"`
		ClangTidyExe string        `yaml:"clang_tidy_exe"`
		History      *HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.Upstream != "" {
		cfg.Upstream = yamlCfg.Upstream
	}
	if yamlCfg.WorkflowFile != "" {
		cfg.WorkflowFile = yamlCfg.WorkflowFile
	}
	if yamlCfg.FlakeConfig != "" {
		cfg.FlakeConfig = yamlCfg.FlakeConfig
	}
	if yamlCfg.ClangTidyExe != "" {
		cfg.ClangTidyExe = yamlCfg.ClangTidyExe
	}
	if yamlCfg.History != nil {
		cfg.History = *yamlCfg.History
		if cfg.History.DBPath == "" {
			cfg.History.DBPath = DefaultConfig().History.DBPath
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads .checkmate/config.yaml beneath dir, falling back
// to defaults when absent.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".checkmate", "config.yaml"))
}

// MergeWithFlags overrides config values with any non-nil CLI flag values.
// Flags take precedence over the config file.
func (c *Config) MergeWithFlags(timeout *time.Duration, logLevel, workflowFile, clangTidyExe *string) {
	if timeout != nil {
		c.Timeout = *timeout
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if workflowFile != nil {
		c.WorkflowFile = *workflowFile
	}
	if clangTidyExe != nil {
		c.ClangTidyExe = *clangTidyExe
	}
}

// Validate checks the merged configuration for usable values.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.Upstream == "" {
		return fmt.Errorf("upstream branch must not be empty")
	}
	return nil
}
