// File: internal/config/config.go
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/flotsam/internal/syntax"
)

// EnvPrefix namespaces the environment variables viper reads, e.g.
// FLOTSAM_OUTPUT_FORMAT overrides output.format.
const EnvPrefix = "FLOTSAM"

// EnvKeyReplacer maps config keys to environment variable segments.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Config holds the entire application configuration. File and environment
// sources are merged by viper before unmarshalling into this struct.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Source SourceConfig `mapstructure:"source" yaml:"source"`
	Rules  RulesConfig  `mapstructure:"rules" yaml:"rules"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Check gets its marching orders from CLI flags, not the config file.
	Check CheckConfig `mapstructure:"-" yaml:"-"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig tunes the concurrent lint driver.
type EngineConfig struct {
	// Concurrency caps the number of files analyzed in parallel.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// SourceConfig controls which files the walker hands to the engine.
type SourceConfig struct {
	// Extensions overrides the default lintable extension set.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	// Excludes are directory basenames skipped during traversal.
	Excludes []string `mapstructure:"excludes" yaml:"excludes"`
	// MaxFileSize skips files larger than this many bytes. Zero or negative
	// means the built-in default.
	MaxFileSize int64 `mapstructure:"max_file_size" yaml:"max_file_size"`
	// IncludeHTML lints inline <script> bodies in .html/.htm documents.
	IncludeHTML bool `mapstructure:"include_html" yaml:"include_html"`
}

// RulesConfig selects which rules run.
type RulesConfig struct {
	// Enable names rules to run in addition to the recommended set.
	// Experimental rules only run when listed here.
	Enable []string `mapstructure:"enable" yaml:"enable"`
}

// OutputConfig selects the report format and destination.
type OutputConfig struct {
	// Format is one of text, json, sarif or checkstyle.
	Format string `mapstructure:"format" yaml:"format"`
	// Path receives the report; empty means stdout.
	Path string `mapstructure:"path" yaml:"path"`
}

// CheckConfig holds settings populated from CLI flags for a single check run.
type CheckConfig struct {
	Targets []string
	// Write applies safe fixes to disk.
	Write bool
	// Unsafe additionally applies fixes marked unsafe. Only meaningful
	// together with Write.
	Unsafe bool
	// Since restricts linting to files changed relative to a git revision.
	Since string
}

var validFormats = map[string]bool{
	"text":       true,
	"json":       true,
	"sarif":      true,
	"checkstyle": true,
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "flotsam")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	v.SetDefault("engine.concurrency", runtime.NumCPU())

	// -- Source --
	v.SetDefault("source.extensions", syntax.LintableExtensions)
	v.SetDefault("source.excludes", []string{})
	v.SetDefault("source.max_file_size", 0)
	v.SetDefault("source.include_html", false)

	// -- Rules --
	// no-floating-promises is experimental and must be named to run; a
	// fresh install names it so the tool reports out of the box.
	v.SetDefault("rules.enable", []string{"no-floating-promises"})

	// -- Output --
	v.SetDefault("output.format", "text")
	v.SetDefault("output.path", "")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Engine.Concurrency <= 0 {
		return fmt.Errorf("engine.concurrency must be a positive integer")
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output.format %q is not one of text, json, sarif, checkstyle", c.Output.Format)
	}
	return nil
}
