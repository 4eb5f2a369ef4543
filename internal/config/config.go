package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/bitgrid/internal/hooks"
	"github.com/mark3labs/bitgrid/internal/widget"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the bitgrid configuration.
type Config struct {
	Name        string       `mapstructure:"name" yaml:"name,omitempty"`
	Rows        int          `mapstructure:"rows" yaml:"rows,omitempty"`
	Cols        int          `mapstructure:"cols" yaml:"cols,omitempty"`
	Data        [][]bool     `mapstructure:"data" yaml:"data,omitempty"`
	RowLabels   []string     `mapstructure:"row_labels" yaml:"row_labels,omitempty"`
	ColLabels   []string     `mapstructure:"col_labels" yaml:"col_labels,omitempty"`
	DebounceMs  int          `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	LogLevel    string       `mapstructure:"log_level" yaml:"log_level"`
	LogFile     string       `mapstructure:"log_file" yaml:"log_file"`
	NATS        NATSConfig   `mapstructure:"nats" yaml:"nats"`
	MCP         MCPConfig    `mapstructure:"mcp" yaml:"mcp"`
	WatchConfig bool         `mapstructure:"watch_config" yaml:"watch_config"`
	Hooks       hooks.Config `mapstructure:"hooks" yaml:"hooks,omitempty"`
}

// NATSConfig controls change publishing.
type NATSConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Port of the embedded server. Negative runs it in-process only.
	Port int `mapstructure:"port" yaml:"port"`
}

// MCPConfig controls the MCP control surface.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Defaults.
const (
	DefaultName     = "grid"
	DefaultNATSPort = 4222
	DefaultLogLevel = "info"
)

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"name":         "BITGRID_NAME",
	"rows":         "BITGRID_ROWS",
	"cols":         "BITGRID_COLS",
	"row_labels":   "BITGRID_ROW_LABELS",
	"col_labels":   "BITGRID_COL_LABELS",
	"debounce_ms":  "BITGRID_DEBOUNCE_MS",
	"log_level":    "BITGRID_LOG_LEVEL",
	"log_file":     "BITGRID_LOG_FILE",
	"nats.enabled": "BITGRID_NATS_ENABLED",
	"nats.port":    "BITGRID_NATS_PORT",
	"mcp.enabled":  "BITGRID_MCP_ENABLED",
	"watch_config": "BITGRID_WATCH_CONFIG",
}

// Load loads configuration from global and project files plus environment.
// Precedence: env > project > global > defaults.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit file layered on top of the project file.
// The explicit file must exist.
func LoadFile(path string) (*Config, error) {
	v := newViper()

	for _, p := range []string{GlobalPath(), ProjectPath()} {
		if err := mergeIfExists(v, p); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("name", DefaultName)
	v.SetDefault("rows", widget.DefaultRows)
	v.SetDefault("cols", widget.DefaultCols)
	v.SetDefault("debounce_ms", widget.DefaultDebounceMs)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.port", DefaultNATSPort)
	v.SetDefault("mcp.enabled", false)
	v.SetDefault("watch_config", false)

	v.SetEnvPrefix("BITGRID")
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

func mergeIfExists(v *viper.Viper, path string) error {
	if !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// ToWidgetOptions converts the grid section of the config to widget options.
// Explicit dimensions are only passed when no labels or data define them.
func (c *Config) ToWidgetOptions() widget.Options {
	return widget.Options{
		Name:       c.Name,
		Data:       c.Data,
		RowLabels:  c.RowLabels,
		ColLabels:  c.ColLabels,
		Rows:       c.Rows,
		Cols:       c.Cols,
		DebounceMs: c.DebounceMs,
	}
}

// Files returns the config files Load would read, in merge order.
func Files(explicit string) []string {
	var files []string
	for _, p := range []string{GlobalPath(), ProjectPath()} {
		if fileExists(p) {
			files = append(files, p)
		}
	}
	if explicit != "" {
		files = append(files, explicit)
	}
	return files
}

// Exists returns true if global or project config file exists.
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the global config file path.
func GlobalPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "bitgrid", "bitgrid.yml")
}

// ProjectPath returns the project config file path.
func ProjectPath() string {
	return "bitgrid.yml"
}

// WriteGlobal writes config to the global config file, creating its directory.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes config to the project config file.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
