package hooks

// Config lists the shell hooks run for grid events.
type Config struct {
	OnChange []HookConfig `mapstructure:"on_change" yaml:"on_change,omitempty"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `mapstructure:"command" yaml:"command"`
	Timeout int    `mapstructure:"timeout" yaml:"timeout,omitempty"` // seconds, default 30
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
