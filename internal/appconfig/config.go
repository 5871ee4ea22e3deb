package appconfig

import (
	"os"
	"path/filepath"
)

// Output formats accepted by output.format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the tmuxopts CLI configuration.
type Config struct {
	Tmux   TmuxConfig   `mapstructure:"tmux" yaml:"tmux"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// TmuxConfig selects the tmux binary and server.
type TmuxConfig struct {
	Binary     string `mapstructure:"binary" yaml:"binary"`
	SocketName string `mapstructure:"socket_name" yaml:"socket_name"`
	SocketPath string `mapstructure:"socket_path" yaml:"socket_path"`
	// Timeout bounds each tmux invocation, in time.ParseDuration form.
	Timeout string `mapstructure:"timeout" yaml:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Tmux: TmuxConfig{
			Binary:  "tmux",
			Timeout: "5s",
		},
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// DefaultConfigPath returns the config file path under the user config dir.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tmuxopts", "config.yaml"), nil
}
