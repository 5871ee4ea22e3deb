package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. TMUXOPTS_TMUX_SOCKET_NAME.
const EnvPrefix = "TMUXOPTS"

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// Load reads configuration from path, falling back to DefaultConfigPath when
// path is empty. A missing file yields the defaults; environment variables
// override both.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("tmux.binary", cfg.Tmux.Binary)
	v.SetDefault("tmux.socket_name", cfg.Tmux.SocketName)
	v.SetDefault("tmux.socket_path", cfg.Tmux.SocketPath)
	v.SetDefault("tmux.timeout", cfg.Tmux.Timeout)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("output.format", cfg.Output.Format)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.Tmux.SocketPath = expandHome(cfg.Tmux.SocketPath)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot type check.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Tmux.Binary) == "" {
		return fmt.Errorf("tmux.binary is required")
	}
	if _, err := c.Tmux.TimeoutDuration(); err != nil {
		return err
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format must be one of %s, %s, %s (got %q)", FormatText, FormatJSON, FormatYAML, c.Output.Format)
	}
	level := strings.ToLower(c.Log.Level)
	for _, known := range logLevels {
		if level == known {
			return nil
		}
	}
	return fmt.Errorf("log.level must be one of %s (got %q)", strings.Join(logLevels, ", "), c.Log.Level)
}

// TimeoutDuration parses tmux.timeout. Zero disables the timeout.
func (t TmuxConfig) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(t.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.Timeout)
	if err != nil {
		return 0, fmt.Errorf("tmux.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("tmux.timeout must not be negative (got %s)", t.Timeout)
	}
	return d, nil
}

// WriteDefault writes the default config to path and returns the path used.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
