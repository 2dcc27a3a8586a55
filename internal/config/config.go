package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".notion-mcp"
	configFileName = "config"

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config represents the application configuration
type Config struct {
	Transport string        `mapstructure:"transport"`
	HTTP      HTTPConfig    `mapstructure:"http"`
	Notion    NotionConfig  `mapstructure:"notion"`
	Log       LogConfig     `mapstructure:"log"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
}

// HTTPConfig configures the streamable HTTP transport.
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Path string `mapstructure:"path"`
}

// NotionConfig configures the remote API client.
type NotionConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Version string        `mapstructure:"version"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig enables a separate Prometheus listener when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"transport":       "MCP_TRANSPORT",
	"http.host":       "MCP_HTTP_HOST",
	"http.port":       "PORT",
	"http.path":       "MCP_HTTP_PATH",
	"notion.base_url": "NOTION_API_BASE_URL",
	"notion.version":  "NOTION_VERSION",
	"notion.timeout":  "NOTION_TIMEOUT",
	"log.level":       "LOG_LEVEL",
	"log.format":      "LOG_FORMAT",
	"metrics.addr":    "METRICS_ADDR",
}

// Options controls where Load looks for its inputs.
type Options struct {
	// ConfigFile is an explicit config file; it must exist when set.
	ConfigFile string
	// EnvFile is a dotenv file loaded before reading the environment. Missing
	// files are ignored. Defaults to ".env".
	EnvFile string
	// SkipEnvFile disables dotenv loading.
	SkipEnvFile bool
}

// Load loads configuration from defaults, an optional config file and the environment.
// Environment values win over the file.
func Load(opts Options) (*Config, error) {
	if !opts.SkipEnvFile {
		envFile := opts.EnvFile
		if envFile == "" {
			envFile = ".env"
		}
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("unable to bind %s: %w", env, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist, we'll use defaults and env vars
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Transport = NormalizeTransport(cfg.Transport)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("transport", TransportStdio)
	v.SetDefault("http.host", "")
	v.SetDefault("http.port", 3030)
	v.SetDefault("http.path", "/mcp")
	v.SetDefault("notion.base_url", "https://api.notion.com/v1")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("notion.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.addr", "")
}

// NormalizeTransport maps "http" (any case) to TransportHTTP and everything else to stdio.
func NormalizeTransport(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), TransportHTTP) {
		return TransportHTTP
	}
	return TransportStdio
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	if !strings.HasPrefix(c.HTTP.Path, "/") {
		return fmt.Errorf("http path must start with '/': %q", c.HTTP.Path)
	}
	if c.Notion.Timeout < 0 {
		return fmt.Errorf("notion timeout must not be negative: %s", c.Notion.Timeout)
	}
	return nil
}

// ListenAddr is the host:port the HTTP transport binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// Dir returns the per-user config directory (~/.notion-mcp).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName), nil
}
