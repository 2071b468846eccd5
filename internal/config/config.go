package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain"
)

//go:embed default.yaml
var defaultConfig []byte

// DefaultMaxRetries is used when elasticsearch.max_retries is not set.
const DefaultMaxRetries = 5

// Config holds the elasticsearch-mcp configuration.
type Config struct {
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	HTTP          HTTPConfig          `yaml:"http"`
	Auth          AuthConfig          `yaml:"auth"`
	Tools         ToolsConfig         `yaml:"tools"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ElasticsearchConfig holds connection settings for the cluster.
type ElasticsearchConfig struct {
	URL                string `yaml:"url"`
	APIKey             string `yaml:"api_key"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	CACert             string `yaml:"ca_cert"`
	SSLSkipVerify      bool   `yaml:"ssl_skip_verify"`
	ContainerMode      bool   `yaml:"container_mode"`
	MaxRetries         *int   `yaml:"max_retries"` // 0 disables retries
	DisableCompression bool   `yaml:"disable_compression"`
	RequestTimeoutSec  int    `yaml:"request_timeout_sec"`
	MetadataTimeoutSec int    `yaml:"metadata_timeout_sec"`
	ReadinessTimeout   int    `yaml:"readiness_timeout_sec"`
}

// HasBasicAuth reports whether username and password are configured.
func (c ElasticsearchConfig) HasBasicAuth() bool {
	return c.Username != "" && c.Password != ""
}

// HTTPConfig holds HTTP transport settings.
type HTTPConfig struct {
	Port            int  `yaml:"port"`
	ReadTimeoutSec  int  `yaml:"read_timeout_sec"`
	WriteTimeoutSec int  `yaml:"write_timeout_sec"` // 0 keeps SSE streams open
	ShutdownSec     int  `yaml:"shutdown_timeout_sec"`
	Stateless       bool `yaml:"stateless"`
}

// AuthConfig holds bearer keys for the HTTP transport.
type AuthConfig struct {
	APIKeys StringList `yaml:"api_keys"`
}

// ToolsConfig narrows the advertised tool set.
type ToolsConfig struct {
	Include StringList `yaml:"include"`
	Exclude StringList `yaml:"exclude"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`  // rotated JSON log file, stderr only when empty
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// StringList accepts either a YAML sequence or a comma-separated scalar,
// so list settings can come from a single environment variable.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("decode list: %w", err)
		}
		*l = compact(items)
	case yaml.ScalarNode:
		*l = compact(strings.Split(value.Value, ","))
	default:
		return fmt.Errorf("line %d: expected a list or a comma-separated string", value.Line)
	}
	return nil
}

func compact(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load reads configuration by environment name (local, dev, docker, prod).
// A .env file in the working directory is loaded first without overriding
// variables already set. Without a config/<env>.yaml file the embedded
// defaults are used, which read everything from the environment.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	data := defaultConfig
	if configPath, ok := findConfigPath(env); ok {
		raw, err := os.ReadFile(filepath.Clean(configPath))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
		data = raw
	}

	return Parse(data)
}

// Parse expands environment placeholders in data, decodes it, applies
// defaults and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	c.Elasticsearch.URL = strings.TrimSpace(c.Elasticsearch.URL)
	if c.Elasticsearch.MaxRetries == nil {
		n := DefaultMaxRetries
		c.Elasticsearch.MaxRetries = &n
	}
	if c.Elasticsearch.RequestTimeoutSec <= 0 {
		c.Elasticsearch.RequestTimeoutSec = 60
	}
	if c.Elasticsearch.MetadataTimeoutSec <= 0 {
		c.Elasticsearch.MetadataTimeoutSec = 30
	}
	if c.Elasticsearch.ReadinessTimeout <= 0 {
		c.Elasticsearch.ReadinessTimeout = 5
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	es := c.Elasticsearch
	if es.URL == "" {
		return domain.NewConfigurationError("elasticsearch.url", "is required")
	}
	u, err := url.Parse(es.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.NewConfigurationError("elasticsearch.url", fmt.Sprintf("must be an http(s) URL, got %q", es.URL))
	}
	if (es.Username == "") != (es.Password == "") {
		return domain.NewConfigurationError("elasticsearch.username",
			"and elasticsearch.password must be set together")
	}
	if es.MaxRetries != nil && *es.MaxRetries < 0 {
		return domain.NewConfigurationError("elasticsearch.max_retries",
			fmt.Sprintf("must not be negative, got %d", *es.MaxRetries))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return domain.NewConfigurationError("http.port",
			fmt.Sprintf("must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.HTTP.WriteTimeoutSec < 0 {
		return domain.NewConfigurationError("http.write_timeout_sec", "must not be negative")
	}
	return nil
}

// findConfigPath locates config/<env>.yaml.
func findConfigPath(env string) (string, bool) {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path, true
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path, true
	}

	return "", false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
