package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix is prepended to every environment override (e.g. TAGSTREAM_NODE_URL).
const EnvPrefix = "TAGSTREAM_"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Node     NodeConfig     `toml:"node" envPrefix:"NODE_"`
	Catalog  CatalogConfig  `toml:"catalog" envPrefix:"CATALOG_"`
	Player   PlayerConfig   `toml:"player" envPrefix:"PLAYER_"`
	Upload   UploadConfig   `toml:"upload" envPrefix:"UPLOAD_"`
	Database DatabaseConfig `toml:"database" envPrefix:"DATABASE_"`
	Log      LogConfig      `toml:"log" envPrefix:"LOG_"`
}

// NodeConfig describes the hosting node and the catalog endpoint family it exposes.
type NodeConfig struct {
	URL               string  `toml:"url" env:"URL"`
	BasePath          string  `toml:"base_path" env:"BASE_PATH"`
	ID                string  `toml:"id" env:"ID"`
	Process           string  `toml:"process" env:"PROCESS"`
	WebSocketURL      string  `toml:"ws_url" env:"WS_URL"`
	Variant           string  `toml:"variant" env:"VARIANT"`
	TimeoutSeconds    int     `toml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
}

// CatalogURL joins the node address and the application base path.
func (n NodeConfig) CatalogURL() string {
	base := strings.TrimRight(n.URL, "/")
	path := strings.Trim(n.BasePath, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

// Connected reports whether a node identity was injected.
func (n NodeConfig) Connected() bool {
	return n.ID != "" && n.Process != ""
}

// Timeout returns the per-request timeout, zero meaning none.
func (n NodeConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// CatalogConfig contains query defaults.
type CatalogConfig struct {
	DefaultTag string `toml:"default_tag" env:"DEFAULT_TAG"`
}

// PlayerConfig contains the external audio player command.
type PlayerConfig struct {
	Command []string `toml:"command" env:"COMMAND" envSeparator:" "`
}

// UploadConfig contains upload policies.
type UploadConfig struct {
	PlaceholderName    string `toml:"placeholder_name" env:"PLACEHOLDER_NAME"`
	KeepDraftOnFailure bool   `toml:"keep_draft_on_failure" env:"KEEP_DRAFT_ON_FAILURE"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"PATH"`
	MaxOpenConns int    `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns int    `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
}

// ParsedLevel returns the configured [log.Level], defaulting to info.
func (l LogConfig) ParsedLevel() log.Level {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// LoadConfig reads a TOML configuration file on top of the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv loads dotenv files (missing files are ignored) and then overrides config fields
// from TAGSTREAM_* environment variables.
func ApplyEnv(config *Config, dotenv ...string) error {
	if len(dotenv) > 0 {
		for _, f := range dotenv {
			if _, err := os.Stat(f); err == nil {
				if err := godotenv.Load(f); err != nil {
					return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, f, err)
				}
			}
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the fields every command relies on.
func (c *Config) Validate() error {
	if c.Node.URL == "" {
		return fmt.Errorf("%w: node.url is required", ErrInvalidConfig)
	}
	switch c.Node.Variant {
	case "id", "path":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, c.Node.Variant)
	}
	if c.Node.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: node.requests_per_second must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
