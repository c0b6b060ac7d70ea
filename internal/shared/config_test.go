package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Node.URL != "http://localhost:8080" {
			t.Errorf("expected node url http://localhost:8080, got %s", config.Node.URL)
		}
		if config.Node.Variant != "id" {
			t.Errorf("expected variant id, got %s", config.Node.Variant)
		}
		if config.Catalog.DefaultTag != "defaultKey" {
			t.Errorf("expected default tag defaultKey, got %s", config.Catalog.DefaultTag)
		}
		if config.Database.Path != "./tagstream.db" {
			t.Errorf("expected database path ./tagstream.db, got %s", config.Database.Path)
		}
		if len(config.Player.Command) == 0 || config.Player.Command[0] != "mpv" {
			t.Errorf("expected mpv player command, got %v", config.Player.Command)
		}
		if config.Upload.KeepDraftOnFailure {
			t.Error("expected drafts to be cleared on failure by default")
		}
		if config.Node.Connected() {
			t.Error("expected default config to be disconnected")
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to be valid, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Node.BasePath != DefaultConfig().Node.BasePath {
			t.Errorf("created config base path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[node]
url = "http://node.local:9000/"
base_path = "/music:music:sys/"
id = "fake.os"
process = "music:music:sys"
variant = "path"

[catalog]
default_tag = "jazz"

[upload]
keep_draft_on_failure = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if got := config.Node.CatalogURL(); got != "http://node.local:9000/music:music:sys" {
			t.Errorf("unexpected catalog url %s", got)
		}
		if !config.Node.Connected() {
			t.Error("expected node to be connected")
		}
		if config.Catalog.DefaultTag != "jazz" {
			t.Errorf("expected default tag jazz, got %s", config.Catalog.DefaultTag)
		}
		if !config.Upload.KeepDraftOnFailure {
			t.Error("expected keep_draft_on_failure to be true")
		}
		if config.Database.Path != "./tagstream.db" {
			t.Errorf("expected unspecified keys to keep defaults, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(configPath, []byte("[node\nurl="), 0644)

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("TAGSTREAM_NODE_ID", "our.os")
		t.Setenv("TAGSTREAM_NODE_PROCESS", "tagstream:tagstream:template.os")
		t.Setenv("TAGSTREAM_PLAYER_COMMAND", "ffplay -nodisp {url}")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !config.Node.Connected() {
			t.Error("expected identity from environment")
		}
		if len(config.Player.Command) != 3 || config.Player.Command[0] != "ffplay" {
			t.Errorf("unexpected player command %v", config.Player.Command)
		}
		if config.Node.URL != "http://localhost:8080" {
			t.Errorf("expected unset variables to keep defaults, got %s", config.Node.URL)
		}
	})

	t.Run("ApplyEnv Dotenv", func(t *testing.T) {
		dotenv := filepath.Join(t.TempDir(), ".env")
		os.WriteFile(dotenv, []byte("TAGSTREAM_CATALOG_DEFAULT_TAG=lofi\n"), 0644)
		t.Cleanup(func() { os.Unsetenv("TAGSTREAM_CATALOG_DEFAULT_TAG") })

		config := DefaultConfig()
		if err := ApplyEnv(config, dotenv, filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Catalog.DefaultTag != "lofi" {
			t.Errorf("expected lofi from .env, got %s", config.Catalog.DefaultTag)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.Node.Variant = "mp3"
		if err := config.Validate(); !errors.Is(err, ErrUnknownVariant) {
			t.Errorf("expected ErrUnknownVariant, got %v", err)
		}

		config = DefaultConfig()
		config.Node.URL = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ParsedLevel", func(t *testing.T) {
		if got := (LogConfig{Level: "debug"}).ParsedLevel(); got != log.DebugLevel {
			t.Errorf("expected debug, got %v", got)
		}
		if got := (LogConfig{Level: "loud"}).ParsedLevel(); got != log.InfoLevel {
			t.Errorf("expected info fallback, got %v", got)
		}
	})
}
