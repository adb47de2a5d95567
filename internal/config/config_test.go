// file: internal/config/config_test.go
// version: 1.3.0
// guid: 2d3e4f5a-6b7c-8d9e-0f1a-2b3c4d5e6f70

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	AppConfig = Config{}
}

func TestInitConfigDefaults(t *testing.T) {
	resetConfig(t)

	InitConfig()

	if AppConfig.DatabaseType != "pebble" {
		t.Errorf("expected default database type pebble, got %q", AppConfig.DatabaseType)
	}
	if AppConfig.EnableSQLite {
		t.Error("expected SQLite to be disabled by default")
	}
	if AppConfig.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", AppConfig.Port)
	}
}

func TestInitConfigNormalizesSQLite3(t *testing.T) {
	resetConfig(t)

	viper.Set("database_type", "sqlite3")
	InitConfig()

	if AppConfig.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite3 to normalize to sqlite, got %q", AppConfig.DatabaseType)
	}
}

func TestInitConfigReadsValues(t *testing.T) {
	resetConfig(t)

	viper.Set("database_path", "/data/bookfeed.db")
	viper.Set("covers_dir", "/data/covers")
	viper.Set("base_url", "https://books.example.com")
	viper.Set("enable_sqlite3_i_know_the_risks", true)
	InitConfig()

	if AppConfig.DatabasePath != "/data/bookfeed.db" {
		t.Errorf("unexpected database path %q", AppConfig.DatabasePath)
	}
	if AppConfig.CoversDir != "/data/covers" {
		t.Errorf("unexpected covers dir %q", AppConfig.CoversDir)
	}
	if AppConfig.BaseURL != "https://books.example.com" {
		t.Errorf("unexpected base URL %q", AppConfig.BaseURL)
	}
	if !AppConfig.EnableSQLite {
		t.Error("expected SQLite flag to be set")
	}
}

func TestConfigFilePath(t *testing.T) {
	resetConfig(t)

	AppConfig.DatabasePath = "/data/db/bookfeed.db"
	if got := ConfigFilePath(); got != "/data/db/config.yaml" {
		t.Errorf("unexpected config path %q", got)
	}

	AppConfig.DatabasePath = ""
	if got := ConfigFilePath(); got != "" {
		t.Errorf("expected empty path without database path, got %q", got)
	}
}

func TestLoadConfigFromFileMissing(t *testing.T) {
	resetConfig(t)

	AppConfig.DatabasePath = filepath.Join(t.TempDir(), "bookfeed.db")
	if err := LoadConfigFromFile(); err != nil {
		t.Fatalf("expected missing config file to be ignored, got %v", err)
	}
}

func TestSaveAndLoadConfigFile(t *testing.T) {
	resetConfig(t)

	dir := t.TempDir()
	AppConfig.DatabasePath = filepath.Join(dir, "bookfeed.db")
	AppConfig.DatabaseType = "pebble"
	AppConfig.CoversDir = filepath.Join(dir, "covers")
	AppConfig.BaseURL = "https://books.example.com"
	AppConfig.Host = "127.0.0.1"
	AppConfig.Port = "9090"

	if err := SaveConfigToFile(); err != nil {
		t.Fatalf("SaveConfigToFile: %v", err)
	}

	savedCovers := AppConfig.CoversDir
	AppConfig.CoversDir = ""
	AppConfig.BaseURL = ""

	if err := LoadConfigFromFile(); err != nil {
		t.Fatalf("LoadConfigFromFile: %v", err)
	}
	if AppConfig.CoversDir != savedCovers {
		t.Errorf("expected covers dir %q restored, got %q", savedCovers, AppConfig.CoversDir)
	}
	if AppConfig.BaseURL != "https://books.example.com" {
		t.Errorf("expected base URL restored, got %q", AppConfig.BaseURL)
	}
}

func TestLoadConfigFileDoesNotOverrideSetValues(t *testing.T) {
	resetConfig(t)

	dir := t.TempDir()
	AppConfig.DatabasePath = filepath.Join(dir, "bookfeed.db")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("base_url: https://file.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	AppConfig.BaseURL = "https://flag.example.com"
	if err := LoadConfigFromFile(); err != nil {
		t.Fatalf("LoadConfigFromFile: %v", err)
	}
	if AppConfig.BaseURL != "https://flag.example.com" {
		t.Errorf("file value overrode flag value: %q", AppConfig.BaseURL)
	}
}
