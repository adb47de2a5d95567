// file: internal/config/config.go
// version: 1.3.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	DatabaseType string // "pebble" (default) or "sqlite"
	EnableSQLite bool   // Must be true to use SQLite (safety flag)
	CoversDir    string // Local cover cache directory
	BaseURL      string // External base URL override for feed links
	Host         string
	Port         string
}

var AppConfig Config

// InitConfig initializes the application configuration from viper
func InitConfig() {
	// Set defaults
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("enable_sqlite3_i_know_the_risks", false)
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", "8080")

	AppConfig = Config{
		DatabasePath: viper.GetString("database_path"),
		DatabaseType: viper.GetString("database_type"),
		EnableSQLite: viper.GetBool("enable_sqlite3_i_know_the_risks"),
		CoversDir:    viper.GetString("covers_dir"),
		BaseURL:      viper.GetString("base_url"),
		Host:         viper.GetString("host"),
		Port:         viper.GetString("port"),
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}
}
