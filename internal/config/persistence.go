// file: internal/config/persistence.go
// version: 2.0.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilePath returns the path to the YAML config file next to the database.
func ConfigFilePath() string {
	if AppConfig.DatabasePath != "" {
		return filepath.Join(filepath.Dir(AppConfig.DatabasePath), "config.yaml")
	}
	return ""
}

// LoadConfigFromFile loads settings from the YAML config file as a fallback.
// File values only fill in fields that flags and environment left empty.
func LoadConfigFromFile() error {
	path := ConfigFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig map[string]string
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		log.Printf("[WARN] Failed to parse config file %s: %v", path, err)
		return nil
	}

	applied := 0
	stringFallbacks := map[string]*string{
		"covers_dir": &AppConfig.CoversDir,
		"base_url":   &AppConfig.BaseURL,
		"host":       &AppConfig.Host,
		"port":       &AppConfig.Port,
	}
	for key, target := range stringFallbacks {
		if value, ok := fileConfig[key]; ok && value != "" && *target == "" {
			*target = value
			applied++
		}
	}

	if applied > 0 {
		log.Printf("[DEBUG] Applied %d settings from config file %s", applied, path)
	}
	return nil
}

// SaveConfigToFile writes the current settings to the YAML config file so
// they survive restarts without flags.
func SaveConfigToFile() error {
	path := ConfigFilePath()
	if path == "" {
		return nil
	}

	fileConfig := map[string]string{
		"database_type": AppConfig.DatabaseType,
		"covers_dir":    AppConfig.CoversDir,
		"base_url":      AppConfig.BaseURL,
		"host":          AppConfig.Host,
		"port":          AppConfig.Port,
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
