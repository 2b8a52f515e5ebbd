package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat caseflow configuration: who is operating the
// CLI and where optional case-type templates live.
type Config struct {
	Version       string `json:"version"`
	ActorID       string `json:"actor_id"`                 // USR-XXX
	Role          string `json:"role"`                     // analyst, expert, admin
	TemplatesPath string `json:"templates_path,omitempty"` // optional YAML template overlay
}

// LoadConfig reads .caseflow/config.json from the specified directory.
// Resolution order: the given directory, then the home directory.
// Returns an error if no config is found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".caseflow", "config.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		path = filepath.Join(home, ".caseflow", "config.json")
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".caseflow")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .caseflow dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
