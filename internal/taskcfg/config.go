// Package taskcfg loads and saves the Task Store's configuration file.
package taskcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPrefix is used when Config.Prefix is empty.
const DefaultPrefix = "TASK"

// Config is forge/tasks/config.json.
type Config struct {
	Prefix          string   `json:"prefix,omitempty"`
	ZeroPadding     int      `json:"zero_padding,omitempty"`
	DefaultPriority string   `json:"default_priority,omitempty"`
	DefaultLabels   []string `json:"default_labels,omitempty"`
	ProjectName     string   `json:"project_name,omitempty"`
}

// EffectivePrefix returns Prefix, defaulting to DefaultPrefix.
func (c Config) EffectivePrefix() string {
	if c.Prefix == "" {
		return DefaultPrefix
	}
	return c.Prefix
}

// Path returns the canonical config file path under projectRoot.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, "forge", "tasks", "config.json")
}

// NotFoundError reports a missing config file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task store config not found at %s", e.Path)
}

// Load reads and parses the config file at projectRoot.
func Load(projectRoot string) (Config, error) {
	path := Path(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, &NotFoundError{Path: path}
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to projectRoot's config file, creating parent
// directories as needed.
func Save(projectRoot string, cfg Config) error {
	path := Path(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// Exists reports whether a config file is already present at
// projectRoot, used by init's AlreadyInitialized check.
func Exists(projectRoot string) bool {
	_, err := os.Stat(Path(projectRoot))
	return err == nil
}
