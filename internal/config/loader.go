package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configNames are tried in order inside each search directory.
var configNames = []string{"dashboard.yaml", "dashboard.yml", "dashboard.toml"}

// Load loads the dashboard configuration.
// Search order: customPath -> ~/.dashboard/dashboard.{yaml,yml,toml} ->
// ./configs/dashboard.{yaml,yml,toml} -> embedded default.
//
// Values missing from a file keep their defaults. Only an explicit path that
// cannot be read or parsed is an error; broken files found while searching
// are skipped.
func Load(customPath string) (DashboardConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DashboardConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decode(customPath, data)
		if err != nil {
			return DashboardConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, dir := range searchDirs() {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if cfg, err := decode(path, data); err == nil {
				return cfg, nil
			}
		}
	}

	// Use embedded default YAML
	cfg, err := decode("dashboard.yaml", defaultDashboardYAML)
	if err != nil {
		return DefaultDashboardConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes configuration data. format is "yaml" or "toml".
func Parse(format string, data []byte) (DashboardConfig, error) {
	return decode("config."+format, data)
}

// decode picks the format from the file extension and decodes data over
// the defaults.
func decode(path string, data []byte) (DashboardConfig, error) {
	cfg := DefaultDashboardConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return DashboardConfig{}, err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DashboardConfig{}, err
		}
	}
	return cfg, nil
}

// searchDirs lists the user and local config directories.
func searchDirs() []string {
	var dirs []string
	if dir := userConfigDir(); dir != "" {
		dirs = append(dirs, dir)
	}
	return append(dirs, "configs")
}

// userConfigDir returns ~/.dashboard, or empty if home is unavailable.
func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dashboard")
}

// Save writes cfg as YAML, or TOML when path ends in .toml.
func Save(path string, cfg DashboardConfig) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
