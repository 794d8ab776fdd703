package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigLoader handles loading and parsing YAML configuration files
type ConfigLoader struct {
	configDir string
}

// NewConfigLoader creates a new config loader with the specified directory
func NewConfigLoader(configDir string) *ConfigLoader {
	return &ConfigLoader{
		configDir: configDir,
	}
}

// TimezoneConfig maps city names (lowercase) to IANA timezone identifiers
// for the time lookup tool.
type TimezoneConfig struct {
	Cities map[string]string `yaml:"cities"`
}

// GcloudTemplateConfig carries CLI fallback settings: the gcloud binary and
// flags appended to every invocation.
type GcloudTemplateConfig struct {
	Binary      string   `yaml:"binary"`
	GlobalFlags []string `yaml:"global_flags"`
}

// LoadTimezones loads the city-to-timezone catalogue. A missing file is not
// an error; the catalogue is simply empty.
func (c *ConfigLoader) LoadTimezones() (*TimezoneConfig, error) {
	var config TimezoneConfig
	err := c.loadYAMLFile("timezones.yaml", &config)
	if err != nil {
		if os.IsNotExist(err) {
			return &TimezoneConfig{Cities: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("failed to load timezone catalogue: %w", err)
	}
	return &config, nil
}

// LoadGcloudTemplate loads CLI fallback settings.
func (c *ConfigLoader) LoadGcloudTemplate() (*GcloudTemplateConfig, error) {
	var config GcloudTemplateConfig
	err := c.loadYAMLFile("gcloud.yaml", &config)
	if err != nil {
		if os.IsNotExist(err) {
			return &GcloudTemplateConfig{Binary: "gcloud"}, nil
		}
		return nil, fmt.Errorf("failed to load gcloud settings: %w", err)
	}
	if config.Binary == "" {
		config.Binary = "gcloud"
	}
	return &config, nil
}

// loadYAMLFile loads and unmarshals a YAML file into the provided structure
func (c *ConfigLoader) loadYAMLFile(filename string, target interface{}) error {
	filePath := filepath.Join(c.configDir, filename)

	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse YAML file %s: %w", filePath, err)
	}

	return nil
}
