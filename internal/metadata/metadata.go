package metadata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Metadata is the on-disk description of a video. JSON files parse too,
// since YAML is a superset of JSON.
type Metadata struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Tags          []string `yaml:"tags"`
	AgeRestricted *bool    `yaml:"age_restricted"`
	Visibility    string   `yaml:"visibility"`
}

func Load(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
	}

	return &m, nil
}

// Merge returns m with every non-empty field of override applied on top.
func (m Metadata) Merge(override Metadata) Metadata {
	if override.Title != "" {
		m.Title = override.Title
	}
	if override.Description != "" {
		m.Description = override.Description
	}
	if override.Tags != nil {
		m.Tags = override.Tags
	}
	if override.AgeRestricted != nil {
		m.AgeRestricted = override.AgeRestricted
	}
	if override.Visibility != "" {
		m.Visibility = override.Visibility
	}
	return m
}
