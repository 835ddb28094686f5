// Package manifest holds the declarative registry document the pipeline is
// configured from: brands, prompt templates, and generation models. The
// manifest is parsed once at startup; all lookups afterwards are static.
package manifest

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultManifest []byte

// Brand declares one brand's registry entry.
type Brand struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Positioning string `yaml:"positioning"`
	PrimaryCTA  string `yaml:"primary_cta"`
}

// Template declares one prompt template tier. Hook "default" marks the
// brand's per-format default tier.
type Template struct {
	Brand  string `yaml:"brand"`
	Format string `yaml:"format"`
	Hook   string `yaml:"hook"`
	Prompt string `yaml:"prompt"`
}

// Model declares one generation model and the formats it supports.
type Model struct {
	Key         string            `yaml:"key"`
	Kind        string            `yaml:"kind"`
	Formats     []string          `yaml:"formats"`
	DefaultFor  []string          `yaml:"default_for"`
	CostPerCall float64           `yaml:"cost_per_call"`
	Variants    map[string]string `yaml:"variants"`
}

// Document is the root of the manifest file.
type Document struct {
	Brands    []Brand    `yaml:"brands"`
	Templates []Template `yaml:"templates"`
	Models    []Model    `yaml:"models"`
}

// Load reads the manifest at path, or the embedded default when path is empty.
func Load(path string) (*Document, error) {
	data := defaultManifest
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("manifest: read %s: %w", path, err)
		}
		data = b
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("manifest: no models declared")
	}
	return &doc, nil
}
