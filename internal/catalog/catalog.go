// Package catalog registers the generation models declared in the manifest
// and selects one for a given format. Selection is pure lookup: override if
// it supports the format, else the format default, else the first supporting
// model. No model at all for a format is a configuration error, not a
// transient one.
package catalog

import (
	"fmt"
	"strings"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/manifest"
)

// Model is one registered generation model.
type Model struct {
	Key         string
	Kind        domain.AssetKind
	Formats     []domain.OutputFormat
	DefaultFor  map[domain.OutputFormat]bool
	CostPerCall float64
	Variants    map[string]string
}

// Supports reports whether the model can serve the format.
func (m Model) Supports(format domain.OutputFormat) bool {
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ProviderID returns the provider-side model identifier for a quality tier,
// falling back to the model key when no variant is declared.
func (m Model) ProviderID(quality string) string {
	if id, ok := m.Variants[strings.ToLower(strings.TrimSpace(quality))]; ok && id != "" {
		return id
	}
	if id, ok := m.Variants["standard"]; ok && id != "" {
		return id
	}
	return m.Key
}

// Catalog is the static model registry. Registration order is preserved so
// "first registered supporting model" is deterministic.
type Catalog struct {
	models []Model
	byKey  map[string]Model
}

// NewCatalog builds a catalog from manifest model entries.
func NewCatalog(entries []manifest.Model) *Catalog {
	c := &Catalog{byKey: make(map[string]Model, len(entries))}
	for _, e := range entries {
		m := Model{
			Key:         strings.TrimSpace(e.Key),
			Kind:        domain.AssetKind(e.Kind),
			CostPerCall: e.CostPerCall,
			DefaultFor:  make(map[domain.OutputFormat]bool, len(e.DefaultFor)),
			Variants:    e.Variants,
		}
		if m.Key == "" {
			continue
		}
		for _, f := range e.Formats {
			m.Formats = append(m.Formats, domain.OutputFormat(f))
		}
		for _, f := range e.DefaultFor {
			m.DefaultFor[domain.OutputFormat(f)] = true
		}
		c.models = append(c.models, m)
		c.byKey[m.Key] = m
	}
	return c
}

// Get returns a registered model by key.
func (c *Catalog) Get(key string) (Model, bool) {
	m, ok := c.byKey[key]
	return m, ok
}

// Select picks the model for a format. An override key is honored only when
// its model declares support for the format; otherwise selection falls back
// to the format default, then the first registered supporting model. Quality
// never changes which model is picked, only which provider variant the
// invoker will address.
func (c *Catalog) Select(format domain.OutputFormat, quality, overrideKey string) (Model, error) {
	if overrideKey != "" {
		if m, ok := c.byKey[overrideKey]; ok && m.Supports(format) {
			return m, nil
		}
	}
	var first *Model
	for i := range c.models {
		m := c.models[i]
		if !m.Supports(format) {
			continue
		}
		if m.DefaultFor[format] {
			return m, nil
		}
		if first == nil {
			first = &c.models[i]
		}
	}
	if first != nil {
		return *first, nil
	}
	return Model{}, domain.ConfigFailure(fmt.Errorf("no model registered for format %q", format))
}
