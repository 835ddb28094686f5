// Package brand exposes the brand-data lookup the template resolver depends
// on. Brand content itself is authored upstream; the pipeline only reads the
// positioning and call-to-action strings registered in the manifest.
package brand

import (
	"strings"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/manifest"
)

// Registry is a static, manifest-populated brand lookup.
type Registry struct {
	brands map[string]domain.BrandInfo
}

// NewRegistry builds a registry from manifest brand entries.
func NewRegistry(entries []manifest.Brand) *Registry {
	brands := make(map[string]domain.BrandInfo, len(entries))
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		if key == "" {
			continue
		}
		brands[key] = domain.BrandInfo{
			Key:         key,
			Name:        e.Name,
			Positioning: e.Positioning,
			PrimaryCTA:  e.PrimaryCTA,
		}
	}
	return &Registry{brands: brands}
}

// Lookup returns the registered brand info for key.
func (r *Registry) Lookup(brandKey string) (domain.BrandInfo, bool) {
	info, ok := r.brands[strings.ToLower(strings.TrimSpace(brandKey))]
	return info, ok
}

var _ domain.BrandRegistry = (*Registry)(nil)
