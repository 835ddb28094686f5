// Package template resolves (brand, format, hook) to a prompt builder via a
// layered fallback chain. Templates are registered statically at startup from
// the manifest; a missing tier always degrades to the next one, terminating
// at a built-in generic template that exists for every supported format.
package template

import (
	"strings"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/manifest"
)

// DefaultHook is the tier used when a hook type is not recognized for a format.
const DefaultHook = "default"

// BuildContext carries everything a prompt builder may reference.
type BuildContext struct {
	Brand     domain.BrandInfo
	Objective string
	HookType  string
	Variables map[string]string
	Brief     *domain.CompactCreativeBrief
}

// Builder produces a provider-ready generation prompt.
type Builder func(bc BuildContext) string

type templateKey struct {
	brand  string
	format domain.OutputFormat
	hook   string
}

// hooksByFormat lists the hook variants each format recognizes. Anything
// else resolves to the format's default tier.
var hooksByFormat = map[domain.OutputFormat][]string{
	domain.FormatSpotVideo:  {"contrast", "concept", "motorized_demo", DefaultHook},
	domain.FormatMotionPost: {DefaultHook},
	domain.FormatImageKit:   {DefaultHook},
}

// Resolver is the static template lookup table.
type Resolver struct {
	templates map[templateKey]Builder
	brands    domain.BrandRegistry
}

// NewResolver registers manifest templates against the brand registry.
func NewResolver(entries []manifest.Template, brands domain.BrandRegistry) *Resolver {
	r := &Resolver{
		templates: make(map[templateKey]Builder, len(entries)),
		brands:    brands,
	}
	for _, e := range entries {
		k := templateKey{
			brand:  strings.ToLower(strings.TrimSpace(e.Brand)),
			format: domain.OutputFormat(e.Format),
			hook:   normalizeHook(strings.TrimSpace(e.Hook)),
		}
		if k.brand == "" || e.Prompt == "" {
			continue
		}
		prompt := e.Prompt
		r.templates[k] = func(bc BuildContext) string {
			return expand(prompt, bc)
		}
	}
	return r
}

// Resolve walks the fallback chain: exact (brand, format, hook), then the
// brand's per-format default, then the built-in generic template. It never
// fails; absence of brand templates is expected, not an error.
func (r *Resolver) Resolve(brandKey string, format domain.OutputFormat, hookType string) Builder {
	brandKey = strings.ToLower(strings.TrimSpace(brandKey))
	hook := RecognizedHook(format, hookType)

	if b, ok := r.templates[templateKey{brand: brandKey, format: format, hook: hook}]; ok {
		return b
	}
	if b, ok := r.templates[templateKey{brand: brandKey, format: format, hook: DefaultHook}]; ok {
		return b
	}
	return genericBuilder(r.brands, brandKey, format)
}

// RecognizedHook maps a requested hook type onto the format's hook set,
// degrading unknown hooks to the default tier.
func RecognizedHook(format domain.OutputFormat, hookType string) string {
	hook := normalizeHook(hookType)
	for _, known := range hooksByFormat[format] {
		if hook == known {
			return hook
		}
	}
	return DefaultHook
}

func normalizeHook(hook string) string {
	hook = strings.ToLower(strings.TrimSpace(hook))
	if hook == "" {
		return DefaultHook
	}
	return hook
}

// expand substitutes ${name} placeholders from the build context. Unknown
// placeholders are left in place so authoring mistakes stay visible in the
// produced prompt instead of silently vanishing.
func expand(tmpl string, bc BuildContext) string {
	pairs := []string{
		"${brand}", bc.Brand.Name,
		"${positioning}", bc.Brand.Positioning,
		"${cta}", bc.Brand.PrimaryCTA,
		"${objective}", bc.Objective,
		"${hook}", bc.HookType,
	}
	if bc.Brief != nil {
		pairs = append(pairs,
			"${concept}", bc.Brief.Concept,
			"${tone}", bc.Brief.Tone,
			"${look}", bc.Brief.Look,
			"${camera}", bc.Brief.Camera,
			"${light}", bc.Brief.Light,
			"${music}", bc.Brief.Music,
			"${vo}", bc.Brief.VO,
			"${text}", bc.Brief.Text,
		)
	}
	out := strings.NewReplacer(pairs...).Replace(tmpl)
	for name, value := range bc.Variables {
		out = strings.ReplaceAll(out, "${var."+name+"}", value)
	}
	return strings.TrimSpace(out)
}
