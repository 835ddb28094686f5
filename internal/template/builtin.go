package template

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

var titleCaser = cases.Title(language.English)

// genericBuilder synthesizes a minimal prompt from the brand's positioning
// and primary call-to-action. It is the terminal fallback tier and exists
// for every supported format, including brands with no registered templates.
func genericBuilder(brands domain.BrandRegistry, brandKey string, format domain.OutputFormat) Builder {
	return func(bc BuildContext) string {
		info := bc.Brand
		if info.Key == "" && brands != nil {
			info, _ = brands.Lookup(brandKey)
		}
		name := strings.TrimSpace(info.Name)
		if name == "" {
			name = titleCaser.String(strings.ReplaceAll(brandKey, "_", " "))
		}

		var b strings.Builder
		switch format {
		case domain.FormatImageKit:
			b.WriteString("Create a polished product image set for ")
		case domain.FormatMotionPost:
			b.WriteString("Create a short looping product clip for ")
		default:
			b.WriteString("Create a multi-shot promotional video for ")
		}
		b.WriteString(name)
		b.WriteString(".")
		if pos := strings.TrimSpace(info.Positioning); pos != "" {
			b.WriteString(" Positioning: ")
			b.WriteString(pos)
			b.WriteString(".")
		}
		if obj := strings.TrimSpace(bc.Objective); obj != "" {
			b.WriteString(" Objective: ")
			b.WriteString(obj)
			b.WriteString(".")
		}
		if bc.Brief != nil {
			if tone := strings.TrimSpace(bc.Brief.Tone); tone != "" {
				b.WriteString(" Tone: ")
				b.WriteString(tone)
				b.WriteString(".")
			}
			if look := strings.TrimSpace(bc.Brief.Look); look != "" {
				b.WriteString(" Look: ")
				b.WriteString(look)
				b.WriteString(".")
			}
		}
		if cta := strings.TrimSpace(info.PrimaryCTA); cta != "" {
			b.WriteString(" End on the call to action: \"")
			b.WriteString(cta)
			b.WriteString("\".")
		}
		return b.String()
	}
}
