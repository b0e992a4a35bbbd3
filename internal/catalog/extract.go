package catalog

import (
	"strings"

	"github.com/veslatte/clipdex/internal/metadata"
	"github.com/veslatte/clipdex/internal/models"
)

// ParseSourceProperties splits a comma-separated property-name setting into
// trimmed, non-empty names.
func ParseSourceProperties(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExtractURLs builds the urls mapping for one document from its frontmatter
// fields. List values are filtered to non-blank entries and included only
// when at least one survives; scalar values are kept as-is. No URL validation
// happens here; validity is a query-time concern. A nil result means the
// document is not a catalog candidate.
func ExtractURLs(fields map[string]metadata.Value, properties []string) map[string]models.URLValue {
	urls := make(map[string]models.URLValue)
	for _, prop := range properties {
		v, ok := fields[prop]
		if !ok {
			continue
		}
		switch v.Kind {
		case metadata.Scalar:
			if strings.TrimSpace(v.Str) == "" {
				continue
			}
			urls[prop] = models.URLValue{Values: []string{v.Str}}
		case metadata.List:
			var kept []string
			for _, s := range v.Strs {
				if strings.TrimSpace(s) != "" {
					kept = append(kept, s)
				}
			}
			if len(kept) == 0 {
				continue
			}
			urls[prop] = models.URLValue{Values: kept, List: true}
		}
	}
	if len(urls) == 0 {
		return nil
	}
	return urls
}

// ExtractRead reports the document's read flag: true only when the read
// property is configured and the frontmatter holds the boolean true under it.
// Truthy strings do not count.
func ExtractRead(fields map[string]metadata.Value, readProperty string) bool {
	if readProperty == "" {
		return false
	}
	v, ok := fields[readProperty]
	return ok && v.Kind == metadata.Boolean && v.Bool
}
