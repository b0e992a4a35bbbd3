package catalog

import (
	"strings"

	"github.com/veslatte/clipdex/internal/metadata"
)

// NormalizeFrontmatterTags cleans the frontmatter tags field into an ordered,
// deduplicated tag list. The field may be a YAML list or a single
// comma-separated string. Returns nil when the include flag is off or the
// field is absent.
func NormalizeFrontmatterTags(v metadata.Value, include bool) []string {
	if !include {
		return nil
	}
	var raw []string
	switch v.Kind {
	case metadata.List:
		raw = v.Strs
	case metadata.Scalar:
		raw = strings.Split(v.Str, ",")
	default:
		return nil
	}
	return normalizeTags(raw)
}

// NormalizeContentTags cleans inline tag occurrences into an ordered,
// deduplicated tag list.
func NormalizeContentTags(occurrences []string) []string {
	return normalizeTags(occurrences)
}

// UnionTags merges frontmatter tags before content tags, deduplicating while
// preserving first-seen order. The ordering matters: presentation groups
// frontmatter tags first.
func UnionTags(frontmatter, content []string) []string {
	out := make([]string, 0, len(frontmatter)+len(content))
	seen := make(map[string]struct{}, len(frontmatter)+len(content))
	for _, t := range frontmatter {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	for _, t := range content {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// normalizeTags strips one leading #, trims, drops empties, and dedupes
// preserving first occurrence. Idempotent.
func normalizeTags(raw []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
