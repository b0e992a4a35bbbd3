package catalog

import "strings"

// Excluded reports whether path falls under any of the exclusion rules.
//
// Both sides are normalized to forward slashes and rules lose a trailing
// slash. A rule matches when every one of its segments equals the
// corresponding path segment case-insensitively and the path is at most one
// segment longer than the rule: the rule names either the path itself or the
// directory the path sits directly in. Deeper descendants need their own
// rule. Pure function over the rule list.
func Excluded(path string, rules []string) bool {
	pathSegs := segments(path)
	if len(pathSegs) == 0 {
		return false
	}
	for _, rule := range rules {
		ruleSegs := segments(strings.TrimSuffix(normalizeSlashes(rule), "/"))
		if len(ruleSegs) == 0 {
			continue
		}
		if matchesRule(pathSegs, ruleSegs) {
			return true
		}
	}
	return false
}

func matchesRule(pathSegs, ruleSegs []string) bool {
	if len(pathSegs) < len(ruleSegs) || len(pathSegs) > len(ruleSegs)+1 {
		return false
	}
	for i, rs := range ruleSegs {
		if !strings.EqualFold(rs, pathSegs[i]) {
			return false
		}
	}
	return true
}

func segments(p string) []string {
	p = strings.Trim(normalizeSlashes(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
