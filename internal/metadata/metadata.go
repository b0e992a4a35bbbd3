// Package metadata parses frontmatter, inline tags, and headings from raw
// Markdown documents into a shape the catalog engine consumes.
package metadata

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	tagRe     = regexp.MustCompile(`(?:^|\s)(#[A-Za-z][A-Za-z0-9_/-]*)`)
	headingRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// Record holds the parsed metadata of one document.
type Record struct {
	// Fields holds every frontmatter key as a tagged-union Value, so
	// downstream code never branches on raw YAML shapes.
	Fields map[string]Value
	// InlineTags are the #tag occurrences found in the body, in order of
	// appearance, with the leading # retained.
	InlineTags []string
	// Heading is the first H1 heading of the body, used as a title
	// fallback for untitled placeholder file names.
	Heading string
	// Body is the document text after the frontmatter block.
	Body string
}

// Parse extracts frontmatter fields, inline tags, and the first heading from
// raw Markdown bytes. Invalid YAML degrades to a body-only record rather than
// an error; per-document parse problems never fail a whole refresh pass.
func Parse(data []byte) *Record {
	fm, body := splitFrontmatter(data)

	fields := make(map[string]Value, len(fm))
	for k, v := range fm {
		val := valueOf(v)
		if val.Kind != Absent {
			fields[k] = val
		}
	}

	return &Record{
		Fields:     fields,
		InlineTags: extractInlineTags(body),
		Heading:    extractHeading(body),
		Body:       body,
	}
}

// Field returns the value under key, or an Absent value when the key is
// missing.
func (r *Record) Field(key string) Value {
	if v, ok := r.Fields[key]; ok {
		return v
	}
	return Value{Kind: Absent}
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter; treat everything as body.
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}

	return fm, body
}

// extractInlineTags returns #tag occurrences from the body in order,
// duplicates preserved (the tag normalizer dedupes).
func extractInlineTags(body string) []string {
	matches := tagRe.FindAllStringSubmatch(body, -1)
	var out []string
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// extractHeading returns the text of the first H1 heading, or empty string.
func extractHeading(body string) string {
	m := headingRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
