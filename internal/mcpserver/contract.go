package mcpserver

// ClipFormatContract describes the frontmatter shape a Markdown note must
// carry to appear in the clip catalog.
const ClipFormatContract = `# Clipdex Clipped Note Format

A note appears in the catalog when its frontmatter carries at least one
configured source-URL property with a non-empty value.

## Structure

` + "```" + `markdown
---
source: https://example.com/article   # REQUIRED - any configured source property
tags:                                  # OPTIONAL - YAML list or "a, b" string
  - reading
  - ai
read: false                            # OPTIONAL - boolean only; strings do not count
---

Body text in standard Markdown. Inline #tags are picked up too.
` + "```" + `

## Rules

1. **A source property is mandatory.** The default property name is ` + "`" + `source` + "`" + `;
   the configured set may include others (e.g. ` + "`" + `url` + "`" + `, ` + "`" + `link` + "`" + `).
2. A source property may hold a single URL or a YAML list of URLs. Blank
   list entries are ignored.
3. Values that are not valid URLs are kept and flagged, not dropped. Fix
   them in place.
4. **` + "`" + `read` + "`" + ` must be a YAML boolean.** ` + "`" + `read: "true"` + "`" + ` (a string) counts as unread.
5. Tags may live in the ` + "`" + `tags` + "`" + ` field, inline as ` + "`" + `#tag` + "`" + `, or both; a leading
   ` + "`" + `#` + "`" + ` is stripped and duplicates collapse.
6. Notes inside an excluded directory never appear in the catalog.
7. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.

## Example

` + "```" + `markdown
---
source: https://research.example.org/papers/attention
tags: papers, ml
read: false
---

# Attention Is All You Need

Clipped for the reading group. #to-discuss
` + "```" + `
`
