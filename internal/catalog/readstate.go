package catalog

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RewriteReadFlag returns the document with the read property set to the
// given value in its frontmatter. Other frontmatter fields keep their order
// and values; the body is untouched. A document without a frontmatter block
// gets one synthesized containing only the read property, prepended to the
// existing content.
func RewriteReadFlag(data []byte, property string, read bool) ([]byte, error) {
	const delim = "---"

	trimmed := bytes.TrimLeft(data, "\n\r")
	lead := data[:len(data)-len(trimmed)]

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return synthesizeFrontmatter(data, property, read), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// Unclosed block; the whole file is body.
		return synthesizeFrontmatter(data, property, read), nil
	}

	block := rest[:idx]
	tail := rest[idx+1+len(delim):] // everything after the closing delimiter

	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, fmt.Errorf("frontmatter is not valid YAML: %w", err)
	}

	mapping := documentMapping(&doc)
	if mapping == nil {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}
	setBoolKey(mapping, property, read)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}

	var out bytes.Buffer
	out.Write(lead)
	out.WriteString(delim + "\n")
	out.Write(buf.Bytes())
	out.WriteString(delim)
	out.Write(tail)
	return out.Bytes(), nil
}

// synthesizeFrontmatter prepends a minimal frontmatter block holding only the
// read property.
func synthesizeFrontmatter(data []byte, property string, read bool) []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, "---\n%s: %t\n---\n", property, read)
	out.Write(data)
	return out.Bytes()
}

// documentMapping returns the top-level mapping node of a parsed frontmatter
// document, or a fresh one when the block was empty.
func documentMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	return root
}

// setBoolKey updates the value under key in place, or appends the pair when
// the key is missing.
func setBoolKey(mapping *yaml.Node, key string, value bool) {
	val := strconv.FormatBool(value)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k := mapping.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			v := mapping.Content[i+1]
			v.Kind = yaml.ScalarNode
			v.Tag = "!!bool"
			v.Value = val
			v.Style = 0
			v.Content = nil
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val},
	)
}
