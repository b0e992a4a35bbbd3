package metadata

import (
	"reflect"
	"testing"
)

func TestParse_ScalarAndBool(t *testing.T) {
	doc := []byte(`---
source: https://example.com/a
read: true
count: 3
---

# Heading

Body text.
`)
	r := Parse(doc)

	src := r.Field("source")
	if src.Kind != Scalar || src.Str != "https://example.com/a" {
		t.Errorf("source = %+v", src)
	}

	read := r.Field("read")
	if read.Kind != Boolean || !read.Bool {
		t.Errorf("read = %+v, want Boolean true", read)
	}

	// Non-string scalars coerce to their string form.
	count := r.Field("count")
	if count.Kind != Scalar || count.Str != "3" {
		t.Errorf("count = %+v, want Scalar \"3\"", count)
	}

	if r.Heading != "Heading" {
		t.Errorf("heading = %q", r.Heading)
	}
}

func TestParse_StringReadIsNotBoolean(t *testing.T) {
	doc := []byte("---\nread: \"true\"\n---\nbody")
	r := Parse(doc)
	v := r.Field("read")
	if v.Kind != Scalar {
		t.Errorf("quoted true should stay a scalar, got %+v", v)
	}
}

func TestParse_ListDropsNonStrings(t *testing.T) {
	doc := []byte(`---
url:
  - https://a.com
  - 42
  - https://b.com
---
body`)
	r := Parse(doc)
	v := r.Field("url")
	if v.Kind != List {
		t.Fatalf("kind = %v, want List", v.Kind)
	}
	want := []string{"https://a.com", "https://b.com"}
	if !reflect.DeepEqual(v.Strs, want) {
		t.Errorf("values = %v, want %v", v.Strs, want)
	}
}

func TestParse_AbsentField(t *testing.T) {
	r := Parse([]byte("just a body"))
	if v := r.Field("source"); v.Kind != Absent {
		t.Errorf("missing field = %+v, want Absent", v)
	}
}

func TestParse_InvalidYAMLDegradesToBody(t *testing.T) {
	doc := []byte("---\n: : not yaml [\n---\nbody text")
	r := Parse(doc)
	if len(r.Fields) != 0 {
		t.Errorf("fields = %v, want none", r.Fields)
	}
	if r.Body == "" {
		t.Error("body should be preserved")
	}
}

func TestParse_NoClosingDelimiter(t *testing.T) {
	doc := []byte("---\nsource: https://a.com\nno closing delim")
	r := Parse(doc)
	if len(r.Fields) != 0 {
		t.Errorf("unclosed frontmatter should parse as body, got fields %v", r.Fields)
	}
}

func TestParse_InlineTags(t *testing.T) {
	doc := []byte("Text with #alpha and #beta/gamma plus #alpha again.\nNot#a-tag and #9nope.")
	r := Parse(doc)
	want := []string{"#alpha", "#beta/gamma", "#alpha"}
	if !reflect.DeepEqual(r.InlineTags, want) {
		t.Errorf("inline tags = %v, want %v", r.InlineTags, want)
	}
}

func TestParse_HeadingRequiresH1(t *testing.T) {
	r := Parse([]byte("## Second level\n\ntext"))
	if r.Heading != "" {
		t.Errorf("heading = %q, want empty for non-H1", r.Heading)
	}

	r = Parse([]byte("intro\n\n# Actual Title\n\nmore"))
	if r.Heading != "Actual Title" {
		t.Errorf("heading = %q", r.Heading)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	r := Parse(nil)
	if len(r.Fields) != 0 || r.Heading != "" || len(r.InlineTags) != 0 {
		t.Errorf("empty doc produced %+v", r)
	}
}
