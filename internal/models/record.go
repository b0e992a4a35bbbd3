// Package models defines the domain types for Clipdex.
package models

import "time"

// URLValue holds the extracted value of one source-URL property. A scalar
// property yields a single-element Values with List false; a list property
// keeps its surviving entries in order with List true. Values are never
// validated at extraction time; invalid URLs are flagged at query time so the
// user can see and fix them.
type URLValue struct {
	Values []string `json:"values"`
	List   bool     `json:"list"`
}

// CatalogRecord is the engine's normalized representation of one clipped
// document. Records are value types: a refresh produces a wholly new set and
// the only field mutated outside a refresh is Read.
type CatalogRecord struct {
	// ID is the document's vault-relative path, the record's identity
	// across refreshes.
	ID string `json:"id"`
	// DisplayTitle is the file's base name, or the first heading when the
	// name is an untitled placeholder.
	DisplayTitle string `json:"display_title"`
	// URLs maps each configured source property present in the document
	// to its extracted value. Never empty for a record in the catalog.
	URLs map[string]URLValue `json:"urls"`
	// CreatedAt is the repository-reported creation time in Unix
	// milliseconds, the default sort key.
	CreatedAt int64 `json:"created_at"`

	FrontmatterTags []string `json:"frontmatter_tags"`
	ContentTags     []string `json:"content_tags"`
	// AllTags is the deduplicated union of the two tag sets, frontmatter
	// first. Search matches against this set.
	AllTags []string `json:"all_tags"`

	// RawContent is the full document text, kept for title fallback.
	RawContent string `json:"-"`

	Read bool `json:"read"`
}

// DocMeta is a lightweight per-document descriptor returned by repository
// enumeration.
type DocMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
