package catalog

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/veslatte/clipdex/internal/models"
)

// Sort keys.
type SortKey string

const (
	SortTitle SortKey = "title"
	SortDate  SortKey = "date"
	SortPath  SortKey = "path"
	SortRead  SortKey = "read"
)

// Sort directions.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ReadFilter narrows the view by read state. The two restrictive values are
// mutually exclusive by construction.
type ReadFilter string

const (
	FilterAll    ReadFilter = "all"
	FilterUnread ReadFilter = "unread" // hide read records
	FilterRead   ReadFilter = "read"   // show only read records
)

// Query describes one derived view over a snapshot.
type Query struct {
	Sort   SortKey
	Dir    Direction
	Filter ReadFilter
	Search string
}

// ViewRecord is a catalog record as served to the presentation layer, with
// URL validity flagged. Invalid URLs are never dropped from the record; the
// user needs to see them to fix them.
type ViewRecord struct {
	models.CatalogRecord
	InvalidURLs []string `json:"invalid_urls,omitempty"`
}

// ApplyQuery filters, searches, and sorts a snapshot's records. The input
// slice is not modified.
func ApplyQuery(records []models.CatalogRecord, q Query) []ViewRecord {
	out := make([]ViewRecord, 0, len(records))
	for _, r := range records {
		if q.Filter == FilterUnread && r.Read {
			continue
		}
		if q.Filter == FilterRead && !r.Read {
			continue
		}
		if !MatchesSearch(r, q.Search) {
			continue
		}
		out = append(out, ViewRecord{CatalogRecord: r, InvalidURLs: invalidURLs(r.URLs)})
	}
	sortRecords(out, q.Sort, q.Dir)
	return out
}

// MatchesSearch reports whether a record matches the search term:
// case-insensitive substring on the title, substring on any tag, or, when
// the term starts with #, an exact tag match. An empty term matches all.
func MatchesSearch(r models.CatalogRecord, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	if strings.Contains(strings.ToLower(r.DisplayTitle), lower) {
		return true
	}
	exact := ""
	if strings.HasPrefix(lower, "#") {
		exact = lower[1:]
	}
	for _, t := range r.AllTags {
		lt := strings.ToLower(t)
		if strings.Contains(lt, lower) {
			return true
		}
		if exact != "" && lt == exact {
			return true
		}
	}
	return false
}

// sortRecords orders the view stably by the chosen key. String keys compare
// case-insensitively with locale-aware collation; date is numeric; read
// ascending places read records before unread ones.
func sortRecords(recs []ViewRecord, key SortKey, dir Direction) {
	c := collate.New(language.Und, collate.IgnoreCase)
	cmp := func(a, b *ViewRecord) int {
		switch key {
		case SortDate:
			switch {
			case a.CreatedAt < b.CreatedAt:
				return -1
			case a.CreatedAt > b.CreatedAt:
				return 1
			}
			return 0
		case SortRead:
			return readRank(a.Read) - readRank(b.Read)
		case SortPath:
			return c.CompareString(a.ID, b.ID)
		case SortTitle:
			return c.CompareString(a.DisplayTitle, b.DisplayTitle)
		default:
			switch {
			case a.CreatedAt < b.CreatedAt:
				return -1
			case a.CreatedAt > b.CreatedAt:
				return 1
			}
			return 0
		}
	}
	desc := dir == Desc
	sort.SliceStable(recs, func(i, j int) bool {
		r := cmp(&recs[i], &recs[j])
		if desc {
			return r > 0
		}
		return r < 0
	})
}

// readRank orders read records first in ascending direction.
func readRank(read bool) int {
	if read {
		return 0
	}
	return 1
}

// invalidURLs returns the URL strings in the mapping that fail validation,
// in property order.
func invalidURLs(urls map[string]models.URLValue) []string {
	props := make([]string, 0, len(urls))
	for p := range urls {
		props = append(props, p)
	}
	sort.Strings(props)

	var out []string
	for _, p := range props {
		for _, s := range urls[p].Values {
			u, err := url.ParseRequestURI(s)
			if err != nil || u.Scheme == "" || u.Host == "" {
				out = append(out, s)
			}
		}
	}
	return out
}
