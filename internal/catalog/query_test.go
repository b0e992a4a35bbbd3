package catalog

import (
	"reflect"
	"testing"

	"github.com/veslatte/clipdex/internal/models"
)

func rec(id, title string, created int64, read bool, tags ...string) models.CatalogRecord {
	return models.CatalogRecord{
		ID:           id,
		DisplayTitle: title,
		URLs:         map[string]models.URLValue{"source": {Values: []string{"https://example.com/" + id}}},
		CreatedAt:    created,
		AllTags:      tags,
		Read:         read,
	}
}

func ids(views []ViewRecord) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestApplyQuery_DefaultView(t *testing.T) {
	records := []models.CatalogRecord{
		rec("a.md", "A", 100, false),
		rec("b.md", "B", 300, true),
		rec("c.md", "C", 200, false),
	}
	got := ApplyQuery(records, Query{Sort: SortDate, Dir: Desc, Filter: FilterAll})
	want := []string{"b.md", "c.md", "a.md"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
}

func TestApplyQuery_ReadFilters(t *testing.T) {
	records := []models.CatalogRecord{
		rec("a.md", "A", 1, false),
		rec("b.md", "B", 2, true),
	}

	unread := ApplyQuery(records, Query{Sort: SortDate, Dir: Asc, Filter: FilterUnread})
	if !reflect.DeepEqual(ids(unread), []string{"a.md"}) {
		t.Errorf("unread = %v", ids(unread))
	}

	read := ApplyQuery(records, Query{Sort: SortDate, Dir: Asc, Filter: FilterRead})
	if !reflect.DeepEqual(ids(read), []string{"b.md"}) {
		t.Errorf("read = %v", ids(read))
	}
}

func TestApplyQuery_SortTitleCaseInsensitive(t *testing.T) {
	records := []models.CatalogRecord{
		rec("1.md", "banana", 1, false),
		rec("2.md", "Apple", 2, false),
		rec("3.md", "cherry", 3, false),
	}
	got := ApplyQuery(records, Query{Sort: SortTitle, Dir: Asc, Filter: FilterAll})
	want := []string{"2.md", "1.md", "3.md"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
}

func TestApplyQuery_SortReadStable(t *testing.T) {
	// Ascending read sort puts read records first; ties keep input order.
	records := []models.CatalogRecord{
		rec("u1.md", "U1", 1, false),
		rec("r1.md", "R1", 2, true),
		rec("u2.md", "U2", 3, false),
		rec("r2.md", "R2", 4, true),
	}
	got := ApplyQuery(records, Query{Sort: SortRead, Dir: Asc, Filter: FilterAll})
	want := []string{"r1.md", "r2.md", "u1.md", "u2.md"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}

	desc := ApplyQuery(records, Query{Sort: SortRead, Dir: Desc, Filter: FilterAll})
	wantDesc := []string{"u1.md", "u2.md", "r1.md", "r2.md"}
	if !reflect.DeepEqual(ids(desc), wantDesc) {
		t.Errorf("desc order = %v, want %v", ids(desc), wantDesc)
	}
}

func TestApplyQuery_SortPath(t *testing.T) {
	records := []models.CatalogRecord{
		rec("z/a.md", "A", 1, false),
		rec("a/z.md", "Z", 2, false),
	}
	got := ApplyQuery(records, Query{Sort: SortPath, Dir: Asc, Filter: FilterAll})
	if !reflect.DeepEqual(ids(got), []string{"a/z.md", "z/a.md"}) {
		t.Errorf("order = %v", ids(got))
	}
}

func TestApplyQuery_InputNotModified(t *testing.T) {
	records := []models.CatalogRecord{
		rec("b.md", "B", 2, false),
		rec("a.md", "A", 1, false),
	}
	_ = ApplyQuery(records, Query{Sort: SortTitle, Dir: Asc, Filter: FilterAll})
	if records[0].ID != "b.md" {
		t.Error("input slice reordered")
	}
}

func TestMatchesSearch(t *testing.T) {
	r := rec("a.md", "Deep Learning Weekly", 1, false, "ml", "newsletter")

	cases := []struct {
		term string
		want bool
	}{
		{"", true},
		{"deep", true},
		{"LEARNING", true},
		{"letter", true}, // substring of tag
		{"#ml", true},    // exact tag
		{"#m", false},    // no tag is exactly "m" and no tag contains "#m"
		{"quantum", false},
	}
	for _, tc := range cases {
		if got := MatchesSearch(r, tc.term); got != tc.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tc.term, got, tc.want)
		}
	}
}

func TestMatchesSearch_HashTermStillSubstring(t *testing.T) {
	// A note whose title contains the literal term matches even with #.
	r := rec("a.md", "about #go release", 1, false, "golang")
	if !MatchesSearch(r, "#go") {
		t.Error("title substring with # should match")
	}
}

func TestInvalidURLsFlagged(t *testing.T) {
	records := []models.CatalogRecord{
		{
			ID:           "m.md",
			DisplayTitle: "Mixed",
			URLs: map[string]models.URLValue{
				"source": {Values: []string{"https://ok.com/a", "notaurl"}, List: true},
				"link":   {Values: []string{"ftp://"}},
			},
			CreatedAt: 1,
		},
	}
	got := ApplyQuery(records, Query{Sort: SortDate, Dir: Asc, Filter: FilterAll})
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	want := []string{"ftp://", "notaurl"}
	if !reflect.DeepEqual(got[0].InvalidURLs, want) {
		t.Errorf("invalid urls = %v, want %v", got[0].InvalidURLs, want)
	}
	// The malformed values stay in the record itself.
	if len(got[0].URLs["source"].Values) != 2 {
		t.Error("invalid URL dropped from record")
	}
}
