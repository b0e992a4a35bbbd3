package metacache

import (
	"os"
	"reflect"
	"testing"

	"github.com/veslatte/clipdex/internal/metadata"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "clipdex-cache-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleEntry() Entry {
	return Entry{
		Path:     "clips/a.md",
		Checksum: "abc123",
		Heading:  "A Title",
		Fields: map[string]metadata.Value{
			"source": {Kind: metadata.Scalar, Str: "https://a.com"},
			"read":   {Kind: metadata.Boolean, Bool: true},
			"tags":   {Kind: metadata.List, Strs: []string{"x", "y"}},
		},
		InlineTags: []string{"#x"},
	}
}

func TestPutAndGet(t *testing.T) {
	db := testDB(t)
	want := sampleEntry()
	if err := db.Put(want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := db.Get(want.Path, want.Checksum)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Heading != want.Heading {
		t.Errorf("heading = %q", got.Heading)
	}
	if !reflect.DeepEqual(got.Fields, want.Fields) {
		t.Errorf("fields = %+v, want %+v", got.Fields, want.Fields)
	}
	if !reflect.DeepEqual(got.InlineTags, want.InlineTags) {
		t.Errorf("inline tags = %v", got.InlineTags)
	}
}

func TestGet_ChecksumMismatchIsMiss(t *testing.T) {
	db := testDB(t)
	e := sampleEntry()
	_ = db.Put(e)

	if _, ok := db.Get(e.Path, "different"); ok {
		t.Error("stale checksum should miss")
	}
}

func TestGet_UnknownPathIsMiss(t *testing.T) {
	db := testDB(t)
	if _, ok := db.Get("nope.md", "x"); ok {
		t.Error("unknown path should miss")
	}
}

func TestPut_Upserts(t *testing.T) {
	db := testDB(t)
	e := sampleEntry()
	_ = db.Put(e)

	e.Checksum = "v2"
	e.Heading = "New Title"
	if err := db.Put(e); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, ok := db.Get(e.Path, "v2")
	if !ok {
		t.Fatal("expected hit on new checksum")
	}
	if got.Heading != "New Title" {
		t.Errorf("heading = %q", got.Heading)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	e := sampleEntry()
	_ = db.Put(e)

	if err := db.Delete(e.Path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := db.Get(e.Path, e.Checksum); ok {
		t.Error("entry should be gone")
	}

	// Deleting a missing path is not an error.
	if err := db.Delete("ghost.md"); err != nil {
		t.Errorf("delete missing: %v", err)
	}
}

func TestPrune(t *testing.T) {
	db := testDB(t)
	a := sampleEntry()
	b := sampleEntry()
	b.Path = "clips/b.md"
	_ = db.Put(a)
	_ = db.Put(b)

	live := map[string]struct{}{a.Path: {}}
	if err := db.Prune(live); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	if _, ok := db.Get(a.Path, a.Checksum); !ok {
		t.Error("live entry pruned")
	}
	if _, ok := db.Get(b.Path, b.Checksum); ok {
		t.Error("stale entry survived prune")
	}
}

func TestChecksum(t *testing.T) {
	db := testDB(t)
	e := sampleEntry()
	_ = db.Put(e)

	cs, err := db.Checksum(e.Path)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if cs != e.Checksum {
		t.Errorf("checksum = %q, want %q", cs, e.Checksum)
	}

	cs, err = db.Checksum("missing.md")
	if err != nil {
		t.Fatalf("Checksum missing: %v", err)
	}
	if cs != "" {
		t.Errorf("missing path checksum = %q, want empty", cs)
	}
}
