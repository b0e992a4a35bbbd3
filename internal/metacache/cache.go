package metacache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/veslatte/clipdex/internal/metadata"
)

// Entry is one cached parse result.
type Entry struct {
	Path       string
	Checksum   string
	Heading    string
	Fields     map[string]metadata.Value
	InlineTags []string
}

// Get returns the cached entry for path if its checksum matches, or
// (nil, false) on a miss. A stale entry (checksum mismatch) is a miss.
func (db *DB) Get(path, checksum string) (*Entry, bool) {
	var (
		e          Entry
		fieldsJSON string
		tagsJSON   string
	)
	err := db.conn.QueryRow(
		`SELECT path, checksum, heading, fields, inline_tags FROM documents WHERE path = ?`,
		path,
	).Scan(&e.Path, &e.Checksum, &e.Heading, &fieldsJSON, &tagsJSON)
	if err != nil {
		return nil, false
	}
	if e.Checksum != checksum {
		return nil, false
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(tagsJSON), &e.InlineTags); err != nil {
		return nil, false
	}
	return &e, true
}

// Put upserts a cache entry.
func (db *DB) Put(e Entry) error {
	fieldsJSON, err := json.Marshal(e.Fields)
	if err != nil {
		return fmt.Errorf("metacache: marshal fields: %w", err)
	}
	tagsJSON, err := json.Marshal(nonNil(e.InlineTags))
	if err != nil {
		return fmt.Errorf("metacache: marshal inline tags: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO documents (path, checksum, heading, fields, inline_tags, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum    = excluded.checksum,
			heading     = excluded.heading,
			fields      = excluded.fields,
			inline_tags = excluded.inline_tags,
			parsed_at   = excluded.parsed_at
	`, e.Path, e.Checksum, e.Heading, string(fieldsJSON), string(tagsJSON), time.Now())
	if err != nil {
		return fmt.Errorf("metacache: upsert: %w", err)
	}
	return nil
}

// Delete removes a cache entry. Missing paths are not an error.
func (db *DB) Delete(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("metacache: delete %s: %w", path, err)
	}
	return nil
}

// Prune removes entries whose paths are not in live.
func (db *DB) Prune(live map[string]struct{}) error {
	rows, err := db.conn.Query(`SELECT path FROM documents`)
	if err != nil {
		return fmt.Errorf("metacache: prune scan: %w", err)
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return err
		}
		if _, ok := live[p]; !ok {
			stale = append(stale, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range stale {
		if err := db.Delete(p); err != nil {
			return err
		}
	}
	return nil
}

// Checksum returns the stored checksum for path, or empty string when the
// path is not cached.
func (db *DB) Checksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("metacache: checksum %s: %w", path, err)
	}
	return cs, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
