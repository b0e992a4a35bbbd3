// Package storage defines the vault file-system abstraction.
package storage

import "github.com/veslatte/clipdex/internal/models"

// Provider is the interface for vault document operations. Change
// notifications are delivered separately by the catalog watcher.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	List(dir string) ([]models.DocMeta, error)
	// Read returns the raw bytes of the document at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Write atomically replaces the document at path (relative to vault root).
	Write(path string, content []byte) error
}
