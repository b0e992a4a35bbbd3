package catalog

import (
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/veslatte/clipdex/internal/metacache"
	"github.com/veslatte/clipdex/internal/metadata"
	"github.com/veslatte/clipdex/internal/models"
	"github.com/veslatte/clipdex/internal/storage"
)

// tagsField is the frontmatter key holding structured tags.
const tagsField = "tags"

// untitledRe matches placeholder file names produced by clipping without a
// title ("Untitled", "Untitled 3", ...).
var untitledRe = regexp.MustCompile(`^[Uu]ntitled(?: \d+)?$`)

// Settings is the engine configuration for one refresh pass. It is passed
// explicitly into every operation; the engine never reads ambient state.
type Settings struct {
	SourceProperties       []string
	ReadProperty           string
	IncludeFrontmatterTags bool
	IgnoredDirectories     []string
}

// BuildSnapshot enumerates the vault and assembles the catalog records.
// An enumeration failure is returned as-is; per-document failures are logged
// and the document skipped.
func BuildSnapshot(store storage.Provider, cache *metacache.DB, cfg Settings, logger *slog.Logger) ([]models.CatalogRecord, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, err
	}

	live := make(map[string]struct{}, len(metas))
	var records []models.CatalogRecord
	for _, m := range metas {
		live[m.Path] = struct{}{}
		if Excluded(m.Path, cfg.IgnoredDirectories) {
			continue
		}
		rec, err := buildRecord(store, cache, cfg, m, logger)
		if err != nil {
			logger.Warn("catalog: document skipped",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			continue
		}
		if rec == nil {
			// Not a clipped note.
			continue
		}
		records = append(records, *rec)
	}

	if err := cache.Prune(live); err != nil {
		logger.Warn("catalog: cache prune failed", slog.String("error", err.Error()))
	}

	return records, nil
}

// buildRecord produces the catalog record for one document, or nil when the
// document has no source-URL property and is therefore not a clip.
func buildRecord(store storage.Provider, cache *metacache.DB, cfg Settings, m models.DocMeta, logger *slog.Logger) (*models.CatalogRecord, error) {
	data, err := store.Read(m.Path)
	if err != nil {
		return nil, err
	}

	entry, ok := cache.Get(m.Path, m.Checksum)
	if !ok {
		parsed := metadata.Parse(data)
		entry = &metacache.Entry{
			Path:       m.Path,
			Checksum:   m.Checksum,
			Heading:    parsed.Heading,
			Fields:     parsed.Fields,
			InlineTags: parsed.InlineTags,
		}
		if err := cache.Put(*entry); err != nil {
			logger.Warn("catalog: cache put failed",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
		}
	}

	urls := ExtractURLs(entry.Fields, cfg.SourceProperties)
	if urls == nil {
		return nil, nil
	}

	fmTags := NormalizeFrontmatterTags(fieldOf(entry.Fields, tagsField), cfg.IncludeFrontmatterTags)
	cTags := NormalizeContentTags(entry.InlineTags)

	return &models.CatalogRecord{
		ID:              m.Path,
		DisplayTitle:    displayTitle(m.Path, entry.Heading),
		URLs:            urls,
		CreatedAt:       m.CreatedAt.UnixMilli(),
		FrontmatterTags: fmTags,
		ContentTags:     cTags,
		AllTags:         UnionTags(fmTags, cTags),
		RawContent:      string(data),
		Read:            ExtractRead(entry.Fields, cfg.ReadProperty),
	}, nil
}

// displayTitle is the file's base name, falling back to the document's first
// heading when the name is an untitled placeholder.
func displayTitle(docPath, heading string) string {
	base := strings.TrimSuffix(path.Base(docPath), ".md")
	if untitledRe.MatchString(base) && heading != "" {
		return heading
	}
	return base
}

func fieldOf(fields map[string]metadata.Value, key string) metadata.Value {
	if v, ok := fields[key]; ok {
		return v
	}
	return metadata.Value{Kind: metadata.Absent}
}
