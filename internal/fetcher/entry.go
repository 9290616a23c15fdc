package fetcher

import (
	"path/filepath"

	"modelfetch/internal/manifest"
)

// Entry is one file to transfer.
type Entry struct {
	Model     string
	RelPath   string
	URL       string
	LocalPath string
}

// BuildEntries expands a model into entries in manifest order.
// The URL is the source root and relative path concatenated as-is; the local path
// joins the destination root and relative path with platform semantics. Relative
// paths are not sanitised.
func BuildEntries(model manifest.Model) []Entry {
	entries := make([]Entry, 0, len(model.Files))
	for _, rel := range model.Files {
		entries = append(entries, Entry{
			Model:     model.Name,
			RelPath:   rel,
			URL:       model.SourceRoot + rel,
			LocalPath: filepath.Join(model.DestinationRoot, rel),
		})
	}
	return entries
}
