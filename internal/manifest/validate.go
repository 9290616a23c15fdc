package manifest

import (
	"fmt"
	"strings"

	apperrors "modelfetch/internal/errors"
)

// Validate checks that every model can be fetched: it has a name, both roots and
// at least one file, and names are unique. Paths are used verbatim and are not
// checked for traversal.
func (c *Config) Validate() error {
	if c == nil {
		return invalid("manifest configuration is nil", nil)
	}
	if c.Timeout < 0 {
		return invalid("timeout must not be negative", apperrors.Metadata{"timeout": c.Timeout.String()})
	}
	if len(c.Models) == 0 {
		return invalid("manifest has no models", nil)
	}

	seen := make(map[string]struct{}, len(c.Models))
	for i, m := range c.Models {
		if strings.TrimSpace(m.Name) == "" {
			return invalid(fmt.Sprintf("model %d has no name", i), nil)
		}
		if _, dup := seen[m.Name]; dup {
			return invalid("duplicate model name", apperrors.Metadata{"model": m.Name})
		}
		seen[m.Name] = struct{}{}

		if strings.TrimSpace(m.SourceRoot) == "" {
			return invalid("model has no source_root", apperrors.Metadata{"model": m.Name})
		}
		if strings.TrimSpace(m.DestinationRoot) == "" {
			return invalid("model has no destination_root", apperrors.Metadata{"model": m.Name})
		}
		if len(m.Files) == 0 {
			return invalid("model has no files", apperrors.Metadata{"model": m.Name})
		}
		for j, f := range m.Files {
			if f == "" {
				return invalid("empty file path", apperrors.Metadata{"model": m.Name, "index": j})
			}
		}
	}
	return nil
}

func invalid(msg string, md apperrors.Metadata) error {
	return apperrors.ConfigError(apperrors.CodeConfigInvalid, msg, nil).
		WithModule("manifest").
		WithOperation("Validate").
		WithFields(md)
}
