package app

import (
	"strings"
	"time"

	apperrors "modelfetch/internal/errors"
	"modelfetch/internal/manifest"
)

// LoadConfig returns the embedded base manifest merged with the file at path (when
// set) and validates the result. A positive timeout overrides the manifest's.
func LoadConfig(path string, timeout time.Duration) (*manifest.Config, error) {
	base, err := manifest.BaseConfig()
	if err != nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigParse, "failed to load base manifest", err).
			WithModule("app").
			WithOperation("LoadConfig")
	}

	cfgs := []*manifest.Config{base}
	if path = strings.TrimSpace(path); path != "" {
		extra, err := manifest.LoadConfig(path)
		if err != nil {
			return nil, apperrors.ConfigError(apperrors.CodeConfigParse, "failed to load manifest", err).
				WithModule("app").
				WithOperation("LoadConfig").
				WithField("path", path)
		}
		cfgs = append(cfgs, extra)
	}
	if timeout > 0 {
		cfgs = append(cfgs, &manifest.Config{Timeout: timeout})
	}

	merged, err := manifest.MergeConfigs(cfgs...)
	if err != nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "failed to merge manifests", err).
			WithModule("app").
			WithOperation("LoadConfig")
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
