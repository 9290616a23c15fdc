// Package logging turns AppErrors into structured log entries.
package logging

import (
	"context"
	"sort"
	"time"

	apperrors "modelfetch/internal/errors"
	"modelfetch/internal/logger"
)

// Error logs a run-stopping failure.
func Error(ctx context.Context, log logger.Logger, msg string, appErr *apperrors.AppError) {
	if log != nil {
		log.ErrorContext(ctx, msg, Fields(appErr)...)
	}
}

// Warn logs a failure the run continues past.
func Warn(ctx context.Context, log logger.Logger, msg string, appErr *apperrors.AppError) {
	if log != nil {
		log.WarnContext(ctx, msg, Fields(appErr)...)
	}
}

// Fields lists appErr's attributes in a fixed order, empty ones omitted,
// followed by its metadata sorted by key. Metadata may not override the fixed
// attributes.
func Fields(appErr *apperrors.AppError) []logger.Field {
	if appErr == nil {
		return nil
	}

	fixed := []logger.Field{
		logger.String("error_code", appErr.Code),
		logger.String("error_category", string(appErr.Category)),
		logger.String("error_message", appErr.Message),
		logger.String("operation", appErr.Operation),
		logger.String("module", appErr.Module),
	}
	fields := make([]logger.Field, 0, len(fixed)+len(appErr.Metadata)+3)
	taken := make(map[string]bool, len(fixed)+3)
	for _, f := range fixed {
		taken[f.Key] = true
		if f.Value != "" {
			fields = append(fields, f)
		}
	}

	if appErr.Err != nil {
		fields = append(fields, logger.Error(appErr.Err))
	}
	if !appErr.Time.IsZero() {
		fields = append(fields, logger.String("error_time", appErr.Time.Format(time.RFC3339Nano)))
	}
	fields = append(fields, logger.Any("recoverable", appErr.Recoverable))
	taken["error"], taken["error_time"], taken["recoverable"] = true, true, true

	keys := make([]string, 0, len(appErr.Metadata))
	for k := range appErr.Metadata {
		if !taken[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, logger.Any(k, appErr.Metadata[k]))
	}
	return fields
}
