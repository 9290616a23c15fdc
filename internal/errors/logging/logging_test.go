package logging

import (
	"context"
	stdErrors "errors"
	"testing"

	qt "github.com/frankban/quicktest"

	apperrors "modelfetch/internal/errors"
	"modelfetch/internal/logger"
)

func TestFields(t *testing.T) {
	c := qt.New(t)

	appErr := apperrors.NetworkError(apperrors.CodeNetworkStatus, "download failed with unexpected status", stdErrors.New("404 Not Found")).
		WithModule("fetcher").
		WithOperation("Fetch").
		WithFields(apperrors.Metadata{"url": "https://example.test/a", "status": 404, "module": "ignored"})

	fields := Fields(appErr)

	byKey := map[string]interface{}{}
	var order []string
	for _, f := range fields {
		byKey[f.Key] = f.Value
		order = append(order, f.Key)
	}

	c.Assert(byKey["error_code"], qt.Equals, "NET-002")
	c.Assert(byKey["error_category"], qt.Equals, "NETWORK")
	c.Assert(byKey["module"], qt.Equals, "fetcher")
	c.Assert(byKey["operation"], qt.Equals, "Fetch")
	c.Assert(byKey["error"], qt.Equals, "404 Not Found")
	c.Assert(byKey["recoverable"], qt.Equals, true)
	c.Assert(byKey["status"], qt.Equals, 404)
	c.Assert(order[len(order)-2:], qt.DeepEquals, []string{"status", "url"})

	c.Assert(Fields(nil), qt.IsNil)
}

func TestErrorAndWarnLogAtLevel(t *testing.T) {
	c := qt.New(t)

	log := logger.NewMockLogger()
	ctx := context.Background()

	Error(ctx, log, "run aborted", apperrors.SystemError(apperrors.CodeSystemMkdir, "failed to create directory", nil))
	Warn(ctx, log, "transfer failed", apperrors.NetworkError(apperrors.CodeNetworkRequest, "download request failed", nil))
	Error(ctx, nil, "ignored", nil)

	c.Assert(log.Messages(logger.LevelError), qt.DeepEquals, []string{"run aborted"})
	c.Assert(log.Messages(logger.LevelWarn), qt.DeepEquals, []string{"transfer failed"})

	code, ok := log.GetEntries()[0].Field("error_code")
	c.Assert(ok, qt.IsTrue)
	c.Assert(code, qt.Equals, "SYS-001")
}

func TestFieldsOmitEmptyAttributes(t *testing.T) {
	c := qt.New(t)

	fields := Fields(&apperrors.AppError{Category: apperrors.CategoryConfig, Code: apperrors.CodeConfigParse})

	var keys []string
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	c.Assert(keys, qt.DeepEquals, []string{"error_code", "error_category", "recoverable"})
}
