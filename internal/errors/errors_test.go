package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestAppErrorMessage(t *testing.T) {
	c := qt.New(t)

	err := NetworkError(CodeNetworkStatus, "download failed with unexpected status", nil)
	c.Assert(err.Error(), qt.Equals, "[NETWORK:NET-002] download failed with unexpected status")

	wrapped := SystemError(CodeSystemMkdir, "failed to create directory", stdErrors.New("permission denied"))
	c.Assert(wrapped.Error(), qt.Equals, "[SYSTEM:SYS-001] failed to create directory: permission denied")

	var nilErr *AppError
	c.Assert(nilErr.Error(), qt.Equals, "<nil>")
}

func TestAppErrorUnwrapAndAs(t *testing.T) {
	c := qt.New(t)

	cause := stdErrors.New("connection refused")
	appErr := NetworkError(CodeNetworkRequest, "download request failed", cause).
		WithModule("fetcher").
		WithOperation("Fetch")

	outer := fmt.Errorf("fetching config.json: %w", appErr)

	c.Assert(stdErrors.Is(outer, cause), qt.IsTrue)

	got, ok := As(outer)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.Module, qt.Equals, "fetcher")
	c.Assert(got.Operation, qt.Equals, "Fetch")

	_, ok = As(cause)
	c.Assert(ok, qt.IsFalse)
}

func TestAppErrorIsMatchesCategoryAndCode(t *testing.T) {
	c := qt.New(t)

	err := fmt.Errorf("outer: %w", SystemError(CodeSystemWrite, "failed to write file", nil))

	c.Assert(Is(err, SystemError(CodeSystemWrite, "", nil)), qt.IsTrue)
	c.Assert(Is(err, SystemError(CodeSystemMkdir, "", nil)), qt.IsFalse)
	c.Assert(Is(err, NetworkError(CodeSystemWrite, "", nil)), qt.IsFalse)
	c.Assert(Is(nil, SystemError(CodeSystemWrite, "", nil)), qt.IsFalse)
}

func TestRecoverable(t *testing.T) {
	c := qt.New(t)

	c.Assert(IsRecoverable(NetworkError(CodeNetworkRead, "read failed", nil)), qt.IsTrue)
	c.Assert(IsRecoverable(SystemError(CodeSystemCreate, "create failed", nil)), qt.IsFalse)
	c.Assert(IsRecoverable(stdErrors.New("plain")), qt.IsFalse)
}

func TestMetadata(t *testing.T) {
	c := qt.New(t)

	err := ConfigError(CodeConfigInvalid, "invalid", nil).
		WithField("model", "whisper-tiny-en").
		WithFields(Metadata{"file": "config.json", "index": 0}).
		WithField("model", "whisper-base")

	c.Assert(err.Metadata, qt.DeepEquals, Metadata{
		"model": "whisper-base",
		"file":  "config.json",
		"index": 0,
	})
	c.Assert(err.WithFields(nil).Metadata, qt.HasLen, 3)
}

func TestNewStampsTime(t *testing.T) {
	c := qt.New(t)

	before := time.Now()
	err := New(CategoryDatabase, CodeDatabaseOpen, "open failed", nil)
	c.Assert(err.Time.Before(before), qt.IsFalse)
	c.Assert(err.Recoverable, qt.IsFalse)
}
