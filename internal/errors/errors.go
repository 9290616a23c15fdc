package errors

import (
	"errors"
	"fmt"
	"time"
)

// Metadata is free-form context logged alongside an AppError.
type Metadata map[string]interface{}

// AppError is the error type returned across package boundaries. Callers
// branch on Category and Code; Module, Operation and Metadata are for logs.
type AppError struct {
	Category    Category
	Code        string
	Message     string
	Module      string
	Operation   string
	Err         error
	Metadata    Metadata
	Recoverable bool
	Time        time.Time
}

// Error renders "[CATEGORY:CODE] message: cause".
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *AppError with the same category and code,
// so a bare SystemError(CodeSystemWrite, "", nil) can be used as a sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

func (e *AppError) WithModule(module string) *AppError {
	e.Module = module
	return e
}

func (e *AppError) WithOperation(operation string) *AppError {
	e.Operation = operation
	return e
}

func (e *AppError) WithField(key string, value interface{}) *AppError {
	return e.WithFields(Metadata{key: value})
}

// WithFields merges md into the error's metadata; later keys win.
func (e *AppError) WithFields(md Metadata) *AppError {
	if len(md) == 0 {
		return e
	}
	if e.Metadata == nil {
		e.Metadata = make(Metadata, len(md))
	}
	for k, v := range md {
		e.Metadata[k] = v
	}
	return e
}

// As finds the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err's chain holds an AppError matching target's category and code.
func Is(err error, target *AppError) bool {
	return err != nil && target != nil && errors.Is(err, target)
}

// IsRecoverable reports whether err carries an AppError a run may skip past.
func IsRecoverable(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Recoverable
}
