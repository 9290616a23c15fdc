package errors

import "time"

// New builds an AppError stamped with the current time. Only NETWORK errors
// are recoverable.
func New(category Category, code, message string, err error) *AppError {
	return &AppError{
		Category:    category,
		Code:        code,
		Message:     message,
		Err:         err,
		Recoverable: category == CategoryNetwork,
		Time:        time.Now(),
	}
}

func SystemError(code, message string, err error) *AppError {
	return New(CategorySystem, code, message, err)
}

// NetworkError marks a failed transfer. The fetcher logs it and moves on.
func NetworkError(code, message string, err error) *AppError {
	return New(CategoryNetwork, code, message, err)
}

func ConfigError(code, message string, err error) *AppError {
	return New(CategoryConfig, code, message, err)
}

func DatabaseError(code, message string, err error) *AppError {
	return New(CategoryDatabase, code, message, err)
}
