// Package apperrors defines the error taxonomy for a scrape run. Every
// fatal failure surfaced by the job carries one of these codes so the
// entrypoint can log a meaningful category before exiting non-zero.
package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies a run failure.
type Code string

const (
	// CodeConfiguration covers missing or invalid environment settings.
	// Raised before any network call is attempted.
	CodeConfiguration Code = "CONFIGURATION"

	// CodeCredential covers secret resolution and token exchange failures.
	CodeCredential Code = "CREDENTIAL"

	// CodeRemoteAPI covers transport or authorization failures against the
	// GitHub API mid-fetch.
	CodeRemoteAPI Code = "REMOTE_API"

	// CodeRecord covers a malformed individual record. Recoverable: the
	// record is dropped and the run continues.
	CodeRecord Code = "RECORD"

	// CodeStorage covers snapshot read or write failures.
	CodeStorage Code = "STORAGE"
)

// Error is a classified application error wrapping an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfiguration creates a configuration error.
func NewConfiguration(message string) *Error {
	return &Error{Code: CodeConfiguration, Message: message}
}

// NewCredential creates a credential error wrapping err.
func NewCredential(message string, err error) *Error {
	return &Error{Code: CodeCredential, Message: message, Err: err}
}

// NewRemoteAPI creates a remote API error wrapping err.
func NewRemoteAPI(message string, err error) *Error {
	return &Error{Code: CodeRemoteAPI, Message: message, Err: err}
}

// NewRecord creates a record error.
func NewRecord(message string) *Error {
	return &Error{Code: CodeRecord, Message: message}
}

// NewStorage creates a storage error wrapping err.
func NewStorage(message string, err error) *Error {
	return &Error{Code: CodeStorage, Message: message, Err: err}
}

// CodeOf returns the code carried by err, or empty when err is not an
// application error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsRemoteAPI reports whether err is classified as a remote API failure.
func IsRemoteAPI(err error) bool {
	return CodeOf(err) == CodeRemoteAPI
}

// IsRecord reports whether err is classified as a malformed record.
func IsRecord(err error) bool {
	return CodeOf(err) == CodeRecord
}
