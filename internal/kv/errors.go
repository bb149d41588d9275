package kv

import (
	"errors"
	"fmt"
)

// Error represents a failure of a mapping operation.
//
// The taxonomy:
//   - Key not found: read or delete of an absent key
//   - Unsupported key type: key is not text, number or nil
//   - Unsupported value type: value not representable as JSON
//   - Storage unavailable: backing file cannot be opened, read or written
//   - Integrity violation: constraint failure at the storage layer
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Key is the encoded key involved, when one applies.
	Key string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes mapping errors.
type ErrorCode string

const (
	// ErrCodeKeyNotFound indicates a read or delete of an absent key.
	ErrCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrCodeUnsupportedKeyType indicates a key that is not text, number
	// or nil.
	ErrCodeUnsupportedKeyType ErrorCode = "UNSUPPORTED_KEY_TYPE"

	// ErrCodeUnsupportedValueType indicates a value that cannot be
	// represented as JSON.
	ErrCodeUnsupportedValueType ErrorCode = "UNSUPPORTED_VALUE_TYPE"

	// ErrCodeStorageUnavailable indicates the backing file cannot be
	// opened, created, read or written.
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"

	// ErrCodeIntegrityViolation indicates a uniqueness or constraint
	// failure at the storage layer. Should not occur under upsert
	// semantics; indicates a bug or concurrent external mutation.
	ErrCodeIntegrityViolation ErrorCode = "INTEGRITY_VIOLATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKeyNotFound returns true if the error is a missing-key error.
// Uses errors.As to handle wrapped errors.
func IsKeyNotFound(err error) bool {
	return hasCode(err, ErrCodeKeyNotFound)
}

// IsUnsupportedKeyType returns true if the error is a key-type error.
func IsUnsupportedKeyType(err error) bool {
	return hasCode(err, ErrCodeUnsupportedKeyType)
}

// IsUnsupportedValueType returns true if the error is a value-type error.
func IsUnsupportedValueType(err error) bool {
	return hasCode(err, ErrCodeUnsupportedValueType)
}

// IsStorageUnavailable returns true if the error is a storage error.
func IsStorageUnavailable(err error) bool {
	return hasCode(err, ErrCodeStorageUnavailable)
}

// IsIntegrityViolation returns true if the error is a constraint error.
func IsIntegrityViolation(err error) bool {
	return hasCode(err, ErrCodeIntegrityViolation)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func newKeyNotFound(encodedKey string) *Error {
	return &Error{
		Code:    ErrCodeKeyNotFound,
		Message: "key not found",
		Key:     encodedKey,
	}
}

func newUnsupportedKeyType(key any) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedKeyType,
		Message: fmt.Sprintf("key of type %T is not a string, number or nil", key),
	}
}

func newUnsupportedValueType(value any) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedValueType,
		Message: fmt.Sprintf("value of type %T is not representable as JSON", value),
	}
}

func newStorageError(msg string, err error) *Error {
	return &Error{
		Code:    ErrCodeStorageUnavailable,
		Message: msg,
		Err:     err,
	}
}

func newIntegrityError(msg string, err error) *Error {
	return &Error{
		Code:    ErrCodeIntegrityViolation,
		Message: msg,
		Err:     err,
	}
}
