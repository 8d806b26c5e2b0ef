// Package errs contains the error kinds shared by every layer. The HTTP layer
// maps them to stable response codes; lower layers wrap them with %w.
package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrDuplicate indicates a unique-field collision (e.g. email taken).
	ErrDuplicate = errors.New("already exists")

	// ErrDuplicateHandle indicates an opaque file handle collision. Callers retry.
	ErrDuplicateHandle = errors.New("duplicate file handle")

	// ErrAccessDenied indicates the principal's role may not perform the operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidFileType indicates an extension outside the allow-list.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidToken indicates a signed token failed verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrStorageUnavailable indicates the object store failed.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrAlreadyVerified indicates the account is already active.
	ErrAlreadyVerified = errors.New("already verified")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated indicates a missing or invalid bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// FieldError attaches per-field messages to an error kind.
type FieldError struct {
	Kind   error
	Fields map[string]string
}

// NewFieldError returns a FieldError of the given kind with a single field message.
func NewFieldError(kind error, field, msg string) *FieldError {
	return &FieldError{Kind: kind, Fields: map[string]string{field: msg}}
}

// Validation returns an ErrValidation FieldError for the given fields.
func Validation(fields map[string]string) *FieldError {
	return &FieldError{Kind: ErrValidation, Fields: fields}
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *FieldError) Unwrap() error { return e.Kind }

// Fields returns the per-field messages carried by err, if any.
func Fields(err error) map[string]string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Fields
	}
	return nil
}
