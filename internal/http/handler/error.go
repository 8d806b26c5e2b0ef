package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"docexchange/internal/errs"
	"docexchange/internal/http/middleware"
)

// Stable error codes returned in the "code" field.
const (
	CodeInvalidData          = "INVALID_DATA"
	CodeUniqueConstraint     = "UNIQUE_CONSTRAINT"
	CodeEmailAlreadyVerified = "EMAIL_ALREADY_VERIFIED"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInvalidFileType      = "INVALID_FILE_TYPE"
	CodeAccessDenied         = "ACCESS_DENIED"
	CodeInvalidID            = "INVALID_ID"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeNotFound             = "NOT_FOUND"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeInternal             = "INTERNAL_ERROR"
)

// errorPayload is the body of every error response.
type errorPayload struct {
	Code      string            `json:"code"`
	Errors    map[string]string `json:"errors"`
	RequestID string            `json:"request_id,omitempty"`
}

// errorKind maps an error kind to its response. Fields carried by the error
// take precedence over the default message.
type errorKind struct {
	kind   error
	status int
	code   string
	field  string
	msg    string
}

var errorKinds = []errorKind{
	{errs.ErrValidation, fiber.StatusBadRequest, CodeInvalidData, "non_field_errors", "Invalid data."},
	{errs.ErrDuplicate, fiber.StatusBadRequest, CodeUniqueConstraint, "email", "already exist with this field"},
	{errs.ErrAlreadyVerified, fiber.StatusBadRequest, CodeEmailAlreadyVerified, "error", "already exist this email"},
	{errs.ErrInvalidCredentials, fiber.StatusBadRequest, CodeInvalidCredentials, "non_field_errors", "Unable to log in with provided credentials."},
	{errs.ErrInvalidFileType, fiber.StatusBadRequest, CodeInvalidFileType, "file_type", "Invalid file type."},
	{errs.ErrAccessDenied, fiber.StatusBadRequest, CodeAccessDenied, "operation_user", "Access denied."},
	{errs.ErrNotFound, fiber.StatusBadRequest, CodeInvalidID, "file_id", "Id Does Not Exist"},
	{errs.ErrInvalidToken, fiber.StatusBadRequest, CodeInvalidToken, "signed_token", "Invalid or tampered link."},
	{errs.ErrUnauthenticated, fiber.StatusUnauthorized, CodeUnauthorized, "detail", "Authentication credentials were not provided or are invalid."},
	{errs.ErrStorageUnavailable, fiber.StatusServiceUnavailable, CodeStorageUnavailable, "detail", "storage unavailable"},
}

// writeError writes the standardized error body.
func writeError(c *fiber.Ctx, status int, code string, fields map[string]string) error {
	return c.Status(status).JSON(errorPayload{
		Code:      code,
		Errors:    fields,
		RequestID: middleware.RequestIDFrom(c),
	})
}

// respond translates err into a response without leaking internal details.
// Errors of no known kind are logged and reported as INTERNAL_ERROR.
func respond(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, k := range errorKinds {
		if !errors.Is(err, k.kind) {
			continue
		}
		fields := errs.Fields(err)
		if len(fields) == 0 {
			fields = map[string]string{k.field: k.msg}
		}
		if k.status >= fiber.StatusInternalServerError {
			logFailure(c, log, err)
		}
		return writeError(c, k.status, k.code, fields)
	}

	logFailure(c, log, err)
	return writeError(c, fiber.StatusInternalServerError, CodeInternal, map[string]string{"detail": "internal server error"})
}

func logFailure(c *fiber.Ctx, log zerolog.Logger, err error) {
	log.Error().Err(err).
		Str("request_id", middleware.RequestIDFrom(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
}

// ErrorHandler returns the Fiber error handler. Handlers and middleware return
// domain errors; this is the only place they become responses.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return respond(c, log, err)
		}

		switch fe.Code {
		case fiber.StatusNotFound:
			return writeError(c, fe.Code, CodeNotFound, map[string]string{"detail": "resource not found"})
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fe.Code, CodeMethodNotAllowed, map[string]string{"detail": "method not allowed"})
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fe.Code, CodeInvalidData, map[string]string{"file_content": "File too large."})
		}
		if fe.Code >= fiber.StatusBadRequest && fe.Code < fiber.StatusInternalServerError {
			return writeError(c, fe.Code, CodeInvalidData, map[string]string{"non_field_errors": fe.Message})
		}
		logFailure(c, log, err)
		return writeError(c, fe.Code, CodeInternal, map[string]string{"detail": "internal server error"})
	}
}
