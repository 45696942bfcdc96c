package models

import (
	"fmt"

	"inkwell/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the application error taxonomy.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL_ERROR"
)

// FieldError reports a validation failure on a single request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is a typed application error. Code drives the HTTP status; Fields
// is set for per-field validation failures; Err wraps the underlying cause
// for internal errors and is logged server-side, never sent to clients.
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error taxonomy to HTTP statuses: validation and
// conflict 400, authentication 401, authorization 403, not found 404,
// everything else 500.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeValidation, CodeConflict:
		return fiber.StatusBadRequest
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// NewValidationError signals malformed or missing input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewFieldValidationError signals per-field validation failures.
func NewFieldValidationError(fields []FieldError) *AppError {
	return &AppError{Code: CodeValidation, Message: "Validation failed", Fields: fields}
}

// NewConflictError signals a violated uniqueness or referential constraint.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewNotFoundError signals an absent entity.
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s with ID %v not found", resource, id)}
}

// NewAuthenticationError signals a missing, invalid, or expired credential.
func NewAuthenticationError(message string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: message}
}

// NewAuthorizationError signals an authenticated but not permitted request.
func NewAuthorizationError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewInternalError wraps an unexpected storage or infrastructure failure.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Server error", Err: err}
}

// RespondWithError writes the standard error envelope
// {success:false, error: string | [{field,message}]}.
// Internal error detail is never leaked to the client.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = NewInternalError(err)
	}

	var payload any = appErr.Message
	if len(appErr.Fields) > 0 {
		payload = appErr.Fields
	}
	if appErr.Code == CodeInternal {
		middleware.Logger.Error("internal error",
			"error", appErr.Error(),
			"method", c.Method(),
			"path", c.Path(),
		)
		payload = "Server error"
	}

	return c.Status(appErr.StatusCode()).JSON(fiber.Map{
		"success": false,
		"error":   payload,
	})
}
