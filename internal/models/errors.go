package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. The HTTP layer maps each code to a status.
const (
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeBadRequest   = "BAD_REQUEST"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
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

// Predefined error constructors
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// AsAppError reports whether err wraps an *AppError and returns it.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *AppError with the given code.
func IsKind(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case CodeConflict:
		return fiber.StatusConflict
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeBadRequest:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes a standardized error response. The cause of an
// AppError is never sent to the client.
func RespondWithError(c *fiber.Ctx, err error) error {
	if appErr, ok := AsAppError(err); ok {
		return c.Status(StatusFor(appErr.Code)).JSON(ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: "서버 오류가 발생했습니다.",
		Code:  CodeInternal,
	})
}
