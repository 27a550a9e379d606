package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different kinds of failures surfaced by the log core
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeNotFoundLocal ErrorType = "not_found_local"
	ErrorTypeExternal      ErrorType = "external_api"
	ErrorTypeStorage       ErrorType = "storage"
	ErrorTypeInternal      ErrorType = "internal"
)

const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeDishNotFound    = "DISH_NOT_FOUND"
	CodeEntryNotFound   = "ENTRY_NOT_FOUND"
	CodeServiceError    = "SERVICE_ERROR"
	CodeStorage         = "STORAGE_ERROR"
	CodeInternal        = "INTERNAL"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code, so the package sentinels
// can be used with errors.Is.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip + 1)
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(1),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(1),
		Context:  make(map[string]interface{}),
	}
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Handle logs an error at a level matching its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypeNotFound, ErrorTypeNotFoundLocal:
		h.logger.InfoContext(ctx, "Lookup miss", err.LogFields()...)
	case ErrorTypeStorage:
		h.logger.WarnContext(ctx, "Storage degraded", err.LogFields()...)
	case ErrorTypeExternal, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Predefined errors
var (
	ErrInvalidArgument = New(ErrorTypeValidation, CodeInvalidArgument, "Invalid argument")
	ErrDishNotFound    = New(ErrorTypeNotFound, CodeDishNotFound, "Dish not found")
	ErrEntryNotFound   = New(ErrorTypeNotFoundLocal, CodeEntryNotFound, "Log entry not found")
	ErrServiceError    = New(ErrorTypeExternal, CodeServiceError, "Food lookup service error")
	ErrStorage         = New(ErrorTypeStorage, CodeStorage, "Persistence store unavailable")
)

// NewInvalidArgument reports a rejected input value.
func NewInvalidArgument(field string, value interface{}, message string) *AppError {
	e := New(ErrorTypeValidation, CodeInvalidArgument, message).
		WithContext("field", field).
		WithContext("value", value)
	e.Source = caller(1)
	return e
}

// NewDishNotFound reports that the lookup service could not resolve a dish.
// cause is optional; lookup timeouts are reported through it.
func NewDishNotFound(dish string, cause error) *AppError {
	e := Wrap(cause, ErrorTypeNotFound, CodeDishNotFound, fmt.Sprintf("Food %q not found", dish)).
		WithContext("dish", dish)
	e.Source = caller(1)
	return e
}

// NewServiceError reports a lookup transport or status failure. status is 0
// when no HTTP response was received.
func NewServiceError(dish string, status int, cause error) *AppError {
	msg := fmt.Sprintf("API error: %d", status)
	if status == 0 {
		msg = "API request failed"
	}
	e := Wrap(cause, ErrorTypeExternal, CodeServiceError, msg).
		WithContext("dish", dish).
		WithContext("status", status)
	e.Source = caller(1)
	return e
}

func NewEntryNotFound(id string) *AppError {
	e := New(ErrorTypeNotFoundLocal, CodeEntryNotFound, fmt.Sprintf("Log entry %q not found", id)).
		WithContext("entry_id", id)
	e.Source = caller(1)
	return e
}

func NewStorageError(err error, key string) *AppError {
	e := Wrap(err, ErrorTypeStorage, CodeStorage, "Persistence store operation failed").
		WithContext("key", key)
	e.Source = caller(1)
	return e
}

func NewInternalError(err error) *AppError {
	e := Wrap(err, ErrorTypeInternal, CodeInternal, "Internal error")
	e.Source = caller(1)
	return e
}

// StatusCode returns the service status attached to a ServiceError, or 0.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return 0
	}
	if status, ok := appErr.Context["status"].(int); ok {
		return status
	}
	return 0
}

// Dish returns the dish name attached to a lookup failure, if any.
func Dish(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ""
	}
	dish, _ := appErr.Context["dish"].(string)
	return dish
}
