// Package server provides the HR-Pulse HTTP REST API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hr-pulse/internal/extraction"
	"github.com/jonathan/hr-pulse/internal/ingestion"
	"github.com/jonathan/hr-pulse/internal/salary"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrUsernameAlreadyExists indicates the username is taken
type ErrUsernameAlreadyExists struct {
	Username string
}

func (e *ErrUsernameAlreadyExists) Error() string {
	return fmt.Sprintf("username already taken: %s", e.Username)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrInactiveUser indicates a disabled account
type ErrInactiveUser struct{}

func (e *ErrInactiveUser) Error() string {
	return "account disabled"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Domain errors are matched through wrapping.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists, *ErrUsernameAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrInactiveUser:
		return http.StatusForbidden
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	var (
		schemaErr     *ingestion.SchemaError
		extractionErr *extraction.ExtractionError
		notFoundErr   *salary.ModelNotFoundError
		insufficient  *salary.InsufficientDataError
		trainingErr   *salary.TrainingError
	)
	switch {
	case errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &extractionErr):
		return http.StatusBadGateway
	case errors.As(err, &notFoundErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &insufficient), errors.As(err, &trainingErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
