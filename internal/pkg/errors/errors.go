// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

// Package errors provides typed application errors shared by services and
// repositories. Handlers map these onto HTTP responses; everything else
// wraps with fmt.Errorf("%w") and lets errors.As find the AppError.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

var statusByCode = map[string]int{
	CodeBadRequest:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
}

// AppError is a typed application error with an HTTP mapping.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with the given code and message.
func New(code, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// Wrap creates an AppError wrapping an underlying error.
func Wrap(err error, code, message string) *AppError {
	ae := New(code, message)
	ae.Err = err
	return ae
}

// ============================================================================
// Convenience constructors
// ============================================================================

// NotFound returns a NOT_FOUND error for the named resource.
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

// AlreadyExists returns a CONFLICT error for the named resource.
func AlreadyExists(resource string) *AppError {
	return New(CodeConflict, resource+" already exists")
}

// Unauthorized returns an UNAUTHORIZED error.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return New(CodeUnauthorized, message)
}

// Forbidden returns a FORBIDDEN error.
func Forbidden(message string) *AppError {
	if message == "" {
		message = "permission denied"
	}
	return New(CodeForbidden, message)
}

// Invalid returns a BAD_REQUEST error.
func Invalid(message string) *AppError {
	return New(CodeBadRequest, message)
}

// Internal returns an INTERNAL error wrapping err.
func Internal(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

// ============================================================================
// Predicates
// ============================================================================

// IsNotFound reports whether err is (or wraps) a NOT_FOUND AppError.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsConflict reports whether err is (or wraps) a CONFLICT AppError.
func IsConflict(err error) bool {
	return hasCode(err, CodeConflict)
}

// IsUnauthorized reports whether err is (or wraps) an UNAUTHORIZED AppError.
func IsUnauthorized(err error) bool {
	return hasCode(err, CodeUnauthorized)
}

func hasCode(err error, code string) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
