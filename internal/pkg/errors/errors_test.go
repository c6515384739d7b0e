// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error_WithWrapped(t *testing.T) {
	inner := fmt.Errorf("db connection failed")
	ae := Wrap(inner, CodeInternal, "service error")

	got := ae.Error()
	if !strings.Contains(got, CodeInternal) {
		t.Errorf("Error() missing code, got: %s", got)
	}
	if !strings.Contains(got, "service error") {
		t.Errorf("Error() missing message, got: %s", got)
	}
	if !strings.Contains(got, "db connection failed") {
		t.Errorf("Error() missing wrapped error, got: %s", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("original error")
	ae := Wrap(inner, CodeInternal, "wrapped")

	if ae.Unwrap() != inner {
		t.Error("Unwrap() did not return the wrapped error")
	}
	if New(CodeInternal, "no inner").Unwrap() != nil {
		t.Error("Unwrap() should return nil when no wrapped error")
	}
}

func TestNew_MapsHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := New(tc.code, "msg").HTTPStatus; got != tc.want {
			t.Errorf("New(%q).HTTPStatus = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if ae := NotFound("user"); ae.Code != CodeNotFound || !strings.Contains(ae.Message, "user") {
		t.Errorf("NotFound = %+v", ae)
	}
	if ae := AlreadyExists("username"); ae.Code != CodeConflict {
		t.Errorf("AlreadyExists Code = %q", ae.Code)
	}
	if ae := Unauthorized(""); ae.Message != "authentication required" {
		t.Errorf("Unauthorized default message = %q", ae.Message)
	}
	if ae := Forbidden(""); ae.Message != "permission denied" {
		t.Errorf("Forbidden default message = %q", ae.Message)
	}
	if ae := Invalid("bad email"); ae.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Invalid HTTPStatus = %d", ae.HTTPStatus)
	}
	if ae := Internal(fmt.Errorf("boom"), "crash"); ae.Err == nil {
		t.Error("Internal should wrap the error")
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotFound(NotFound("user")) {
		t.Error("IsNotFound should match NotFound")
	}
	if !IsNotFound(fmt.Errorf("layer: %w", NotFound("user"))) {
		t.Error("IsNotFound should see through wrapping")
	}
	if IsNotFound(fmt.Errorf("plain")) {
		t.Error("IsNotFound should reject plain errors")
	}
	if !IsConflict(AlreadyExists("key")) {
		t.Error("IsConflict should match AlreadyExists")
	}
	if !IsUnauthorized(Unauthorized("bad token")) {
		t.Error("IsUnauthorized should match Unauthorized")
	}
	if IsUnauthorized(NotFound("user")) {
		t.Error("predicates must not cross codes")
	}
}
