// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package crypto

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("CheckPassword should accept the original password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestSHA256String(t *testing.T) {
	// Known vector for the empty string.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := SHA256String(""); got != want {
		t.Errorf("SHA256String(\"\") = %q, want %q", got, want)
	}
	if len(SHA256String("anything")) != 64 {
		t.Error("expected 64 hex characters")
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	if HashToken("cch-abc") != HashToken("cch-abc") {
		t.Error("HashToken must be deterministic")
	}
	if HashToken("cch-abc") == HashToken("cch-abd") {
		t.Error("different tokens must hash differently")
	}
}

func TestCheckAPIKey(t *testing.T) {
	hash := HashAPIKey("cch-secret")
	if !CheckAPIKey("cch-secret", hash) {
		t.Error("CheckAPIKey should accept the original key")
	}
	if CheckAPIKey("cch-other", hash) {
		t.Error("CheckAPIKey should reject a different key")
	}
}

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey("cch-")
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	b, err := GenerateKey("cch-")
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if !strings.HasPrefix(a, "cch-") {
		t.Errorf("key %q missing prefix", a)
	}
	if a == b {
		t.Error("keys must be unique")
	}
	// 32 random bytes in raw URL-safe base64.
	if len(a) != len("cch-")+43 {
		t.Errorf("key length = %d", len(a))
	}
}
