// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/Hashmapw/claude-code-hub/internal/pkg/errors"
)

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes the standard error envelope.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"message": message},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleAPILogin is the JSON login used by scripted clients; the login
// form posts to the page handler instead.
func (h *Handler) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.log.Error("api login", "error", err)
		writeJSONError(w, http.StatusUnauthorized, "login failed")
		return
	}

	setAuthCookie(w, result.Token, result.ExpiresAt, h.cfg.SecureCookies)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      result.Token,
		"expires_at": result.ExpiresAt.UTC().Format(time.RFC3339),
		"username":   result.Session.User.Username,
	})
}

func (h *Handler) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), authToken(r))
	clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
