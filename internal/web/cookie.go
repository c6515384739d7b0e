// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"net/http"
	"time"
)

// AuthCookie is the session cookie. Its value is either a signed web
// session token or a raw API key the user pasted in.
const AuthCookie = "auth-token"

// authToken extracts the auth token from the request, or "".
func authToken(r *http.Request) string {
	cookie, err := r.Cookie(AuthCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setAuthCookie issues the session cookie. Path is "/" so the cookie
// holds regardless of the proxy prefix the browser sees.
func setAuthCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookie expires the session cookie.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    AuthCookie,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
}

// setLocaleCookie persists the viewer's locale choice.
func setLocaleCookie(w http.ResponseWriter, name, locale string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   locale,
		Path:    "/",
		Expires: time.Now().Add(365 * 24 * time.Hour),
	})
}
