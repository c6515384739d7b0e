// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package models

// Session is the descriptor produced by validating an auth token. It is
// never persisted by the routing layer; it lives for one request.
type Session struct {
	User *User   `json:"user"`
	Key  *APIKey `json:"key"`
}

// CanLoginWebUI reports whether the session's key grants full web access.
func (s *Session) CanLoginWebUI() bool {
	return s.Key != nil && s.Key.CanLoginWebUI
}
