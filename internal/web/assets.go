// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	_ "embed"
	"net/http"

	"github.com/Hashmapw/claude-code-hub/internal/basepath"
)

//go:embed templates/console.css
var consoleCSS []byte

//go:embed templates/favicon.ico
var faviconICO []byte

// handleGatewayScript serves the page gateway runtime. The script is
// derived from process-constant tables, so long cache lifetimes are safe.
func (h *Handler) handleGatewayScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(basepath.ClientRuntime()))
}

func (h *Handler) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(consoleCSS)
}

func (h *Handler) handleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/x-icon")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(faviconICO)
}
