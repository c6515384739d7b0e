// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"html/template"
	"net/http"

	"github.com/Hashmapw/claude-code-hub/internal/basepath"
	"github.com/Hashmapw/claude-code-hub/internal/i18n"
)

// The server never issues Location headers for page navigation: it cannot
// know the reverse-proxy prefix the browser sees, so a Location would land
// outside the proxied tree. Instead it returns a 200 HTML document whose
// inline script re-infers the prefix from the browser's own pathname and
// navigates with location.replace. A noscript meta refresh to the
// unprefixed target keeps script-less clients on a working (if
// prefix-blind) path.

const redirectDocHTML = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<noscript><meta http-equiv="refresh" content="0;url={{.Target}}"></noscript>
<title>{{.Message}}</title>
<style>
body { font-family: system-ui, sans-serif; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; color: #555; }
</style>
</head>
<body>
<p>{{.Message}}</p>
<script>{{.Script}}</script>
</body>
</html>
`

var redirectDocTmpl = template.Must(template.New("redirect-doc").Parse(redirectDocHTML))

type redirectDocData struct {
	Locale  string
	Target  string
	Message string
	Script  template.JS
}

// writeRedirectDoc emits a self-resolving redirect document. target is the
// locale-prefixed, base-path-relative destination. clearCookie also expires
// the auth cookie, both via Set-Cookie and inside the script.
func writeRedirectDoc(w http.ResponseWriter, locale, target string, clearCookie bool) error {
	script, err := basepath.RedirectScript(target, clearCookie)
	if err != nil {
		return err
	}

	if clearCookie {
		clearAuthCookie(w)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	return redirectDocTmpl.Execute(w, &redirectDocData{
		Locale:  locale,
		Target:  target,
		Message: i18n.T(locale, "redirect.loading"),
		Script:  template.JS(script),
	})
}
