// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageTmplOnce sync.Once
	pageTmpls    map[string]*template.Template
)

// pages lists every content template paired with the shared layout. The
// login page uses a bare layout without the nav chrome.
var pageList = map[string]string{
	"login":     "templates/login.html",
	"dashboard": "templates/dashboard.html",
	"providers": "templates/providers.html",
	"quotas":    "templates/quotas.html",
	"usage":     "templates/usage.html",
	"my-usage":  "templates/my_usage.html",
	"usage-doc": "templates/usage_doc.html",
}

func loadTemplates() map[string]*template.Template {
	pageTmplOnce.Do(func() {
		pageTmpls = make(map[string]*template.Template, len(pageList))
		for name, file := range pageList {
			t, err := template.ParseFS(templateFS, "templates/layout.html", file)
			if err != nil {
				panic(fmt.Sprintf("web: parse template %s: %v", name, err))
			}
			pageTmpls[name] = t
		}
	})
	return pageTmpls
}

// render writes a page through the shared layout.
func (h *Handler) render(w http.ResponseWriter, page string, data *PageData) {
	t, ok := loadTemplates()[page]
	if !ok {
		h.log.Error("unknown page template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data.AssetPrefix = h.cfg.AssetPrefix
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		h.log.Error("render page", "page", page, "error", err)
	}
}
