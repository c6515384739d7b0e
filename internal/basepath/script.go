// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package basepath

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// The client-side resolver is generated from the same tables the Go resolver
// uses. Resolution behavior must stay identical on both sides: the server
// cannot issue Location headers (the proxy prefix is unknown to it), so the
// browser re-runs the inference against window.location.pathname.
//
// An earlier variant emitted relative dot-paths ("./en/login") instead of
// re-resolving; it double-resolved whenever the current path already carried
// a locale segment and was abandoned.

// resolverJS holds the single serialization of the resolution algorithm.
// hubResolveBasePath / hubClean mirror Resolve / Clean exactly.
const resolverJS = `var HUB_LOCALES = {{.Locales}};
var HUB_KEYWORDS = {{.Keywords}};
var HUB_MARKERS = {{.Markers}};
var HUB_PROXY_RE = /^(.*?\/proxy\/\d+)(?:\/|$)/;
function hubLocaleIndex(p, loc) {
  var needle = "/" + loc, from = 0;
  for (;;) {
    var idx = p.indexOf(needle, from);
    if (idx < 0) return -1;
    var end = idx + needle.length;
    if (end === p.length || p.charAt(end) === "/") return idx;
    from = idx + 1;
  }
}
function hubClean(c) {
  if (!c) return "";
  var cut = c.length, i, k;
  for (i = 0; i < HUB_KEYWORDS.length; i++) {
    k = c.indexOf(HUB_KEYWORDS[i]);
    if (k >= 0 && k < cut) cut = k;
  }
  for (i = 0; i < HUB_LOCALES.length; i++) {
    k = hubLocaleIndex(c, HUB_LOCALES[i]);
    if (k >= 0 && k < cut) cut = k;
  }
  c = c.slice(0, cut);
  if (c.charAt(c.length - 1) === "/") c = c.slice(0, -1);
  return c;
}
function hubStartsKnown(p) {
  var seg = p.charAt(0) === "/" ? p.slice(1) : p;
  var s = seg.indexOf("/");
  if (s >= 0) seg = seg.slice(0, s);
  return HUB_LOCALES.indexOf(seg) >= 0 || HUB_KEYWORDS.indexOf(seg) >= 0;
}
function hubResolveBasePath(pathname) {
  if (!pathname || pathname === "/") return "";
  var m = HUB_PROXY_RE.exec(pathname);
  if (m) return hubClean(m[1]);
  var best = -1, i, k;
  for (i = 0; i < HUB_LOCALES.length; i++) {
    k = hubLocaleIndex(pathname, HUB_LOCALES[i]);
    if (k >= 0 && (best < 0 || k < best)) best = k;
  }
  if (best >= 0) return hubClean(pathname.slice(0, best));
  best = -1;
  for (i = 0; i < HUB_MARKERS.length; i++) {
    k = pathname.indexOf(HUB_MARKERS[i]);
    if (k >= 0 && (best < 0 || k < best)) best = k;
  }
  if (best >= 0) return hubClean(pathname.slice(0, best));
  var trimmed = pathname.charAt(pathname.length - 1) === "/" ? pathname.slice(0, -1) : pathname;
  if (trimmed && !hubStartsKnown(trimmed)) return hubClean(trimmed);
  return "";
}`

// gatewayJS is the page runtime: it wraps fetch, the history mutators, and
// anchor hrefs so every client-originated request stays under the resolved
// prefix. Installed once per page load; re-invocation is a no-op.
const gatewayJS = `(function (w, d) {
  "use strict";
  if (w.__hubGatewayInstalled) return;
  w.__hubGatewayInstalled = true;

{{.Resolver}}

  var cachedBase = null;
  function base() {
    if (cachedBase === null) cachedBase = hubResolveBasePath(w.location.pathname);
    return cachedBase;
  }

  function shouldRewrite(t) {
    var b = base();
    if (!b || !t) return false;
    if (t.charAt(0) !== "/") return false;
    if (t.charAt(1) === "/") return false;
    if (t === b || t.indexOf(b + "/") === 0) return false;
    if (t.indexOf("/_next/") === 0) return false;
    if (HUB_PROXY_RE.test(t)) return false;
    return true;
  }
  function rewrite(t) {
    return shouldRewrite(t) ? base() + t : t;
  }

  // --- fetch ---------------------------------------------------------------
  var origFetch = w.fetch;
  w.fetch = function (input, init) {
    try {
      if (typeof input === "string") {
        input = rewrite(input);
      } else if (input instanceof URL) {
        if (input.origin === w.location.origin && shouldRewrite(input.pathname)) {
          input = new URL(base() + input.pathname + input.search + input.hash, input.origin);
        }
      } else if (input && typeof input.url === "string") {
        var u = new URL(input.url, w.location.href);
        if (u.origin === w.location.origin && shouldRewrite(u.pathname)) {
          input = new Request(base() + u.pathname + u.search + u.hash, input);
        }
      }
    } catch (e) { /* fall through with the original input */ }
    return origFetch.call(w, input, init);
  };

  // --- history -------------------------------------------------------------
  var origPush = w.history.pushState;
  var origReplace = w.history.replaceState;
  w.history.pushState = function (state, title, url) {
    return origPush.call(this, state, title, url == null ? url : rewrite(String(url)));
  };
  w.history.replaceState = function (state, title, url) {
    return origReplace.call(this, state, title, url == null ? url : rewrite(String(url)));
  };

  // --- anchors and forms ---------------------------------------------------
  function rewriteAnchor(a) {
    var href = a.getAttribute("href");
    if (href && shouldRewrite(href)) a.setAttribute("href", base() + href);
  }
  function rewriteForm(f) {
    var action = f.getAttribute("action");
    if (action && shouldRewrite(action)) f.setAttribute("action", base() + action);
  }
  function rewriteNode(el) {
    if (el.tagName === "A") rewriteAnchor(el);
    else if (el.tagName === "FORM") rewriteForm(el);
  }
  function rewriteTree(root) {
    if (root.nodeType !== 1) return;
    rewriteNode(root);
    var els = root.querySelectorAll ? root.querySelectorAll("a[href], form[action]") : [];
    for (var i = 0; i < els.length; i++) rewriteNode(els[i]);
  }

  var observer = new MutationObserver(function (muts) {
    for (var i = 0; i < muts.length; i++) {
      var m = muts[i];
      if (m.type === "childList") {
        for (var j = 0; j < m.addedNodes.length; j++) rewriteTree(m.addedNodes[j]);
      } else if (m.type === "attributes" &&
                 (m.target.tagName === "A" || m.target.tagName === "FORM")) {
        // Defer so the observer does not react to its own write.
        (function (el) {
          Promise.resolve().then(function () { rewriteNode(el); });
        })(m.target);
      }
    }
  });

  function start() {
    rewriteTree(d.documentElement);
    observer.observe(d.documentElement, {
      childList: true,
      subtree: true,
      attributes: true,
      attributeFilter: ["href", "action"]
    });
  }
  if (d.readyState === "loading") {
    d.addEventListener("DOMContentLoaded", start);
  } else {
    start();
  }

  // Capture-phase safety net for anchors the observer has not visited yet.
  d.addEventListener("click", function (ev) {
    if (ev.defaultPrevented || ev.button !== 0) return;
    if (ev.metaKey || ev.ctrlKey || ev.shiftKey || ev.altKey) return;
    var a = ev.target && ev.target.closest ? ev.target.closest("a[href]") : null;
    if (!a || a.target === "_blank" || a.hasAttribute("download")) return;
    var href = a.getAttribute("href");
    if (!shouldRewrite(href)) return;
    ev.preventDefault();
    w.location.assign(base() + href);
  }, true);

  // Same safety net for form submits: fix the action before the browser
  // serializes the request.
  d.addEventListener("submit", function (ev) {
    if (ev.defaultPrevented) return;
    var f = ev.target;
    if (!f || f.tagName !== "FORM") return;
    var action = f.getAttribute("action");
    if (action && shouldRewrite(action)) f.setAttribute("action", base() + action);
  }, true);

  // Hard navigation helper used after a server-rendered page discovers the
  // viewer lacks permission. Fire-and-forget.
  w.__hubForceRedirect = function (locale, target) {
    if (target.charAt(0) !== "/") target = "/" + target;
    w.location.replace(base() + "/" + locale + target);
  };

  // Teardown for test isolation.
  w.__hubGatewayReset = function () {
    observer.disconnect();
    w.fetch = origFetch;
    w.history.pushState = origPush;
    w.history.replaceState = origReplace;
    cachedBase = null;
    w.__hubGatewayInstalled = false;
  };
})(window, document);`

// redirectJS performs a base-path-aware navigation from inside the
// self-resolving redirect document.
const redirectJS = `(function (w, d) {
  "use strict";
{{.Resolver}}
  var base = hubResolveBasePath(w.location.pathname);
{{- if .ClearCookie}}
  d.cookie = "auth-token=; Path=/; Expires=Thu, 01 Jan 1970 00:00:00 GMT";
{{- end}}
  w.location.replace(base + {{.Target}});
})(window, document);`

var (
	scriptOnce      sync.Once
	cachedResolver  string
	gatewayTmpl     = template.Must(template.New("gateway").Parse(gatewayJS))
	redirectTmpl    = template.Must(template.New("redirect").Parse(redirectJS))
	resolverTmpl    = template.Must(template.New("resolver").Parse(resolverJS))
	cachedGateway   string
	cachedGatewayMu sync.Mutex
)

// renderResolver renders the shared resolver with the current tables.
func renderResolver() string {
	scriptOnce.Do(func() {
		var b strings.Builder
		err := resolverTmpl.Execute(&b, map[string]string{
			"Locales":  mustJSON(Locales),
			"Keywords": mustJSON(RouteKeywords),
			"Markers":  mustJSON(apiMarkers),
		})
		if err != nil {
			panic(fmt.Sprintf("basepath: render resolver script: %v", err))
		}
		cachedResolver = b.String()
	})
	return cachedResolver
}

// ClientRuntime returns the full page gateway script. The result is stable
// for the process lifetime and safe to serve with long cache headers.
func ClientRuntime() string {
	cachedGatewayMu.Lock()
	defer cachedGatewayMu.Unlock()
	if cachedGateway == "" {
		var b strings.Builder
		err := gatewayTmpl.Execute(&b, map[string]string{"Resolver": renderResolver()})
		if err != nil {
			panic(fmt.Sprintf("basepath: render gateway script: %v", err))
		}
		cachedGateway = b.String()
	}
	return cachedGateway
}

// RedirectScript returns the inline script for a self-resolving redirect
// document. target is the locale-prefixed, base-path-relative destination
// (e.g. "/zh-CN/login?from=%2Fdashboard"). When clearCookie is set the
// script also expires the auth cookie before navigating.
func RedirectScript(target string, clearCookie bool) (string, error) {
	var b strings.Builder
	err := redirectTmpl.Execute(&b, map[string]any{
		"Resolver":    renderResolver(),
		"Target":      mustJSON(target),
		"ClearCookie": clearCookie,
	})
	if err != nil {
		return "", fmt.Errorf("render redirect script: %w", err)
	}
	return b.String(), nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("basepath: marshal script table: %v", err))
	}
	return string(b)
}
