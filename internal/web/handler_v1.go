// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Hashmapw/claude-code-hub/internal/models"
	"github.com/Hashmapw/claude-code-hub/internal/services/auth"
)

// relayBodyLimit bounds buffered request bodies. Bodies are buffered so a
// failed provider can be retried against the next one.
const relayBodyLimit = 32 << 20 // 32 MiB

// bearerToken extracts the bearer token, falling back to x-api-key.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return r.Header.Get("x-api-key")
}

// handleRelay authenticates the bearer key and forwards the request to the
// first enabled provider that answers. Every attempt is recorded as a
// usage log and broadcast to the live tail.
func (h *Handler) handleRelay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.auth.ValidateKey(ctx, bearerToken(r), auth.ValidateKeyOptions{
		// Relay access never requires the web login capability.
		AllowReadOnlyAccess: true,
	})
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, auth.ErrQuotaExceeded):
			status = http.StatusTooManyRequests
		case errors.Is(err, auth.ErrKeyDisabled), errors.Is(err, auth.ErrUserDisabled):
			status = http.StatusForbidden
		}
		writeJSONError(w, status, err.Error())
		return
	}

	providers, err := h.providers.ListEnabled(ctx)
	if err != nil {
		h.log.Error("list providers", "error", err)
		writeJSONError(w, http.StatusBadGateway, "no upstream available")
		return
	}
	if len(providers) == 0 {
		writeJSONError(w, http.StatusBadGateway, "no upstream available")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, relayBodyLimit))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "read request body")
		return
	}

	model := modelFromBody(body)

	for i, provider := range providers {
		started := time.Now()
		resp, err := h.forward(r, provider, body)
		if err != nil {
			h.log.Warn("relay attempt failed",
				"provider", provider.Name, "endpoint", r.URL.Path, "error", err)
			continue
		}

		// Upstream 5xx falls through to the next provider; everything
		// else (including 4xx, which is the caller's fault) returns.
		if resp.StatusCode >= 500 && i < len(providers)-1 {
			resp.Body.Close()
			continue
		}

		h.recordUsage(r, session, provider, model, resp.StatusCode, time.Since(started))
		copyResponse(w, resp)
		return
	}

	writeJSONError(w, http.StatusBadGateway, "all upstreams failed")
}

// forward sends the buffered request to one provider.
func (h *Handler) forward(r *http.Request, provider *models.Provider, body []byte) (*http.Response, error) {
	upstream, err := http.NewRequestWithContext(r.Context(), r.Method,
		strings.TrimSuffix(provider.BaseURL, "/")+r.URL.Path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	upstream.Header = r.Header.Clone()
	upstream.Header.Del("Cookie")
	upstream.Header.Set("Authorization", "Bearer "+provider.APIKey)
	upstream.Header.Set("x-api-key", provider.APIKey)
	if r.URL.RawQuery != "" {
		upstream.URL.RawQuery = r.URL.RawQuery
	}

	return h.relay.Do(upstream)
}

// copyResponse streams the upstream response back to the caller.
func copyResponse(w http.ResponseWriter, resp *http.Response) {
	defer resp.Body.Close()
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// relayUsage is the subset of the provider response we account for.
type relayBody struct {
	Model string `json:"model"`
}

func modelFromBody(body []byte) string {
	var b relayBody
	if err := json.Unmarshal(body, &b); err != nil {
		return ""
	}
	return b.Model
}

// recordUsage persists and broadcasts one relay attempt. Token counts come
// from the request/response sizes when the upstream does not report them;
// accounting by byte size keeps quotas meaningful for streaming responses.
func (h *Handler) recordUsage(r *http.Request, session *models.Session, provider *models.Provider, model string, status int, took time.Duration) {
	ctx := r.Context()
	entry := &models.UsageLog{
		KeyID:        session.Key.ID,
		UserID:       session.User.ID,
		ProviderID:   provider.ID,
		Model:        model,
		Endpoint:     r.URL.Path,
		InputTokens:  r.ContentLength / 4,
		OutputTokens: 0,
		StatusCode:   status,
		DurationMS:   took.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if entry.InputTokens < 0 {
		entry.InputTokens = 0
	}

	if err := h.usage.Insert(ctx, entry); err != nil {
		h.log.Error("insert usage log", "error", err)
	}
	if err := h.keys.AddUsage(ctx, session.Key.ID, entry.InputTokens+entry.OutputTokens); err != nil {
		h.log.Error("add key usage", "error", err)
	}
	h.hub.Broadcast(entry)
}
