// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package web

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Hashmapw/claude-code-hub/internal/models"
	"github.com/Hashmapw/claude-code-hub/internal/pkg/logger"
)

// isAllowedWebSocketOrigin accepts same-host origins only. Browsers always
// send Origin on WebSocket upgrades; clients that omit it are rejected.
// Behind a reverse proxy the backend Host may differ from the public name,
// so X-Forwarded-Host counts as same-host too.
func isAllowedWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	originHost := u.Hostname()
	serverHost := r.Host
	if h, _, err := net.SplitHostPort(r.Host); err == nil {
		serverHost = h
	}
	if strings.EqualFold(originHost, serverHost) {
		return true
	}

	if fwdHost := r.Header.Get("X-Forwarded-Host"); fwdHost != "" {
		if h, _, err := net.SplitHostPort(fwdHost); err == nil {
			fwdHost = h
		}
		if strings.EqualFold(originHost, fwdHost) {
			return true
		}
	}

	return false
}

// ============================================================================
// Broadcast hub
// ============================================================================

const (
	wsWriteWait = 10 * time.Second
	wsPingEvery = 30 * time.Second
)

// usageHub fans freshly recorded usage logs out to connected tail viewers.
type usageHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	log   *logger.Logger
}

func newUsageHub(log *logger.Logger) *usageHub {
	if log == nil {
		log = logger.Nop()
	}
	return &usageHub{
		conns: make(map[*websocket.Conn]struct{}),
		log:   log.Named("usage-ws"),
	}
}

func (hub *usageHub) add(conn *websocket.Conn) {
	hub.mu.Lock()
	hub.conns[conn] = struct{}{}
	hub.mu.Unlock()
}

func (hub *usageHub) remove(conn *websocket.Conn) {
	hub.mu.Lock()
	delete(hub.conns, conn)
	hub.mu.Unlock()
	conn.Close()
}

// Broadcast sends one usage log to every connected viewer. Slow or dead
// connections are dropped rather than blocking the relay path.
func (hub *usageHub) Broadcast(l *models.UsageLog) {
	payload, err := json.Marshal(l)
	if err != nil {
		hub.log.Error("marshal usage log", "error", err)
		return
	}

	hub.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(hub.conns))
	for c := range hub.conns {
		conns = append(conns, c)
	}
	hub.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			hub.remove(c)
		}
	}
}

// ============================================================================
// Handler
// ============================================================================

var usageUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     isAllowedWebSocketOrigin,
}

// handleUsageWS upgrades the connection and streams new usage logs until
// the client goes away. The edge gate has already validated the session.
func (h *Handler) handleUsageWS(w http.ResponseWriter, r *http.Request) {
	conn, err := usageUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Info("usage ws upgrade rejected", "error", err)
		return
	}
	h.hub.add(conn)
	defer h.hub.remove(conn)

	// Reader loop: we never expect client messages, but reading drives
	// close and ping/pong handling.
	conn.SetReadLimit(512)
	go func() {
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()
		for range ticker.C {
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
