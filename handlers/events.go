// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/random-chooser/chooser"
	"github.com/danielhkuo/random-chooser/middleware"
	"github.com/danielhkuo/random-chooser/models"
)

const (
	eventBuffer  = 256
	writeTimeout = 5 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

type EventsHandler struct {
	chooser  *chooser.Chooser
	upgrader websocket.Upgrader
}

func NewEventsHandler(c *chooser.Chooser) *EventsHandler {
	return &EventsHandler{
		chooser: c,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			// The server listens on loopback for a single local user
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream handles GET /events. It sends the current roster first, then every
// event published by the chooser until the client goes away.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "client", middleware.GetClientIP(r), "error", err)
		return
	}
	defer conn.Close()

	hub := h.chooser.Hub()
	id, events := hub.Subscribe(eventBuffer)
	defer hub.Unsubscribe(id)

	slog.Info("event subscriber connected", "subscriber", id, "client", middleware.GetClientIP(r))

	view := h.chooser.View(r.Context())
	if err := writeEvent(conn, models.Event{Type: models.EventRosterUpdated, Roster: &view}); err != nil {
		return
	}

	// Reader: the client never sends anything useful, but reading is
	// required to process pongs and notice a close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			slog.Info("event subscriber disconnected", "subscriber", id)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(conn, ev); err != nil {
				slog.Debug("event write failed", "subscriber", id, "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, ev models.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
