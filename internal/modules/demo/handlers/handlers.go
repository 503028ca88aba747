// Package handlers provides HTTP handlers for the demo portfolio.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aristath/advisor/internal/api"
	"github.com/aristath/advisor/internal/events"
	"github.com/aristath/advisor/internal/modules/demo"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait       = 10 * time.Second
	pingInterval    = 30 * time.Second
	messageSnapshot = "snapshot"
)

// StreamMessage is written to websocket clients
type StreamMessage struct {
	Type string         `json:"type"`
	Data *demo.Snapshot `json:"data"`
}

// Handler handles demo HTTP requests
type Handler struct {
	service        *demo.Service
	bus            *events.Bus
	originPatterns []string
	respond        api.Responder
	log            zerolog.Logger
}

// NewHandler creates a new demo handler. bus may be nil, in which case the
// stream only delivers the current snapshot.
func NewHandler(service *demo.Service, bus *events.Bus, originPatterns []string, log zerolog.Logger) *Handler {
	l := log.With().Str("handler", "demo").Logger()
	return &Handler{
		service:        service,
		bus:            bus,
		originPatterns: originPatterns,
		respond:        api.NewResponder(l),
		log:            l,
	}
}

// HandleGetSnapshot handles GET /api/demo/snapshot
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.Current()
	h.respond.OK(w, r, snapshot, snapshot.NonFinite...)
}

// HandleRefresh handles POST /api/demo/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.Refresh()
	h.respond.OK(w, r, snapshot, snapshot.NonFinite...)
}

// HandleStream handles GET /api/demo/stream (websocket)
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to accept websocket")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	// Client messages are ignored; the returned context ends when the client goes away.
	ctx := conn.CloseRead(r.Context())

	// Latest-wins: a refresh arriving while one is pending collapses into it.
	updates := make(chan struct{}, 1)
	if h.bus != nil {
		unsubscribe := h.bus.Subscribe(events.SnapshotRefreshed, func(*events.Event) {
			select {
			case updates <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()
	}

	h.log.Debug().Str("remote", r.RemoteAddr).Msg("Client connected to demo stream")

	// The first Current() may itself refresh and signal updates; lastID filters that echo.
	current := h.service.Current()
	if err := h.write(ctx, conn, current); err != nil {
		h.log.Debug().Err(err).Msg("Failed to write initial snapshot")
		return
	}
	lastID := current.ID

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Msg("Client disconnected from demo stream")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case <-updates:
			current := h.service.Current()
			if current.ID == lastID {
				continue
			}
			if err := h.write(ctx, conn, current); err != nil {
				h.log.Debug().Err(err).Msg("Failed to write snapshot")
				return
			}
			lastID = current.ID

		case <-ping.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("Demo stream ping failed")
				return
			}
		}
	}
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, snapshot *demo.Snapshot) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return wsjson.Write(writeCtx, conn, StreamMessage{Type: messageSnapshot, Data: snapshot})
}
