package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/events"
	"github.com/aristath/advisor/internal/utils"
)

// streamedEventTypes are the bus events forwarded to SSE clients
var streamedEventTypes = []events.EventType{
	events.OrdersSimulated,
	events.SnapshotRefreshed,
	events.ErrorOccurred,
}

// heartbeatInterval keeps idle connections open through proxies.
var heartbeatInterval = 30 * time.Second

// EventsStreamHandler streams bus events as Server-Sent Events
type EventsStreamHandler struct {
	eventBus *events.Bus
	log      zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus: eventBus,
		log:      log.With().Str("component", "events_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/events/stream. An optional comma separated
// "types" query parameter restricts which event types are delivered.
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	subscribed := streamedEventTypes
	typesFilter := r.URL.Query().Get("types")
	if typesFilter != "" {
		subscribed = nil
		for _, t := range utils.ParseCSV(typesFilter) {
			eventType := events.EventType(t)
			if isStreamedType(eventType) {
				subscribed = append(subscribed, eventType)
			}
		}
		if len(subscribed) == 0 {
			http.Error(w, "No known event types in filter", http.StatusBadRequest)
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventChan := make(chan *events.Event, 100)
	handler := func(event *events.Event) {
		select {
		case eventChan <- event:
		default:
			h.log.Warn().
				Str("event_type", string(event.Type)).
				Msg("Event channel full, dropping event")
		}
	}

	for _, eventType := range subscribed {
		unsubscribe := h.eventBus.Subscribe(eventType, handler)
		defer unsubscribe()
	}

	h.log.Info().Str("types_filter", typesFilter).Msg("Client connected to event stream")

	h.send(w, map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event stream",
	})
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Info().Msg("Client disconnected from event stream")
			return

		case event := <-eventChan:
			h.send(w, map[string]interface{}{
				"type":      string(event.Type),
				"module":    event.Module,
				"timestamp": event.Timestamp.Format(time.RFC3339),
				"data":      event.Data,
			})
			flusher.Flush()

		case <-heartbeat.C:
			h.send(w, map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			flusher.Flush()
		}
	}
}

// send writes one SSE data frame.
func (h *EventsStreamHandler) send(w http.ResponseWriter, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to marshal event")
		data = []byte(`{"error":"failed to encode event"}`)
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func isStreamedType(eventType events.EventType) bool {
	for _, t := range streamedEventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}
