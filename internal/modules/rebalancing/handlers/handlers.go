// Package handlers provides HTTP handlers for rebalancing operations.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/aristath/advisor/internal/api"
	"github.com/aristath/advisor/internal/encoding"
	"github.com/aristath/advisor/internal/modules/rebalancing"
	"github.com/rs/zerolog"
)

// Handler handles rebalancing HTTP requests
type Handler struct {
	service   *rebalancing.Service
	validator *api.Validator
	respond   api.Responder
	log       zerolog.Logger
}

// NewHandler creates a new rebalancing handler
func NewHandler(service *rebalancing.Service, validator *api.Validator, log zerolog.Logger) *Handler {
	l := log.With().Str("handler", "rebalancing").Logger()
	return &Handler{
		service:   service,
		validator: validator,
		respond:   api.NewResponder(l),
		log:       l,
	}
}

// BoundView is the wire form of a rebalancing bound. A missing target encodes as null.
type BoundView struct {
	Symbol           string         `json:"symbol"`
	Current          encoding.Float `json:"current"`
	Target           encoding.Float `json:"target"`
	NeedsRebalancing bool           `json:"needsRebalancing"`
}

// HandleBounds handles POST /api/rebalancing/bounds
func (h *Handler) HandleBounds(w http.ResponseWriter, r *http.Request) {
	var req rebalancing.BoundsRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}

	bounds := h.service.Bounds(req)

	views := make([]BoundView, len(bounds))
	var nonFinite []string
	needsRebalancing := 0
	for i, b := range bounds {
		views[i] = BoundView{
			Symbol:           b.Symbol,
			Current:          encoding.Float(b.Current),
			Target:           encoding.Float(b.Target),
			NeedsRebalancing: b.NeedsRebalancing,
		}
		if !views[i].Target.IsFinite() {
			nonFinite = append(nonFinite, fmt.Sprintf("bounds[%d].target", i))
		}
		if b.NeedsRebalancing {
			needsRebalancing++
		}
	}

	h.respond.OK(w, r, map[string]interface{}{
		"bounds":            views,
		"needs_rebalancing": needsRebalancing,
	}, nonFinite...)
}

// HandleSimulate handles POST /api/rebalancing/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req rebalancing.SimulateRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.respond.Error(w, r, err)
		return
	}

	h.respond.OK(w, r, map[string]interface{}{
		"orders": h.service.Simulate(req),
	})
}
