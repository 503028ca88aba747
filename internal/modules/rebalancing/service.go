// Package rebalancing provides portfolio rebalancing functionality.
package rebalancing

import (
	"math"
	"sort"

	"github.com/aristath/advisor/internal/events"
	"github.com/aristath/advisor/pkg/formulas"
	"github.com/rs/zerolog"
)

// DefaultLot is the tradable unit used when a simulation does not name one.
const DefaultLot = 1.0

// Order is a simulated trade. Positive quantities buy, negative sell.
type Order struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
}

// BoundsRequest pairs current and target weights by position.
type BoundsRequest struct {
	Current   []float64 `json:"current" validate:"required,min=1"`
	Target    []float64 `json:"target" validate:"required,min=1"`
	Tolerance *float64  `json:"tolerance,omitempty" validate:"omitempty,gte=0"`
}

// SimulateRequest describes holdings and targets keyed by symbol.
type SimulateRequest struct {
	Portfolio map[string]float64 `json:"portfolio"`
	Targets   map[string]float64 `json:"targets" validate:"required,min=1,dive,gte=0"`
	Tolerance *float64           `json:"tolerance,omitempty" validate:"omitempty,gte=0"`
	Lot       *float64           `json:"lot,omitempty"`
}

// Service orchestrates rebalancing operations
type Service struct {
	tolerance float64
	bus       *events.Bus
	log       zerolog.Logger
}

// NewService creates a new rebalancing service. bus may be nil.
func NewService(tolerance float64, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		tolerance: tolerance,
		bus:       bus,
		log:       log.With().Str("service", "rebalancing").Logger(),
	}
}

// Bounds returns one bound per current weight, flagging drift beyond the tolerance.
func (s *Service) Bounds(req BoundsRequest) []formulas.RebalancingBound {
	if len(req.Current) != len(req.Target) {
		s.log.Debug().
			Int("current", len(req.Current)).
			Int("target", len(req.Target)).
			Msg("Weight sets differ in length, weights without a target are not flagged")
	}
	return formulas.CalculateRebalancingBounds(req.Current, req.Target, s.resolveTolerance(req.Tolerance))
}

// Simulate computes the orders that bring holdings back to their targets.
//
// A symbol trades when |target - current| / target >= tolerance. The quantity is
// the difference rounded toward zero to a whole number of lots. Symbols with a zero
// target, and orders that round to zero, are skipped. Holdings without a target are
// left alone. Orders are sorted by symbol.
func (s *Service) Simulate(req SimulateRequest) []Order {
	tolerance := s.resolveTolerance(req.Tolerance)
	lot := DefaultLot
	if req.Lot != nil {
		lot = *req.Lot
	}

	symbols := make([]string, 0, len(req.Targets))
	for symbol := range req.Targets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	orders := make([]Order, 0, len(symbols))
	for _, symbol := range symbols {
		target := req.Targets[symbol]
		if target == 0 {
			continue
		}

		diff := target - req.Portfolio[symbol]
		band := math.Abs(diff) / target
		if band < tolerance {
			continue
		}

		if qty := LotSized(diff, lot); qty != 0 {
			orders = append(orders, Order{Symbol: symbol, Quantity: qty})
		}
	}

	s.log.Info().
		Int("targets", len(req.Targets)).
		Int("orders", len(orders)).
		Float64("tolerance", tolerance).
		Float64("lot", lot).
		Msg("Rebalance simulated")

	if s.bus != nil && len(orders) > 0 {
		data := &events.OrdersSimulatedData{
			Orders:    make([]events.OrderData, len(orders)),
			Tolerance: tolerance,
			Lot:       lot,
		}
		for i, o := range orders {
			data.Orders[i] = events.OrderData{Symbol: o.Symbol, Quantity: o.Quantity}
		}
		s.bus.Emit("rebalancing", data)
	}

	return orders
}

func (s *Service) resolveTolerance(tolerance *float64) float64 {
	if tolerance != nil {
		return *tolerance
	}
	return s.tolerance
}

// LotSized rounds quantity toward zero to a whole number of lots.
// A non-positive lot leaves the quantity unchanged.
func LotSized(quantity, lot float64) float64 {
	if lot <= 0 {
		return quantity
	}
	return math.Trunc(quantity/lot) * lot
}
