// Package events provides in-process event publication between modules.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	OrdersSimulated   EventType = "ORDERS_SIMULATED"
	SnapshotRefreshed EventType = "SNAPSHOT_REFRESHED"
	ErrorOccurred     EventType = "ERROR_OCCURRED"
)

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// Event is a published event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Data      EventData `json:"data"`
}

// OrderData is one simulated rebalance order
type OrderData struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
}

// OrdersSimulatedData contains data for OrdersSimulated events
type OrdersSimulatedData struct {
	Orders    []OrderData `json:"orders"`
	Tolerance float64     `json:"tolerance"`
	Lot       float64     `json:"lot"`
}

// EventType returns the event type for OrdersSimulatedData
func (d *OrdersSimulatedData) EventType() EventType {
	return OrdersSimulated
}

// SnapshotRefreshedData contains data for SnapshotRefreshed events
type SnapshotRefreshedData struct {
	SnapshotID string `json:"snapshot_id"`
	Seed       uint64 `json:"seed"`
	Days       int    `json:"days"`
}

// EventType returns the event type for SnapshotRefreshedData
func (d *SnapshotRefreshedData) EventType() EventType {
	return SnapshotRefreshed
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}
