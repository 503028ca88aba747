package events

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDeliversToSubscribersOfType(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var got []*Event
	bus.Subscribe(OrdersSimulated, func(e *Event) { got = append(got, e) })
	bus.Subscribe(SnapshotRefreshed, func(e *Event) { t.Fatal("wrong event type delivered") })

	bus.Emit("rebalancing", &OrdersSimulatedData{
		Orders:    []OrderData{{Symbol: "AAA", Quantity: 3}},
		Tolerance: 0.05,
		Lot:       1,
	})

	require.Len(t, got, 1)
	assert.Equal(t, OrdersSimulated, got[0].Type)
	assert.Equal(t, "rebalancing", got[0].Module)
	assert.False(t, got[0].Timestamp.IsZero())

	data, ok := got[0].Data.(*OrdersSimulatedData)
	require.True(t, ok)
	assert.Equal(t, "AAA", data.Orders[0].Symbol)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	calls := 0
	unsubscribe := bus.Subscribe(SnapshotRefreshed, func(e *Event) { calls++ })
	assert.Equal(t, 1, bus.Subscribers(SnapshotRefreshed))

	bus.Emit("demo", &SnapshotRefreshedData{SnapshotID: "a"})
	unsubscribe()
	unsubscribe()
	bus.Emit("demo", &SnapshotRefreshedData{SnapshotID: "b"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Subscribers(SnapshotRefreshed))
}

func TestBus_EmitError(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var got *ErrorEventData
	bus.Subscribe(ErrorOccurred, func(e *Event) { got = e.Data.(*ErrorEventData) })

	bus.EmitError("demo", errors.New("refresh failed"), map[string]interface{}{"seed": 42})

	require.NotNil(t, got)
	assert.Equal(t, "refresh failed", got.Error)
	assert.Equal(t, 42, got.Context["seed"])
}

func TestBus_ConcurrentEmitAndSubscribe(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var mu sync.Mutex
	count := 0
	bus.Subscribe(SnapshotRefreshed, func(e *Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Emit("demo", &SnapshotRefreshedData{})
		}()
		go func() {
			defer wg.Done()
			unsubscribe := bus.Subscribe(SnapshotRefreshed, func(e *Event) {})
			unsubscribe()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, count)
}

func TestEvent_JSON(t *testing.T) {
	event := Event{
		Type:   SnapshotRefreshed,
		Module: "demo",
		Data:   &SnapshotRefreshedData{SnapshotID: "abc", Seed: 7, Days: 252},
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"SNAPSHOT_REFRESHED"`)
	assert.Contains(t, string(data), `"snapshot_id":"abc"`)
	assert.Contains(t, string(data), `"days":252`)
}
