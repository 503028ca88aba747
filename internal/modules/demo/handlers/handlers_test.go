package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aristath/advisor/internal/events"
	"github.com/aristath/advisor/internal/modules/demo"
	"github.com/aristath/advisor/pkg/formulas"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func setup(t *testing.T) (*demo.Service, chi.Router) {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	bus := events.NewBus(logger)
	service := demo.NewService(demo.Config{
		Seed:      42,
		Days:      64,
		AnnualVol: formulas.DefaultAnnualVolatility,
		Drift:     formulas.DefaultDrift,
		Options:   formulas.DefaultMetricsOptions(),
	}, bus, logger)
	handler := NewHandler(service, bus, []string{"*"}, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return service, router
}

type snapshotEnvelope struct {
	Data struct {
		ID      string                 `json:"id"`
		Seed    uint64                 `json:"seed"`
		Days    int                    `json:"days"`
		Returns []float64              `json:"returns"`
		Prices  []float64              `json:"prices"`
		Metrics map[string]interface{} `json:"metrics"`
	} `json:"data"`
	Metadata struct {
		RunID string `json:"run_id"`
	} `json:"metadata"`
}

func TestHandleGetSnapshot(t *testing.T) {
	_, router := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/demo/snapshot", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env snapshotEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, uint64(42), env.Data.Seed)
	assert.Len(t, env.Data.Returns, 64)
	assert.Len(t, env.Data.Prices, 65)
	assert.Contains(t, env.Data.Metrics, "sharpeRatio")
	assert.NotEmpty(t, env.Metadata.RunID)

	// Same snapshot until refreshed
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/demo/snapshot", nil))
	var env2 snapshotEnvelope
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &env2))
	assert.Equal(t, env.Data.ID, env2.Data.ID)
}

func TestHandleRefresh(t *testing.T) {
	_, router := setup(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/demo/refresh", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var first snapshotEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/demo/refresh", nil))
	var second snapshotEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, uint64(42), first.Data.Seed)
	assert.Equal(t, uint64(43), second.Data.Seed)
	assert.NotEqual(t, first.Data.ID, second.Data.ID)
}

func TestHandleStream(t *testing.T) {
	service, router := setup(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/demo/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var initial StreamMessage
	require.NoError(t, wsjson.Read(ctx, conn, &initial))
	assert.Equal(t, "snapshot", initial.Type)
	require.NotNil(t, initial.Data)
	assert.Equal(t, uint64(42), initial.Data.Seed)

	refreshed := service.Refresh()

	var update StreamMessage
	require.NoError(t, wsjson.Read(ctx, conn, &update))
	require.NotNil(t, update.Data)
	assert.Equal(t, refreshed.ID, update.Data.ID)
	assert.Equal(t, uint64(43), update.Data.Seed)
}

func TestHandleStream_NoRefreshSendsOnce(t *testing.T) {
	_, router := setup(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/demo/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var initial StreamMessage
	require.NoError(t, wsjson.Read(ctx, conn, &initial))
	require.NotNil(t, initial.Data)

	readCtx, readCancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer readCancel()

	var extra StreamMessage
	err = wsjson.Read(readCtx, conn, &extra)
	assert.Error(t, err, "a fresh snapshot must not be sent twice")
}
