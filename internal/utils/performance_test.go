package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationTimer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := OperationTimer("demo_refresh", log)
	elapsed := done()

	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "demo_refresh", entry["operation"])
	assert.Equal(t, "Operation completed", entry["message"])
}

func TestOperationTimer_FilteredAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)

	OperationTimer("fast", log)()

	assert.Empty(t, buf.String())
}
