package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/advisor/internal/api"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSeries(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const series = `{"returns":[0.2,-0.25,0.0556,0.3684],"prices":[100,120,90,95,130]}`

func TestReport_JSON(t *testing.T) {
	out, err := run(t, "", "report", "--input", writeSeries(t, series))
	require.NoError(t, err)

	var report struct {
		Metrics map[string]*float64 `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	require.NotNil(t, report.Metrics["maxDrawdown"])
	assert.InDelta(t, 25.0, *report.Metrics["maxDrawdown"], 1e-9)
	assert.InDelta(t, 30.0, *report.Metrics["totalReturn"], 1e-9)
	assert.InDelta(t, 1.0, *report.Metrics["beta"], 1e-12)
	assert.Len(t, report.Metrics, 12)
}

func TestReport_Stdin(t *testing.T) {
	out, err := run(t, series, "report", "--input", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"maxDrawdown":25`)
}

func TestReport_Msgpack(t *testing.T) {
	out, err := run(t, "", "report", "--input", writeSeries(t, series), "--format", "msgpack")
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, msgpack.Unmarshal([]byte(out), &report))
	m, ok := report["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 25.0, m["maxDrawdown"], 1e-9)
}

func TestReport_Text(t *testing.T) {
	out, err := run(t, "", "report", "--input", writeSeries(t, series), "--format", "text")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 12)
	assert.Contains(t, lines[0], "totalReturn")
	assert.Contains(t, out, "maxDrawdown       : 25.0000")
}

func TestReport_NonFinite(t *testing.T) {
	// Constant returns have zero volatility, so the Sharpe ratio is infinite.
	path := writeSeries(t, `{"returns":[0.125,0.125,0.125]}`)
	out, err := run(t, "", "report", "--input", path)
	require.NoError(t, err)

	var report struct {
		Metrics   map[string]*float64 `json:"metrics"`
		NonFinite []string            `json:"nonFinite"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Contains(t, report.NonFinite, "sharpeRatio")
	assert.Nil(t, report.Metrics["sharpeRatio"])
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing input flag", []string{"report"}},
		{"missing file", []string{"report", "--input", filepath.Join(t.TempDir(), "nope.json")}},
		{"unknown format", []string{"report", "--input", writeSeries(t, series), "--format", "xml"}},
		{"malformed json", []string{"report", "--input", writeSeries(t, `{"returns":`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestReport_ValidationError(t *testing.T) {
	_, err := run(t, "", "report", "--input", writeSeries(t, `{"returns":[0.01]}`))
	require.Error(t, err)

	var vErr *api.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "returns", vErr.Fields[0].Field)
}

func TestMock(t *testing.T) {
	out, err := run(t, "", "mock", "--days", "5", "--seed", "7", "--start", "50")
	require.NoError(t, err)

	var got MockSeries
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, uint64(7), got.Seed)
	assert.Len(t, got.Returns, 5)
	require.Len(t, got.Prices, 6)
	assert.Equal(t, 50.0, got.Prices[0])

	again, err := run(t, "", "mock", "--days", "5", "--seed", "7", "--start", "50")
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed, same series")

	other, err := run(t, "", "mock", "--days", "5", "--seed", "8", "--start", "50")
	require.NoError(t, err)
	assert.NotEqual(t, out, other)
}

func TestMock_FeedsReport(t *testing.T) {
	out, err := run(t, "", "mock", "--days", "30")
	require.NoError(t, err)

	report, err := run(t, out, "report", "--input", "-")
	require.NoError(t, err)
	assert.Contains(t, report, `"metrics"`)
}

func TestMock_InvalidFlags(t *testing.T) {
	_, err := run(t, "", "mock", "--days", "0")
	assert.Error(t, err)

	_, err = run(t, "", "mock", "--start=-1")
	assert.Error(t, err)
}
