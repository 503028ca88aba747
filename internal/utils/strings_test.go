package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty string", "", nil},
		{"single value", "ORDERS_SIMULATED", []string{"ORDERS_SIMULATED"}},
		{"spacing", " ORDERS_SIMULATED ,  SNAPSHOT_REFRESHED", []string{"ORDERS_SIMULATED", "SNAPSHOT_REFRESHED"}},
		{"trailing comma", "ERROR_OCCURRED,", []string{"ERROR_OCCURRED"}},
		{"leading comma", ",ERROR_OCCURRED", []string{"ERROR_OCCURRED"}},
		{"only spaces", "   ", nil},
		{"commas only", ", ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCSV(tt.input))
		})
	}
}
