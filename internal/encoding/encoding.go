// Package encoding negotiates and writes API responses as JSON or MessagePack.
package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"mime"
	"net/http"
	"strings"

	"github.com/aristath/advisor/pkg/formulas"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// Format is a response encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
)

// ContentType returns the MIME type written for the format.
func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return ContentTypeMsgpack
	}
	return ContentTypeJSON
}

// String returns the short format name used by the CLI.
func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

// ParseFormat maps "json" or "msgpack" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return FormatJSON, nil
	case "msgpack", "messagepack":
		return FormatMsgpack, nil
	default:
		return FormatJSON, fmt.Errorf("unknown format %q", name)
	}
}

// Negotiate picks the response format from an Accept header.
// MessagePack is used only when explicitly listed; everything else gets JSON.
func Negotiate(accept string) Format {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case ContentTypeMsgpack, "application/x-msgpack", "application/vnd.msgpack":
			return FormatMsgpack
		}
	}
	return FormatJSON
}

// Marshal encodes v in the given format.
func Marshal(f Format, v interface{}) ([]byte, error) {
	if f == FormatMsgpack {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		enc.SetOmitEmpty(false)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("msgpack encode: %w", err)
		}
		return buf.Bytes(), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return data, nil
}

// Write encodes v in the format requested by r and writes it with the given status.
func Write(w http.ResponseWriter, r *http.Request, status int, v interface{}) error {
	format := Negotiate(r.Header.Get("Accept"))

	data, err := Marshal(format, v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// Float is a float64 that encodes NaN and infinities as null.
// JSON has no representation for them; MessagePack mirrors JSON for consistency.
type Float float64

// IsFinite reports whether f is neither NaN nor an infinity.
func (f Float) IsFinite() bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.IsFinite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (f Float) EncodeMsgpack(enc *msgpack.Encoder) error {
	if !f.IsFinite() {
		return enc.EncodeNil()
	}
	return enc.EncodeFloat64(float64(f))
}

// Floats converts a slice for encoding.
func Floats(values []float64) []Float {
	out := make([]Float, len(values))
	for i, v := range values {
		out[i] = Float(v)
	}
	return out
}

// MetricsView maps a metrics record to its wire form keyed by field name.
func MetricsView(m formulas.PortfolioMetrics) map[string]Float {
	fields := m.Fields()
	view := make(map[string]Float, len(fields))
	for _, f := range fields {
		view[f.Name] = Float(f.Value)
	}
	return view
}
