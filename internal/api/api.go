// Package api holds the request decoding, validation and response envelope
// shared by the module handlers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/aristath/advisor/internal/encoding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxBodySize caps request bodies.
const MaxBodySize = 10 << 20

// Envelope is the response shape of every API endpoint.
type Envelope struct {
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp string   `json:"timestamp"`
	RunID     string   `json:"run_id"`
	NonFinite []string `json:"non_finite,omitempty"`
}

// ErrorResponse is written for failed requests.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError wraps the field errors of a rejected request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator decodes and validates request bodies.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator reporting fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates a decoded value.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out.Fields = append(out.Fields, FieldError{
			Field:   field,
			Message: formatFieldError(fe),
		})
	}
	return out
}

// Decode reads a JSON body into dst and validates it.
func (v *Validator) Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodySize))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return v.Struct(dst)
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Responder writes envelopes and errors for one handler.
type Responder struct {
	log zerolog.Logger
}

// NewResponder creates a responder logging through log.
func NewResponder(log zerolog.Logger) Responder {
	return Responder{log: log}
}

// OK writes data with status 200.
func (rs Responder) OK(w http.ResponseWriter, r *http.Request, data interface{}, nonFinite ...string) {
	rs.Write(w, r, http.StatusOK, data, nonFinite...)
}

// Write wraps data in the envelope and writes it in the negotiated encoding.
func (rs Responder) Write(w http.ResponseWriter, r *http.Request, status int, data interface{}, nonFinite ...string) {
	env := Envelope{
		Data: data,
		Metadata: Metadata{
			Timestamp: time.Now().Format(time.RFC3339),
			RunID:     uuid.NewString(),
			NonFinite: nonFinite,
		},
	}
	if err := encoding.Write(w, r, status, env); err != nil {
		rs.log.Error().Err(err).Msg("Failed to encode response")
	}
}

// Error writes an error response. Validation and decoding errors become 400.
func (rs Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		rs.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: ve.Fields})
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		rs.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	rs.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	rs.writeError(w, r, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// BadRequest writes a 400 with the given message.
func (rs Responder) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	rs.writeError(w, r, http.StatusBadRequest, ErrorResponse{Error: message})
}

func (rs Responder) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	if err := encoding.Write(w, r, status, body); err != nil {
		rs.log.Error().Err(err).Msg("Failed to encode error response")
	}
}
