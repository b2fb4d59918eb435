// Package httpx holds the small JSON request/response helpers shared by
// every feature handler.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodySize caps JSON request bodies. Nothing in the API legitimately
// sends more than this.
const MaxBodySize = 1 << 20 // 1 MB

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the envelope for every non-2xx response.
type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Error writes a JSON error envelope. reason carries the domain-specific
// failure tag (e.g. "admin rank needed") surfaced verbatim to the caller.
func Error(w http.ResponseWriter, status int, reason string) {
	JSON(w, status, errorBody{Error: http.StatusText(status), Reason: reason})
}

// Decode reads a JSON body into dst, rejecting unknown fields and
// oversized payloads. Callers treat any returned error as a 400.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second document in the body is as malformed as a truncated one.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
