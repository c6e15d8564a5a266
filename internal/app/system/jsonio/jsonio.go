// internal/app/system/jsonio/jsonio.go
// Package jsonio reads and writes the JSON bodies used by every bizadmin
// endpoint.
package jsonio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned by Decode when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// Decode reads a single JSON object from r into dst. Unknown fields are
// ignored; trailing data after the object is an error.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("unsupported content type %q", ct)
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message is the body of every success and plain error response.
type Message struct {
	Message string `json:"message"`
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	Write(w, status, Message{Message: msg})
}

// ValidationBody is the 422 response: a summary plus one message per field.
type ValidationBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// WriteValidation writes a 422 with per-field errors.
func WriteValidation(w http.ResponseWriter, msg string, fields map[string]string) {
	Write(w, http.StatusUnprocessableEntity, ValidationBody{Message: msg, Errors: fields})
}
