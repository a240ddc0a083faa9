package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"
	internal_errors "github.com/netslap-dev/netslap/shared/errors"
)

// WriteErrorAndStatusCode maps service errors onto HTTP responses. Anything
// that is not an ErrorWithStatusCode is an internal error.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*internal_errors.ErrorWithStatusCode); ok {
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	slog.Error("internal error", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValidate parses the JSON body and checks struct tags. Both failure
// modes are client errors.
func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return internal_errors.BadRequest("Body is invalid json")
	}
	if err := validate.Struct(body); err != nil {
		return internal_errors.BadRequest("Required fields missing or invalid")
	}
	return nil
}

// GetIP extracts the client IP from RemoteAddr only. Proxy headers are not
// trusted; there is no reverse proxy in front of this service.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}
