package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tirelire/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var errBadRequestBody = errors.New("invalid request body")

// decodeBody reads and decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequestBody, err)
	}
	return nil
}

// parseAmount converts a decimal form value ("12,34" or "12.34") to Money.
func parseAmount(value string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(value)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parseDate parses a date string in YYYY-MM-DD format. Empty is allowed and
// returns the zero time, which the store fills with now.
func parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", errBadRequestBody, value)
	}
	return t, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
