// Package identity holds the DID and handle canonicalization rules
// shared by the HTTP and WebSocket layers.
//
// This package is intentionally dependency-light.
package identity

import (
	"errors"
	"strings"
)

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidDID    = errors.New("invalid_did")
	ErrInvalidHandle = errors.New("invalid_handle")
)

// NormalizeHandle performs case-insensitive canonicalization.
// Note: for now we only trim + lower-case. Additional rules (unicode confusables)
// can be added later behind a versioned policy.
func NormalizeHandle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateDID checks the generic did:<method>:<identifier> shape. It does
// not resolve the DID; method-specific resolution lives with the callers
// that need it (see the PLC account-age resolver).
func ValidateDID(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrInvalidDID
	}

	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] != "did" {
		return ErrInvalidDID
	}
	if parts[1] == "" || parts[2] == "" {
		return ErrInvalidDID
	}

	// Method names are lower-case alphanumeric per the DID spec.
	for _, r := range parts[1] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ErrInvalidDID
		}
	}
	return nil
}

// ValidateHandle checks a normalized handle: non-empty, no whitespace,
// at least one dot (handles are hostnames).
func ValidateHandle(s string) error {
	if s == "" {
		return ErrInvalidHandle
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return ErrInvalidHandle
	}
	if !strings.Contains(s, ".") {
		return ErrInvalidHandle
	}
	return nil
}
