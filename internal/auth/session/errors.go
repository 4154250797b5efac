package session

import "errors"

var (
	// ErrConfig is returned for invalid configuration (e.g. non-positive TTL).
	ErrConfig = errors.New("invalid config")
)
