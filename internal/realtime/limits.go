package realtime

import "time"

// Security/performance limits for the realtime surface.
const (
	// Max bytes per websocket frame read (hard limit).
	maxFrameBytes = 64 << 10 // 64 KiB

	// Max room message text length (runes).
	maxMessageChars = 4000

	// Max away message length (runes).
	maxAwayMessageChars = 512

	// Max identities per bulk presence query.
	presenceBulkMax = 100
)

const (
	// Heartbeat defaults (overridable via env in ws_gateway.go).
	heartbeatInterval  = 30 * time.Second
	heartbeatMaxMissed = 3

	// Per-key rate limit defaults.
	rateLimitEvents = 60
	rateLimitWindow = 60 * time.Second
)
