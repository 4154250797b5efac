package realtime

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewConversationID returns a ULID used as IM conversation id.
// ULIDs are lexicographically sortable, which keeps call logs readable.
func NewConversationID(now time.Time) (string, error) {
	return newULID(now)
}

// NewEnvelopeID returns a ULID used as envelope id.
func NewEnvelopeID(now time.Time) (string, error) {
	return newULID(now)
}

func newULID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// newConnID returns a short random identifier for a single websocket
// connection. Conn ids only correlate log lines and hub replacements,
// so 10 random bytes keeps them compact; "conn-anon" marks the rare
// case where the system randomness source fails.
func newConnID() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "conn-anon"
	}
	return hex.EncodeToString(b)
}
