// Package ice issues time-limited TURN relay credentials using the
// REST credential mechanism: the username carries the expiry, and the
// password is an HMAC over the username with a secret shared with the
// relay. Credentials are derived values, never stored.
package ice

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is the credential lifetime when CAMPFIRE_TURN_TTL is unset.
const DefaultTTL = 24 * time.Hour

// Config configures relay credential issuance. Issuance is unavailable
// (not an error) when SharedSecret or URLs are empty.
type Config struct {
	SharedSecret string
	TTL          time.Duration
	URLs         []string
}

// Credential is the wire shape handed to clients, one per relay set.
type Credential struct {
	URLs       []string `json:"urls"`
	Username   string   `json:"username"`
	Credential string   `json:"credential"`
}

// Issuer issues relay credentials for authenticated identities.
type Issuer struct {
	log *slog.Logger
	cfg Config

	warnOnce sync.Once
}

// NewIssuer constructs an Issuer. cfg may be unconfigured; Generate then
// reports unavailability instead of failing.
func NewIssuer(log *slog.Logger, cfg Config) *Issuer {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Issuer{log: log, cfg: cfg}
}

// Configured reports whether credential issuance is available.
func (i *Issuer) Configured() bool {
	return i.cfg.SharedSecret != "" && len(i.cfg.URLs) > 0
}

// Generate returns a relay credential for identity, or ok=false when the
// relay is not configured. The unconfigured case is warned at most once
// per process lifetime to avoid flooding the log on every call attempt.
func (i *Issuer) Generate(identity string, now time.Time) (Credential, bool) {
	if !i.Configured() {
		i.warnOnce.Do(func() {
			i.log.Warn("ice.unconfigured", "reason", "missing shared secret or relay urls")
		})
		return Credential{}, false
	}

	username, credential := GenerateAt(identity, i.cfg.SharedSecret, i.cfg.TTL, now)
	return Credential{
		URLs:       i.cfg.URLs,
		Username:   username,
		Credential: credential,
	}, true
}

// GenerateAt derives the TURN REST credential pair for identity at the
// given instant. It is pure: identical inputs within the same second
// produce identical output.
//
// username = "{unixEpochSecondsExpiry}:{identity}"
// credential = base64(HMAC-SHA1(secret, username))
//
// Identities containing colons are safe because the relay splits the
// username on the first delimiter only.
func GenerateAt(identity, secret string, ttl time.Duration, now time.Time) (username, credential string) {
	expiry := now.Unix() + int64(ttl/time.Second)
	username = fmt.Sprintf("%d:%s", expiry, identity)

	mac := hmac.New(sha1.New, []byte(secret))
	_, _ = mac.Write([]byte(username))
	credential = base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return username, credential
}
