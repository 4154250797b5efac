package app

import "errors"

const minSecretBytes = 32

// ValidateSecurityConfig enforces Campfire's security policy at startup.
// Fail-fast is intentional: a production deployment that silently runs
// without TURN credentials or with a guessable admin token is worse than
// one that refuses to boot.
func ValidateSecurityConfig(cfg Config) error {
	if cfg.RequireTURNSecret {
		// Measured in bytes (not runes) because the key is fed to HMAC as raw bytes.
		if cfg.TURNSecret == "" {
			return errors.New("security policy: CAMPFIRE_REQUIRE_TURN_SECRET=true but CAMPFIRE_TURN_SECRET is missing")
		}
		if len(cfg.TURNSecret) < minSecretBytes {
			return errors.New("security policy: CAMPFIRE_REQUIRE_TURN_SECRET=true but CAMPFIRE_TURN_SECRET is too short (min 32 bytes)")
		}
		if len(cfg.TURNURLs) == 0 {
			return errors.New("security policy: CAMPFIRE_REQUIRE_TURN_SECRET=true but CAMPFIRE_TURN_URLS is empty")
		}
	}

	if cfg.AdminToken != "" && len(cfg.AdminToken) < minSecretBytes {
		return errors.New("security policy: CAMPFIRE_ADMIN_TOKEN is too short (min 32 bytes)")
	}

	return nil
}
