package app

import (
	"strings"
	"testing"
)

func TestValidateSecurityConfig(t *testing.T) {
	t.Parallel()

	longSecret := strings.Repeat("s", 32)

	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "policy off",
			cfg:  Config{},
		},
		{
			name:    "require turn, no secret",
			cfg:     Config{RequireTURNSecret: true},
			wantErr: "missing",
		},
		{
			name:    "require turn, short secret",
			cfg:     Config{RequireTURNSecret: true, TURNSecret: "short"},
			wantErr: "too short",
		},
		{
			name:    "require turn, no urls",
			cfg:     Config{RequireTURNSecret: true, TURNSecret: longSecret},
			wantErr: "CAMPFIRE_TURN_URLS",
		},
		{
			name: "require turn, satisfied",
			cfg: Config{
				RequireTURNSecret: true,
				TURNSecret:        longSecret,
				TURNURLs:          []string{"turn:turn.example.com:3478"},
			},
		},
		{
			name:    "short admin token",
			cfg:     Config{AdminToken: "short"},
			wantErr: "CAMPFIRE_ADMIN_TOKEN",
		},
		{
			name: "long admin token",
			cfg:  Config{AdminToken: longSecret},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateSecurityConfig(tc.cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateSecurityConfig() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("ValidateSecurityConfig() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}
