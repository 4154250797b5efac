package identity

import "testing"

func TestNormalizeHandle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Alice.Example.COM", "alice.example.com"},
		{"  bob.example.com  ", "bob.example.com"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeHandle(tc.in); got != tc.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateDID(t *testing.T) {
	t.Parallel()

	valid := []string{
		"did:plc:ewvi7nxzyoun6zhxrhs64oiz",
		"did:web:example.com",
		"did:key:z6Mk",
	}
	for _, s := range valid {
		if err := ValidateDID(s); err != nil {
			t.Errorf("ValidateDID(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{
		"",
		"did:",
		"did:plc:",
		"did::abc",
		"plc:abc",
		"did:PLC:abc",
		"did:pl c:abc",
		"not a did",
	}
	for _, s := range invalid {
		if err := ValidateDID(s); err == nil {
			t.Errorf("ValidateDID(%q) = nil, want error", s)
		}
	}
}

func TestValidateHandle(t *testing.T) {
	t.Parallel()

	if err := ValidateHandle("alice.example.com"); err != nil {
		t.Errorf("valid handle rejected: %v", err)
	}

	for _, s := range []string{"", "nodots", "has space.com", "tab\t.com"} {
		if err := ValidateHandle(s); err == nil {
			t.Errorf("ValidateHandle(%q) = nil, want error", s)
		}
	}
}
