package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEnvelopeValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		env     Envelope
		wantErr bool
	}{
		{"valid hello", Envelope{V: Version, Type: TypeHello}, false},
		{"valid rtc offer", Envelope{V: Version, Type: TypeRTCOffer}, false},
		{"missing version", Envelope{Type: TypeHello}, true},
		{"wrong version", Envelope{V: "v0", Type: TypeHello}, true},
		{"missing type", Envelope{V: Version}, true},
		{"unknown type", Envelope{V: Version, Type: "shrug"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.env.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestEnvelopeRoundTripKeepsPayloadOpaque(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"sdp":"v=0...","nested":{"a":1}}`)
	in := Envelope{
		V:       Version,
		Type:    TypeRTCOffer,
		ID:      "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		TS:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Payload: raw,
	}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Envelope
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(out.Payload) != string(raw) {
		t.Fatalf("payload mutated in transit: got %s want %s", out.Payload, raw)
	}
	if out.Type != TypeRTCOffer || out.V != Version {
		t.Fatalf("header mutated: %+v", out)
	}
}
