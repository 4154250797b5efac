package realtime

import "testing"

func TestResolveVisibility(t *testing.T) {
	t.Parallel()

	allStatuses := []Status{StatusOffline, StatusOnline, StatusAway, StatusIdle}

	// everyone: raw status passes through for every value.
	for _, raw := range allStatuses {
		if got := ResolveVisibility(VisibilityEveryone, raw, false, false); got != raw {
			t.Fatalf("everyone: got %s want %s", got, raw)
		}
	}

	cases := []struct {
		name      string
		v         Visibility
		raw       Status
		community bool
		inner     bool
		want      Status
	}{
		{name: "community member sees raw", v: VisibilityCommunity, raw: StatusAway, community: true, want: StatusAway},
		{name: "community outsider sees offline", v: VisibilityCommunity, raw: StatusOnline, want: StatusOffline},
		{name: "inner circle sees raw", v: VisibilityInnerCircle, raw: StatusIdle, inner: true, want: StatusIdle},
		{name: "outside inner circle sees offline", v: VisibilityInnerCircle, raw: StatusOnline, community: true, want: StatusOffline},
		{name: "no-one hides from everyone", v: VisibilityNoOne, raw: StatusOnline, community: true, inner: true, want: StatusOffline},
		{name: "unknown visibility hides", v: Visibility("friends-of-friends"), raw: StatusOnline, community: true, inner: true, want: StatusOffline},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveVisibility(tc.v, tc.raw, tc.community, tc.inner); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}

	// community + non-member hides every raw value.
	for _, raw := range allStatuses {
		if got := ResolveVisibility(VisibilityCommunity, raw, false, true); got != StatusOffline {
			t.Fatalf("community non-member: raw=%s got %s", raw, got)
		}
	}
}
