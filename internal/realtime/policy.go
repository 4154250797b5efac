package realtime

import "context"

// PresencePolicy supplies the inputs ResolveVisibility needs for one
// (viewer, target) pair: the target's visibility setting and the
// relationship flags. Implementations typically read user settings and
// buddy lists; they are external to this core.
type PresencePolicy interface {
	Visibility(ctx context.Context, target string) Visibility
	IsCommunityMember(ctx context.Context, viewer string) bool
	IsInnerCircle(ctx context.Context, target, viewer string) bool
}

// OpenPresencePolicy discloses raw presence to everyone. Used when no
// policy source is configured.
type OpenPresencePolicy struct{}

func (OpenPresencePolicy) Visibility(context.Context, string) Visibility {
	return VisibilityEveryone
}

func (OpenPresencePolicy) IsCommunityMember(context.Context, string) bool { return false }

func (OpenPresencePolicy) IsInnerCircle(context.Context, string, string) bool { return false }
