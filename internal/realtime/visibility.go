package realtime

// Visibility controls who may see a user's raw presence.
type Visibility string

const (
	VisibilityEveryone    Visibility = "everyone"
	VisibilityCommunity   Visibility = "community"
	VisibilityInnerCircle Visibility = "inner-circle"
	VisibilityNoOne       Visibility = "no-one"
)

// ResolveVisibility maps a raw status to the status disclosed to one
// viewer. It is pure and must be called once per (viewer, target) pair;
// batching is the caller's responsibility.
//
// Priority order, no fallthrough:
//
//	everyone                  -> raw
//	community + member        -> raw
//	community + non-member    -> offline
//	inner-circle + member     -> raw
//	inner-circle + non-member -> offline
//	no-one (and unknown)      -> offline
func ResolveVisibility(v Visibility, raw Status, isCommunityMember, isInnerCircle bool) Status {
	switch v {
	case VisibilityEveryone:
		return raw
	case VisibilityCommunity:
		if isCommunityMember {
			return raw
		}
		return StatusOffline
	case VisibilityInnerCircle:
		if isInnerCircle {
			return raw
		}
		return StatusOffline
	default:
		return StatusOffline
	}
}
