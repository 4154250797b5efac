package realtime

// TextFilter screens room messages before relay. Implementations are
// opaque to this package; the gateway only consumes pass/fail plus a
// reason surfaced to the sender.
type TextFilter interface {
	Check(text string) (ok bool, reason string)
}

// AllowAllFilter passes every message. Used when no filter is configured.
type AllowAllFilter struct{}

// Check implements TextFilter.
func (AllowAllFilter) Check(string) (bool, string) { return true, "" }
