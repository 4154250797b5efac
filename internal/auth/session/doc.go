// Package session implements Campfire's bearer-session subsystem.
//
// Sessions are created after a successful handle<->DID verification
// (performed by the transport layer) and carry an opaque random token.
// State is held in memory only: a process restart invalidates every
// session, which is an accepted property of the deployment model.
//
// Expiry is enforced twice on purpose: lazily at read time, and by a
// periodic prune sweep that exists purely for memory reclamation. Both
// paths share a single expiry predicate so they can never disagree.
package session
