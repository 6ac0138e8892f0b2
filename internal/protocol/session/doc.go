// Package session owns one MAVLink link end to end.
//
// Ownership boundary:
// - Conn: Closed/Open state, read loop with drop-and-continue, sequenced sends
// - Stream: the goroutine that owns a Conn's read loop and fans envelopes out
// - retry/backoff primitives used when a transport is redialed
//
// A Conn never retries. Corrupt, unknown and undecodable frames are dropped
// and counted; only transport failures reach the caller.
package session
