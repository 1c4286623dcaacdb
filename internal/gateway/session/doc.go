// Package session owns the gateway session state machine.
//
// Ownership boundary:
// - session state (phase, connection handle, resume state, interval)
// - the transition function: one input event in, effects out
// - dispatch-to-notification translation
// - reconnect backoff and reliability defaults
//
// The manager is pure: it performs no I/O, never blocks, and never
// returns an error. Sockets and timers belong to internal/transport.
package session
