// Package gateway owns the wire contract of the platform's event
// gateway: the op/d/s/t frame envelope, the closed set of dispatch
// event names, outbound command encoding, intents, and the close-code
// catalogue.
//
// Ownership boundary:
// - frame decode (ops 0, 7, 9, 10, 11)
// - Identify / Resume / Heartbeat command encode
// - dispatch payload shapes (messages, guild members)
//
// Session behavior (heartbeating, resume, recovery) lives in the
// session subpackage; socket ownership lives in internal/transport.
package gateway
