package session

import "time"

// Phase is the explicit lifecycle tag of a session. It is
// authoritative; the optional State fields carry the data.
type Phase int

const (
	// PhaseDisconnected: no live connection handle.
	PhaseDisconnected Phase = iota
	// PhaseConnecting: handle acquired, waiting for Hello.
	PhaseConnecting
	// PhaseHeartbeating: interval known, Identify or Resume sent.
	PhaseHeartbeating
	// PhaseEstablished: Ready or Resumed observed.
	PhaseEstablished
)

func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "disconnected"
	case PhaseConnecting:
		return "connecting"
	case PhaseHeartbeating:
		return "heartbeating"
	case PhaseEstablished:
		return "established"
	default:
		return "unknown"
	}
}

// ResumeState identifies a resumable session: its server-issued id
// and the highest dispatch sequence observed on it.
type ResumeState struct {
	SessionID string
	Seq       int64
}

// State is the complete session manager state. One State per logical
// gateway connection; never ambient or global.
type State struct {
	Phase Phase

	// ConnID is the live connection handle, 0 when disconnected.
	// Handles are generation counters issued by the executor; the
	// manager references them but never owns the socket.
	ConnID uint64

	// Resume survives connection drops so a later Hello can attempt
	// a Resume. Cleared only by a non-resumable InvalidSession.
	Resume *ResumeState

	// HeartbeatInterval is set exactly once per connection attempt,
	// by Hello. Zero means unknown.
	HeartbeatInterval time.Duration
}

// clone returns a deep copy so callers can hold snapshots.
func (s State) clone() State {
	out := s
	if s.Resume != nil {
		r := *s.Resume
		out.Resume = &r
	}
	return out
}

// Snapshot is the diagnostics view of a State, consumed by the admin
// plane.
type Snapshot struct {
	Phase             string `json:"phase"`
	ConnID            uint64 `json:"conn_id"`
	SessionID         string `json:"session_id,omitempty"`
	LastSeq           int64  `json:"last_seq"`
	HeartbeatInterval int64  `json:"heartbeat_interval_ms"`
}

func (s State) snapshot() Snapshot {
	snap := Snapshot{
		Phase:             s.Phase.String(),
		ConnID:            s.ConnID,
		HeartbeatInterval: int64(s.HeartbeatInterval / time.Millisecond),
	}
	if s.Resume != nil {
		snap.SessionID = s.Resume.SessionID
		snap.LastSeq = s.Resume.Seq
	}
	return snap
}
