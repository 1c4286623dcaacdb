package session

import "time"

// Effect is one action the executor must perform on the manager's
// behalf, in list order. Every effect that touches a socket carries
// the ConnID it was issued under; the executor must discard it if the
// live connection has moved on.
type Effect interface {
	effect()
}

// SendIdentify authenticates a brand-new session on the connection.
type SendIdentify struct {
	ConnID uint64
}

// SendResume re-attaches to a previous session.
type SendResume struct {
	ConnID    uint64
	SessionID string
	Seq       int64
}

// SendHeartbeat emits one keep-alive frame immediately.
type SendHeartbeat struct {
	ConnID uint64
}

// ScheduleHeartbeat arranges a heartbeat send after Delay. Stale
// schedules (ConnID no longer live) are dropped at fire time.
type ScheduleHeartbeat struct {
	ConnID uint64
	Delay  time.Duration
}

// CloseConnection tears down the identified connection.
type CloseConnection struct {
	ConnID uint64
}

// OpenConnection requests a fresh gateway connection.
type OpenConnection struct{}

// Notify surfaces one domain notification to the embedding
// application.
type Notify struct {
	Notification Notification
}

func (SendIdentify) effect()      {}
func (SendResume) effect()        {}
func (SendHeartbeat) effect()     {}
func (ScheduleHeartbeat) effect() {}
func (CloseConnection) effect()   {}
func (OpenConnection) effect()    {}
func (Notify) effect()            {}
