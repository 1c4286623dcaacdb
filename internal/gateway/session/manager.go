package session

import (
	"github.com/rs/zerolog"

	"github.com/lodgepole/gale/internal/gateway"
	"github.com/lodgepole/gale/internal/observability"
)

// Manager is the gateway session state machine. Each call consumes
// exactly one input event (a raw frame, a connection-opened
// notification, or a connection-closed notification) and returns the
// ordered effects the executor must perform. It holds no concurrency
// and performs no I/O; callers must deliver events one at a time, in
// receipt order.
type Manager struct {
	state State
	log   zerolog.Logger
}

// NewManager returns a manager in the disconnected state. The logger
// is used only for the decode-failure observability hook.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{log: log}
}

// State returns a copy of the current session state.
func (m *Manager) State() State {
	return m.state.clone()
}

// Snapshot returns the diagnostics view of the current state.
func (m *Manager) Snapshot() Snapshot {
	return m.state.snapshot()
}

// ConnectionOpened records a freshly established connection handle.
// The manager then waits for the server's Hello.
func (m *Manager) ConnectionOpened(connID uint64) []Effect {
	m.state.ConnID = connID
	m.state.HeartbeatInterval = 0
	m.state.Phase = PhaseConnecting
	return nil
}

// ConnectionClosed handles an external socket closure. Closures for
// stale handles are ignored; the resume state always survives.
func (m *Manager) ConnectionClosed(connID uint64) []Effect {
	if connID == 0 || connID != m.state.ConnID {
		return nil
	}
	observability.RecordReconnect("socket_closed")
	m.state.ConnID = 0
	m.state.HeartbeatInterval = 0
	m.state.Phase = PhaseDisconnected
	return []Effect{OpenConnection{}}
}

// Receive decodes one raw inbound payload and processes it. Decode
// failures are absorbed: the state is left untouched and no effects
// are produced.
func (m *Manager) Receive(raw []byte) []Effect {
	frame, err := gateway.DecodeFrame(raw)
	if err != nil {
		observability.RecordDecodeFailure()
		m.log.Debug().Err(err).Msg("dropping undecodable frame")
		return nil
	}
	return m.FrameReceived(frame)
}

// FrameReceived processes one decoded gateway frame.
func (m *Manager) FrameReceived(frame gateway.Frame) []Effect {
	if m.state.ConnID == 0 {
		// Frame raced a connection teardown; nothing to act on.
		return nil
	}

	switch f := frame.(type) {
	case gateway.Hello:
		observability.RecordFrame("hello")
		return m.onHello(f)
	case gateway.HeartbeatAck:
		observability.RecordFrame("heartbeat_ack")
		return m.onHeartbeatAck()
	case gateway.Dispatch:
		observability.RecordFrame("dispatch")
		return m.onDispatch(f)
	case gateway.Reconnect:
		observability.RecordFrame("reconnect")
		observability.RecordReconnect("server_reconnect")
		return m.dropAndReopen(true)
	case gateway.InvalidSession:
		observability.RecordFrame("invalid_session")
		observability.RecordReconnect("invalid_session")
		return m.dropAndReopen(f.Resumable)
	default:
		return nil
	}
}

// onHello records the heartbeat cadence for this connection attempt
// and authenticates: Resume when a resumable session is held,
// Identify otherwise. Exactly one heartbeat is scheduled.
func (m *Manager) onHello(hello gateway.Hello) []Effect {
	m.state.HeartbeatInterval = hello.HeartbeatInterval
	m.state.Phase = PhaseHeartbeating

	var auth Effect
	if r := m.state.Resume; r != nil {
		auth = SendResume{ConnID: m.state.ConnID, SessionID: r.SessionID, Seq: r.Seq}
	} else {
		auth = SendIdentify{ConnID: m.state.ConnID}
	}
	return []Effect{
		auth,
		ScheduleHeartbeat{ConnID: m.state.ConnID, Delay: hello.HeartbeatInterval},
	}
}

func (m *Manager) onHeartbeatAck() []Effect {
	delay := m.state.HeartbeatInterval
	if delay <= 0 {
		delay = DefaultHeartbeatInterval
	}
	return []Effect{ScheduleHeartbeat{ConnID: m.state.ConnID, Delay: delay}}
}

// onDispatch advances the stored sequence number using the frame's
// own sequence. This happens on every dispatch, not only on
// Ready/Resumed: a later Resume must replay from the true latest
// sequence or events are missed or duplicated after reconnect.
func (m *Manager) onDispatch(d gateway.Dispatch) []Effect {
	observability.SetLastSequence(d.Seq)
	switch ev := d.Event.(type) {
	case gateway.Ready:
		m.state.Resume = &ResumeState{SessionID: ev.SessionID, Seq: d.Seq}
		m.state.Phase = PhaseEstablished
		return nil
	case gateway.Resumed:
		if m.state.Resume != nil {
			m.state.Resume.Seq = d.Seq
		}
		m.state.Phase = PhaseEstablished
		return nil
	default:
		if m.state.Resume != nil {
			m.state.Resume.Seq = d.Seq
		}
		var effects []Effect
		for _, n := range Translate(d.Event) {
			effects = append(effects, Notify{Notification: n})
		}
		return effects
	}
}

// dropAndReopen is the uniform recovery path for Reconnect,
// InvalidSession and protocol anomalies: close the current connection
// and open a new one. Only a non-resumable InvalidSession discards
// the resume state.
func (m *Manager) dropAndReopen(keepResume bool) []Effect {
	connID := m.state.ConnID
	if !keepResume {
		m.state.Resume = nil
	}
	m.state.ConnID = 0
	m.state.HeartbeatInterval = 0
	m.state.Phase = PhaseDisconnected
	return []Effect{
		CloseConnection{ConnID: connID},
		OpenConnection{},
	}
}
