// Package transport owns the real sockets and timers behind the
// session manager: it dials the gateway, feeds inbound frames and
// closure notifications to the manager one at a time in receipt
// order, and executes the effects the manager emits. Effects carry
// the connection handle they were issued under; anything whose handle
// no longer matches the live connection is discarded.
package transport

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lodgepole/gale/internal/gateway"
	"github.com/lodgepole/gale/internal/gateway/session"
	"github.com/lodgepole/gale/internal/observability"
)

// Config wires one executor to one gateway endpoint.
type Config struct {
	URL     string
	Token   string
	Session session.Config
}

// Notifier receives the manager's outward notifications. It is called
// from the executor's run loop and must not block.
type Notifier func(session.Notification)

// Executor drives a single gateway connection. All manager access and
// all socket writes happen on the Run goroutine; reader goroutines
// and timers only post events onto the internal channel.
type Executor struct {
	cfg    Config
	log    zerolog.Logger
	notify Notifier

	mu  sync.Mutex
	mgr *session.Manager

	events chan transportEvent

	// run-loop state
	conn       *websocket.Conn
	connID     uint64
	nextConnID uint64
	dialing    bool

	// pending heartbeat send time, for ack round-trip measurement
	heartbeatSentAt time.Time
}

type transportEvent interface {
	transportEvent()
}

type evOpened struct {
	conn *websocket.Conn
}

type evClosed struct {
	connID uint64
	err    error
}

type evInbound struct {
	connID uint64
	data   []byte
}

type evHeartbeatDue struct {
	connID uint64
}

func (evOpened) transportEvent()       {}
func (evClosed) transportEvent()       {}
func (evInbound) transportEvent()      {}
func (evHeartbeatDue) transportEvent() {}

// NewExecutor builds an executor around a fresh session manager.
func NewExecutor(cfg Config, notify Notifier, log zerolog.Logger) *Executor {
	if cfg.URL == "" {
		cfg.URL = gateway.DefaultURL
	}
	return &Executor{
		cfg:    cfg,
		log:    log,
		notify: notify,
		mgr:    session.NewManager(log),
		events: make(chan transportEvent, 64),
	}
}

// Snapshot returns the manager's diagnostics view. Safe to call from
// any goroutine.
func (e *Executor) Snapshot() session.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mgr.Snapshot()
}

// Run dials the gateway and processes events until ctx is done. It
// never gives up on reconnects; the backoff only paces them.
func (e *Executor) Run(ctx context.Context) error {
	e.openAsync(ctx)

	for {
		select {
		case <-ctx.Done():
			if e.conn != nil {
				_ = e.conn.Close()
			}
			return ctx.Err()
		case ev := <-e.events:
			e.handle(ctx, ev)
		}
	}
}

func (e *Executor) handle(ctx context.Context, ev transportEvent) {
	switch ev := ev.(type) {
	case evOpened:
		e.dialing = false
		if e.conn != nil {
			_ = e.conn.Close()
		}
		e.nextConnID++
		e.conn = ev.conn
		e.connID = e.nextConnID
		e.heartbeatSentAt = time.Time{}
		e.log.Info().Uint64("conn_id", e.connID).Msg("gateway connection open")
		go e.readLoop(e.connID, ev.conn)
		e.apply(ctx, e.withManager(func(m *session.Manager) []session.Effect {
			return m.ConnectionOpened(e.connID)
		}))

	case evClosed:
		if ev.connID == e.connID {
			e.conn = nil
		}
		e.logClosure(ev)
		e.apply(ctx, e.withManager(func(m *session.Manager) []session.Effect {
			return m.ConnectionClosed(ev.connID)
		}))

	case evInbound:
		if ev.connID != e.connID {
			return
		}
		e.apply(ctx, e.withManager(func(m *session.Manager) []session.Effect {
			return m.Receive(ev.data)
		}))

	case evHeartbeatDue:
		if ev.connID != e.connID || e.conn == nil {
			return
		}
		e.sendHeartbeat()
	}
}

func (e *Executor) withManager(fn func(*session.Manager) []session.Effect) []session.Effect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.mgr)
}

func (e *Executor) apply(ctx context.Context, effects []session.Effect) {
	for _, effect := range effects {
		switch eff := effect.(type) {
		case session.SendIdentify:
			if eff.ConnID != e.connID {
				continue
			}
			data, err := gateway.EncodeIdentify(e.cfg.Token)
			if err != nil {
				e.log.Error().Err(err).Msg("encode identify")
				continue
			}
			e.write(data)
			observability.RecordCommand("identify")

		case session.SendResume:
			if eff.ConnID != e.connID {
				continue
			}
			data, err := gateway.EncodeResume(e.cfg.Token, eff.SessionID, eff.Seq)
			if err != nil {
				e.log.Error().Err(err).Msg("encode resume")
				continue
			}
			e.write(data)
			observability.RecordCommand("resume")

		case session.SendHeartbeat:
			if eff.ConnID != e.connID {
				continue
			}
			e.sendHeartbeat()

		case session.ScheduleHeartbeat:
			if !e.heartbeatSentAt.IsZero() {
				observability.RecordHeartbeatRTT(time.Since(e.heartbeatSentAt))
				e.heartbeatSentAt = time.Time{}
			}
			connID := eff.ConnID
			time.AfterFunc(eff.Delay, func() {
				select {
				case e.events <- evHeartbeatDue{connID: connID}:
				case <-ctx.Done():
				}
			})

		case session.CloseConnection:
			if eff.ConnID == e.connID && e.conn != nil {
				_ = e.conn.Close()
				e.conn = nil
			}

		case session.OpenConnection:
			e.openAsync(ctx)

		case session.Notify:
			if e.notify != nil {
				e.notify(eff.Notification)
			}
		}
	}
}

func (e *Executor) sendHeartbeat() {
	data, err := gateway.EncodeHeartbeat()
	if err != nil {
		e.log.Error().Err(err).Msg("encode heartbeat")
		return
	}
	e.heartbeatSentAt = time.Now()
	e.write(data)
	observability.RecordCommand("heartbeat")
}

func (e *Executor) write(data []byte) {
	if e.conn == nil {
		return
	}
	deadline := time.Now().Add(e.cfg.Session.WriteTimeout)
	_ = e.conn.SetWriteDeadline(deadline)
	if err := e.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		// The read loop observes the broken socket and reports the
		// closure; nothing else to do here.
		e.log.Warn().Err(err).Msg("gateway write failed")
	}
}

// openAsync dials in the background with jittered exponential backoff
// until a connection lands or ctx is done. At most one dial runs at a
// time.
func (e *Executor) openAsync(ctx context.Context) {
	if e.dialing {
		return
	}
	e.dialing = true
	go func() {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		dialer := websocket.Dialer{HandshakeTimeout: e.cfg.Session.HandshakeTimeout}
		for attempt := 1; ; attempt++ {
			dialCtx, cancel := context.WithTimeout(ctx, e.cfg.Session.ConnectTimeout)
			conn, resp, err := dialer.DialContext(dialCtx, e.cfg.URL, nil)
			cancel()
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
			if err == nil {
				select {
				case e.events <- evOpened{conn: conn}:
				case <-ctx.Done():
					_ = conn.Close()
				}
				return
			}
			if ctx.Err() != nil {
				return
			}
			delay := e.cfg.Session.Backoff.Delay(attempt, rng)
			e.log.Warn().Err(err).Int("attempt", attempt).
				Dur("retry_in", delay).Msg("gateway dial failed")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}
	}()
}

// readLoop delivers inbound payloads for one connection until the
// socket errors, then reports the closure. Delivery order is the
// receipt order; the run loop consumes one event at a time.
func (e *Executor) readLoop(connID uint64, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			_ = conn.Close()
			e.events <- evClosed{connID: connID, err: err}
			return
		}
		e.events <- evInbound{connID: connID, data: data}
	}
}

func (e *Executor) logClosure(ev evClosed) {
	event := e.log.Warn().Uint64("conn_id", ev.connID).Err(ev.err)
	var closeErr *websocket.CloseError
	if errors.As(ev.err, &closeErr) {
		event = event.Int("close_code", closeErr.Code)
		if reason, ok := gateway.CloseReason(closeErr.Code); ok {
			event = event.Str("close_reason", reason)
		}
	}
	event.Msg("gateway connection closed")
}
