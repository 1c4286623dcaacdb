package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lodgepole/gale/internal/gateway/session"
	"github.com/lodgepole/gale/internal/testutil/testlog"
)

// gatewayStub plays the server side of one gateway connection: it
// sends Hello, captures the client's first command, then delivers the
// scripted dispatches.
type gatewayStub struct {
	upgrader  websocket.Upgrader
	hello     string
	dispatch  []string
	firstCmds chan []byte
}

func newGatewayStub(interval int) *gatewayStub {
	return &gatewayStub{
		upgrader:  websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		hello:     `{"op":10,"d":{"heartbeat_interval":` + jsonInt(interval) + `}}`,
		firstCmds: make(chan []byte, 4),
	}
}

func jsonInt(v int) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func (s *gatewayStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(s.hello)); err != nil {
		return
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return
	}
	s.firstCmds <- data

	for _, payload := range s.dispatch {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			return
		}
	}
	// Hold the connection open until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func TestExecutorIdentifiesAfterHello(t *testing.T) {
	testlog.Start(t)
	stub := newGatewayStub(60000)
	ts := httptest.NewServer(stub)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exec := NewExecutor(Config{
		URL:     wsURL(ts),
		Token:   "bot.token",
		Session: session.DefaultConfig(),
	}, nil, zerolog.Nop())
	go exec.Run(ctx)

	select {
	case data := <-stub.firstCmds:
		var env struct {
			Op int `json:"op"`
			D  struct {
				Token string `json:"token"`
			} `json:"d"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("unmarshal command: %v", err)
		}
		if env.Op != 2 {
			t.Fatalf("expected identify op 2, got %d", env.Op)
		}
		if env.D.Token != "bot.token" {
			t.Fatalf("unexpected token: %q", env.D.Token)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no command received from client")
	}
}

func TestExecutorDeliversGuildNotifications(t *testing.T) {
	testlog.Start(t)
	stub := newGatewayStub(60000)
	stub.dispatch = []string{
		`{"op":0,"s":1,"t":"READY","d":{"session_id":"abc123"}}`,
		`{"op":0,"s":2,"t":"MESSAGE_CREATE","d":{
			"id":"111","channel_id":"222","guild_id":"333",
			"author":{"id":"444","username":"maren"},"content":"hi"}}`,
	}
	ts := httptest.NewServer(stub)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notices := make(chan session.Notification, 4)
	exec := NewExecutor(Config{
		URL:     wsURL(ts),
		Token:   "bot.token",
		Session: session.DefaultConfig(),
	}, func(n session.Notification) { notices <- n }, zerolog.Nop())
	go exec.Run(ctx)

	select {
	case n := <-notices:
		notice, ok := n.(session.MessageNotice)
		if !ok {
			t.Fatalf("expected MessageNotice, got %T", n)
		}
		if notice.GuildID != "333" || notice.Message.ID != "111" {
			t.Fatalf("unexpected notice: %+v", notice)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no notification delivered")
	}

	// The snapshot reflects the established session.
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := exec.Snapshot()
		if snap.Phase == "established" && snap.SessionID == "abc123" && snap.LastSeq == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("snapshot never settled: %+v", snap)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
