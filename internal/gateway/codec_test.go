package gateway

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lodgepole/gale/internal/testutil/testlog"
)

func TestDecodeHelloConvertsMillis(t *testing.T) {
	testlog.Start(t)
	frame, err := DecodeFrame([]byte(`{"op":10,"d":{"heartbeat_interval":41250}}`))
	if err != nil {
		t.Fatalf("decode hello: %v", err)
	}
	hello, ok := frame.(Hello)
	if !ok {
		t.Fatalf("expected Hello, got %T", frame)
	}
	if hello.HeartbeatInterval != 41250*time.Millisecond {
		t.Fatalf("unexpected interval: %v", hello.HeartbeatInterval)
	}
}

func TestDecodeSimpleOps(t *testing.T) {
	testlog.Start(t)
	frame, err := DecodeFrame([]byte(`{"op":7}`))
	if err != nil {
		t.Fatalf("decode reconnect: %v", err)
	}
	if _, ok := frame.(Reconnect); !ok {
		t.Fatalf("expected Reconnect, got %T", frame)
	}

	frame, err = DecodeFrame([]byte(`{"op":11}`))
	if err != nil {
		t.Fatalf("decode heartbeat ack: %v", err)
	}
	if _, ok := frame.(HeartbeatAck); !ok {
		t.Fatalf("expected HeartbeatAck, got %T", frame)
	}
}

func TestDecodeInvalidSessionResumability(t *testing.T) {
	testlog.Start(t)
	frame, err := DecodeFrame([]byte(`{"op":9,"d":true}`))
	if err != nil {
		t.Fatalf("decode invalid session: %v", err)
	}
	if inv := frame.(InvalidSession); !inv.Resumable {
		t.Fatalf("expected resumable invalid session")
	}

	frame, err = DecodeFrame([]byte(`{"op":9,"d":false}`))
	if err != nil {
		t.Fatalf("decode invalid session: %v", err)
	}
	if inv := frame.(InvalidSession); inv.Resumable {
		t.Fatalf("expected non-resumable invalid session")
	}

	// Absent payload reads as non-resumable.
	frame, err = DecodeFrame([]byte(`{"op":9}`))
	if err != nil {
		t.Fatalf("decode invalid session: %v", err)
	}
	if inv := frame.(InvalidSession); inv.Resumable {
		t.Fatalf("expected non-resumable invalid session for absent payload")
	}
}

func TestDecodeDispatchReady(t *testing.T) {
	testlog.Start(t)
	frame, err := DecodeFrame([]byte(`{"op":0,"s":1,"t":"READY","d":{"session_id":"abc123"}}`))
	if err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	dispatch, ok := frame.(Dispatch)
	if !ok {
		t.Fatalf("expected Dispatch, got %T", frame)
	}
	if dispatch.Seq != 1 {
		t.Fatalf("unexpected seq: %d", dispatch.Seq)
	}
	ready, ok := dispatch.Event.(Ready)
	if !ok {
		t.Fatalf("expected Ready, got %T", dispatch.Event)
	}
	if ready.SessionID != "abc123" {
		t.Fatalf("unexpected session id: %q", ready.SessionID)
	}
}

func TestDecodeDispatchMessageCreate(t *testing.T) {
	testlog.Start(t)
	raw := `{"op":0,"s":7,"t":"MESSAGE_CREATE","d":{
		"id":"111","channel_id":"222","guild_id":"333",
		"author":{"id":"444","username":"maren","bot":false},
		"content":"hello"}}`
	frame, err := DecodeFrame([]byte(raw))
	if err != nil {
		t.Fatalf("decode message create: %v", err)
	}
	created := frame.(Dispatch).Event.(MessageCreated)
	if created.Message.ID != "111" || created.Message.ChannelID != "222" {
		t.Fatalf("unexpected message: %+v", created.Message)
	}
	guildID, ok := created.Message.GuildID.Value()
	if !ok || guildID != "333" {
		t.Fatalf("unexpected guild id: %+v", created.Message.GuildID)
	}
	if created.Message.Author.Username != "maren" {
		t.Fatalf("unexpected author: %+v", created.Message.Author)
	}
}

func TestDecodeDispatchBulkDelete(t *testing.T) {
	testlog.Start(t)
	raw := `{"op":0,"s":9,"t":"MESSAGE_DELETE_BULK","d":{
		"ids":["1","2","3"],"channel_id":"222","guild_id":"333"}}`
	frame, err := DecodeFrame([]byte(raw))
	if err != nil {
		t.Fatalf("decode bulk delete: %v", err)
	}
	bulk := frame.(Dispatch).Event.(MessagesBulkDeleted)
	if len(bulk.IDs) != 3 || bulk.IDs[0] != "1" || bulk.IDs[2] != "3" {
		t.Fatalf("unexpected ids: %v", bulk.IDs)
	}
}

func TestDecodeDispatchGuildMemberRemove(t *testing.T) {
	testlog.Start(t)
	raw := `{"op":0,"s":4,"t":"GUILD_MEMBER_REMOVE","d":{
		"guild_id":"333","user":{"id":"444","username":"maren"}}}`
	frame, err := DecodeFrame([]byte(raw))
	if err != nil {
		t.Fatalf("decode member remove: %v", err)
	}
	removed := frame.(Dispatch).Event.(GuildMemberRemoved)
	if removed.GuildID != "333" || removed.User.ID != "444" {
		t.Fatalf("unexpected member remove: %+v", removed)
	}
}

func TestDecodeRejectsMalformedAndUnknown(t *testing.T) {
	testlog.Start(t)
	if _, err := DecodeFrame([]byte(`{not json`)); !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
	if _, err := DecodeFrame([]byte(`{"op":4,"d":{}}`)); !errors.Is(err, ErrUnhandledOp) {
		t.Fatalf("expected ErrUnhandledOp, got %v", err)
	}
	if _, err := DecodeFrame([]byte(`{"op":0,"s":1,"t":"PRESENCE_UPDATE","d":{}}`)); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
	if _, err := DecodeFrame([]byte(`{"op":0,"s":1,"d":{}}`)); !errors.Is(err, ErrMissingEvent) {
		t.Fatalf("expected ErrMissingEvent, got %v", err)
	}
	if _, err := DecodeFrame([]byte(`{"op":0,"t":"READY","d":{}}`)); !errors.Is(err, ErrMissingSequence) {
		t.Fatalf("expected ErrMissingSequence, got %v", err)
	}
}

func TestEncodeIdentifyWireShape(t *testing.T) {
	testlog.Start(t)
	data, err := EncodeIdentify("bot.token")
	if err != nil {
		t.Fatalf("encode identify: %v", err)
	}
	var env struct {
		Op int `json:"op"`
		D  struct {
			Token      string            `json:"token"`
			Properties map[string]string `json:"properties"`
			Intents    uint64            `json:"intents"`
		} `json:"d"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal identify: %v", err)
	}
	if env.Op != OpIdentify {
		t.Fatalf("unexpected op: %d", env.Op)
	}
	if env.D.Token != "bot.token" {
		t.Fatalf("unexpected token: %q", env.D.Token)
	}
	if env.D.Intents != ClientIntents {
		t.Fatalf("unexpected intents: %d", env.D.Intents)
	}
	for _, key := range []string{"os", "browser", "device"} {
		if env.D.Properties[key] == "" {
			t.Fatalf("missing property %q: %v", key, env.D.Properties)
		}
	}
}

func TestEncodeResumeWireShape(t *testing.T) {
	testlog.Start(t)
	data, err := EncodeResume("bot.token", "abc123", 42)
	if err != nil {
		t.Fatalf("encode resume: %v", err)
	}
	var env struct {
		Op int `json:"op"`
		D  struct {
			Token     string `json:"token"`
			SessionID string `json:"session_id"`
			Seq       int64  `json:"seq"`
		} `json:"d"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal resume: %v", err)
	}
	if env.Op != OpResume || env.D.Token != "bot.token" ||
		env.D.SessionID != "abc123" || env.D.Seq != 42 {
		t.Fatalf("unexpected resume: %+v", env)
	}
}

func TestEncodeHeartbeatIsNullPayload(t *testing.T) {
	testlog.Start(t)
	data, err := EncodeHeartbeat()
	if err != nil {
		t.Fatalf("encode heartbeat: %v", err)
	}
	if string(data) != `{"op":1,"d":null}` {
		t.Fatalf("unexpected heartbeat wire form: %s", data)
	}
}

func TestCloseReasonLookup(t *testing.T) {
	testlog.Start(t)
	reason, ok := CloseReason(CloseAuthenticationFailed)
	if !ok || reason != "authentication failed" {
		t.Fatalf("unexpected reason: %q ok=%v", reason, ok)
	}
	if _, ok := CloseReason(1000); ok {
		t.Fatalf("1000 should not be in the catalogue")
	}
}
