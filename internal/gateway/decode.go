package gateway

import (
	"encoding/json"
	"fmt"
	"time"
)

type envelope struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d"`
	S  *int64          `json:"s"`
	T  *string         `json:"t"`
}

// DecodeFrame parses one raw gateway payload into a typed Frame.
// Callers must treat a decode error as a no-op, never as fatal: the
// session manager ignores frames it cannot understand.
func DecodeFrame(data []byte) (Frame, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch env.Op {
	case OpDispatch:
		return decodeDispatch(env)
	case OpReconnect:
		return Reconnect{}, nil
	case OpInvalidSession:
		// The payload is a bare boolean: whether the session may
		// still be resumed on the next connection. Absent or
		// malformed reads as non-resumable.
		var resumable bool
		if len(env.D) > 0 {
			_ = json.Unmarshal(env.D, &resumable)
		}
		return InvalidSession{Resumable: resumable}, nil
	case OpHello:
		var hello struct {
			HeartbeatInterval int64 `json:"heartbeat_interval"`
		}
		if err := json.Unmarshal(env.D, &hello); err != nil {
			return nil, fmt.Errorf("%w: hello: %v", ErrMalformedEvent, err)
		}
		return Hello{HeartbeatInterval: time.Duration(hello.HeartbeatInterval) * time.Millisecond}, nil
	case OpHeartbeatAck:
		return HeartbeatAck{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnhandledOp, env.Op)
	}
}

func decodeDispatch(env envelope) (Frame, error) {
	if env.T == nil || *env.T == "" {
		return nil, ErrMissingEvent
	}
	if env.S == nil {
		return nil, ErrMissingSequence
	}
	event, err := decodeDispatchEvent(*env.T, env.D)
	if err != nil {
		return nil, err
	}
	return Dispatch{Seq: *env.S, Event: event}, nil
}

func decodeDispatchEvent(name string, data json.RawMessage) (DispatchEvent, error) {
	switch name {
	case EventReady:
		var ready struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(data, &ready); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		return Ready{SessionID: ready.SessionID}, nil

	case EventResumed:
		return Resumed{}, nil

	case EventMessageCreate, EventMessageUpdate:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		if name == EventMessageCreate {
			return MessageCreated{Message: msg}, nil
		}
		return MessageUpdated{Message: msg}, nil

	case EventMessageDelete:
		var del struct {
			ID        Snowflake      `json:"id"`
			ChannelID Snowflake      `json:"channel_id"`
			GuildID   Tri[Snowflake] `json:"guild_id"`
		}
		if err := json.Unmarshal(data, &del); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		return MessageDeleted{ID: del.ID, ChannelID: del.ChannelID, GuildID: del.GuildID}, nil

	case EventMessageDeleteBulk:
		var bulk struct {
			IDs       []Snowflake    `json:"ids"`
			ChannelID Snowflake      `json:"channel_id"`
			GuildID   Tri[Snowflake] `json:"guild_id"`
		}
		if err := json.Unmarshal(data, &bulk); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		return MessagesBulkDeleted{IDs: bulk.IDs, ChannelID: bulk.ChannelID, GuildID: bulk.GuildID}, nil

	case EventGuildMemberAdd, EventGuildMemberUpdate:
		var member GuildMember
		if err := json.Unmarshal(data, &member); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		if name == EventGuildMemberAdd {
			return GuildMemberAdded{Member: member}, nil
		}
		return GuildMemberUpdated{Member: member}, nil

	case EventGuildMemberRemove:
		var removed struct {
			GuildID Snowflake `json:"guild_id"`
			User    User      `json:"user"`
		}
		if err := json.Unmarshal(data, &removed); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, name, err)
		}
		return GuildMemberRemoved{GuildID: removed.GuildID, User: removed.User}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}
