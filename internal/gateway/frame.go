package gateway

import "time"

// DefaultURL is the gateway endpoint, pinned to protocol version 10
// with JSON encoding.
const DefaultURL = "wss://gateway.discord.gg/?v=10&encoding=json"

// Gateway opcodes. Only Dispatch, Reconnect, InvalidSession, Hello and
// HeartbeatAck are meaningful inbound; Heartbeat, Identify and Resume
// are outbound.
const (
	OpDispatch       = 0
	OpHeartbeat      = 1
	OpIdentify       = 2
	OpResume         = 6
	OpReconnect      = 7
	OpInvalidSession = 9
	OpHello          = 10
	OpHeartbeatAck   = 11
)

// Dispatch event names the decoder accepts. The set is closed; any
// other name fails the decode.
const (
	EventReady             = "READY"
	EventResumed           = "RESUMED"
	EventMessageCreate     = "MESSAGE_CREATE"
	EventMessageUpdate     = "MESSAGE_UPDATE"
	EventMessageDelete     = "MESSAGE_DELETE"
	EventMessageDeleteBulk = "MESSAGE_DELETE_BULK"
	EventGuildMemberAdd    = "GUILD_MEMBER_ADD"
	EventGuildMemberRemove = "GUILD_MEMBER_REMOVE"
	EventGuildMemberUpdate = "GUILD_MEMBER_UPDATE"
)

// Snowflake is an opaque entity identifier. The platform encodes them
// as decimal strings on the wire; this package never parses them.
type Snowflake string

// Frame is one decoded inbound gateway frame.
type Frame interface {
	frame()
}

// Hello is the server's first frame on a fresh connection. It carries
// the heartbeat cadence for the lifetime of that connection.
type Hello struct {
	HeartbeatInterval time.Duration
}

// HeartbeatAck acknowledges a client heartbeat.
type HeartbeatAck struct{}

// Reconnect asks the client to drop the connection and resume.
type Reconnect struct{}

// InvalidSession tells the client its session is gone. Resumable
// reflects the payload flag: when true the server permits a Resume on
// the next connection, otherwise the client must re-Identify.
type InvalidSession struct {
	Resumable bool
}

// Dispatch delivers one domain event along with its sequence number.
type Dispatch struct {
	Seq   int64
	Event DispatchEvent
}

func (Hello) frame()          {}
func (HeartbeatAck) frame()   {}
func (Reconnect) frame()      {}
func (InvalidSession) frame() {}
func (Dispatch) frame()       {}

// DispatchEvent is the typed payload of a Dispatch frame.
type DispatchEvent interface {
	dispatchEvent()
}

// Ready opens a brand-new session.
type Ready struct {
	SessionID string
}

// Resumed confirms a successful session resume.
type Resumed struct{}

// MessageCreated carries a newly created message.
type MessageCreated struct {
	Message Message
}

// MessageUpdated carries an edited message.
type MessageUpdated struct {
	Message Message
}

// MessageDeleted identifies one deleted message. GuildID is absent for
// direct-message channels.
type MessageDeleted struct {
	ID        Snowflake
	ChannelID Snowflake
	GuildID   Tri[Snowflake]
}

// MessagesBulkDeleted identifies a batch of deleted messages in one
// channel, in server order.
type MessagesBulkDeleted struct {
	IDs       []Snowflake
	ChannelID Snowflake
	GuildID   Tri[Snowflake]
}

// GuildMemberAdded carries a member joining a guild.
type GuildMemberAdded struct {
	Member GuildMember
}

// GuildMemberRemoved carries a member leaving (or being removed from)
// a guild.
type GuildMemberRemoved struct {
	GuildID Snowflake
	User    User
}

// GuildMemberUpdated carries a member profile change.
type GuildMemberUpdated struct {
	Member GuildMember
}

func (Ready) dispatchEvent()               {}
func (Resumed) dispatchEvent()             {}
func (MessageCreated) dispatchEvent()      {}
func (MessageUpdated) dispatchEvent()      {}
func (MessageDeleted) dispatchEvent()      {}
func (MessagesBulkDeleted) dispatchEvent() {}
func (GuildMemberAdded) dispatchEvent()    {}
func (GuildMemberRemoved) dispatchEvent()  {}
func (GuildMemberUpdated) dispatchEvent()  {}

// User is the wire shape of a platform account.
type User struct {
	ID       Snowflake `json:"id"`
	Username string    `json:"username"`
	Bot      bool      `json:"bot"`
}

// Message is the wire shape of a channel message. GuildID is absent
// for direct-message channels and may be explicitly null.
type Message struct {
	ID        Snowflake      `json:"id"`
	ChannelID Snowflake      `json:"channel_id"`
	GuildID   Tri[Snowflake] `json:"guild_id"`
	Author    User           `json:"author"`
	Content   string         `json:"content"`
	Timestamp string         `json:"timestamp"`
}

// GuildMember is the wire shape of a guild membership. Nick
// distinguishes "no nickname field" from "nickname explicitly
// cleared" (null).
type GuildMember struct {
	GuildID Snowflake   `json:"guild_id"`
	User    User        `json:"user"`
	Nick    Tri[string] `json:"nick"`
	Roles   []Snowflake `json:"roles"`
}
