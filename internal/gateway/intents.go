package gateway

// Intent capability bits. Each bit requests one category of gateway
// events.
const (
	IntentGuilds         uint64 = 1 << 0
	IntentGuildMembers   uint64 = 1 << 1
	IntentGuildMessages  uint64 = 1 << 9
	IntentMessageContent uint64 = 1 << 15
)

// ClientIntents is the fixed set requested by every Identify. The set
// is not configurable; it covers exactly the dispatch events this
// client decodes.
const ClientIntents = IntentGuilds |
	IntentGuildMembers |
	IntentGuildMessages |
	IntentMessageContent
