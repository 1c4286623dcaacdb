package session

import "github.com/lodgepole/gale/internal/gateway"

// Notification is one domain event surfaced to the embedding
// application. Only guild-scoped channel events are forwarded; events
// without a guild id (direct messages) are dropped by design, and
// guild-member events decode but stay internal as an extension point.
type Notification interface {
	notification()
}

// MessageNotice reports a newly created message in a guild channel.
type MessageNotice struct {
	GuildID   gateway.Snowflake
	ChannelID gateway.Snowflake
	Message   gateway.Message
}

// MessageDeletedNotice reports one deleted message in a guild
// channel. Bulk deletions fan out to one notice per message id.
type MessageDeletedNotice struct {
	GuildID   gateway.Snowflake
	ChannelID gateway.Snowflake
	MessageID gateway.Snowflake
}

func (MessageNotice) notification()        {}
func (MessageDeletedNotice) notification() {}

// Translate maps one decoded dispatch event to its outward
// notifications, in input order.
func Translate(event gateway.DispatchEvent) []Notification {
	switch ev := event.(type) {
	case gateway.MessageCreated:
		guildID, ok := ev.Message.GuildID.Value()
		if !ok {
			return nil
		}
		return []Notification{MessageNotice{
			GuildID:   guildID,
			ChannelID: ev.Message.ChannelID,
			Message:   ev.Message,
		}}

	case gateway.MessageDeleted:
		guildID, ok := ev.GuildID.Value()
		if !ok {
			return nil
		}
		return []Notification{MessageDeletedNotice{
			GuildID:   guildID,
			ChannelID: ev.ChannelID,
			MessageID: ev.ID,
		}}

	case gateway.MessagesBulkDeleted:
		guildID, ok := ev.GuildID.Value()
		if !ok {
			return nil
		}
		notices := make([]Notification, 0, len(ev.IDs))
		for _, id := range ev.IDs {
			notices = append(notices, MessageDeletedNotice{
				GuildID:   guildID,
				ChannelID: ev.ChannelID,
				MessageID: id,
			})
		}
		return notices

	default:
		return nil
	}
}
