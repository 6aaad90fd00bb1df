package internal

import (
	"fmt"
	"nestchat/codec"
	"nestchat/domain"
	"strings"
)

const maxDetailLength = 60

// ChatMapper decodes stored records into readable inspector rows. Index
// rows hold a plain reference (an id or another key), so their value is
// shown as-is.
func ChatMapper(key string, val []byte) InspectRow {
	row := DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, "user:"):
		var user domain.User
		if err := codec.Unmarshal(val, &user); err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Detail = fmt.Sprintf("%s <%s> (%s)", user.Name, user.Email, user.Role)
		row.Timestamp = user.CreatedAt.Format("15:04:05")

	case strings.HasPrefix(key, "apt:"):
		var apartment domain.Apartment
		if err := codec.Unmarshal(val, &apartment); err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Detail = fmt.Sprintf("%s (%d.%02d/month)", apartment.Title, apartment.RentCents/100, apartment.RentCents%100)
		row.Timestamp = apartment.CreatedAt.Format("15:04:05")

	case strings.HasPrefix(key, "conv:"):
		var conversation domain.Conversation
		if err := codec.Unmarshal(val, &conversation); err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		last := "no messages yet"
		if conversation.LastMessageAt != nil {
			last = "last " + conversation.LastMessageAt.Format("15:04:05")
		}
		row.Detail = fmt.Sprintf("apt %s, owner %s, seeker %s, %s",
			shortID(conversation.ApartmentID.String()),
			shortID(conversation.OwnerID.String()),
			shortID(conversation.InitiatorID.String()),
			last,
		)
		row.Timestamp = conversation.CreatedAt.Format("15:04:05")

	case strings.HasPrefix(key, "msg:"):
		var message domain.Message
		if err := codec.Unmarshal(val, &message); err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		state := "unread"
		if message.IsRead {
			state = "read"
		}
		row.Detail = fmt.Sprintf("[%s] %s", state, truncate(message.Content))
		row.EntityID = shortID(message.SenderID.String())

	default:
		// useremail:, convpair:, convuser:, msgid: and unread: rows all
		// point at something else
		row.Detail = truncate(string(val))
	}
	return row
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) > maxDetailLength {
		return string(runes[:maxDetailLength]) + "..."
	}
	return s
}
