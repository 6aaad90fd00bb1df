package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConversationSummary is one row of a user's conversation directory,
// already shaped from the viewer's side: the counterpart participant,
// the apartment preview, the latest message and the viewer's unread
// count.
type ConversationSummary struct {
	ID            uuid.UUID        `json:"id"`
	Apartment     ApartmentPreview `json:"apartment"`
	Counterpart   UserSummary      `json:"counterpart"`
	LatestMessage *Message         `json:"latest_message,omitempty"`
	UnreadCount   int              `json:"unread_count"`
	LastMessageAt *time.Time       `json:"last_message_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MessagePage is the result of paging a conversation's history.
// Messages are ordered oldest to newest. HasMore reports whether older
// history remains beyond this page.
type MessagePage struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"has_more"`
}
