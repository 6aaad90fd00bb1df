package domain

import (
	"github.com/google/uuid"
)

// StartConversationCommand opens (or reuses) the conversation about an
// apartment and carries its first message. InitiatorID is the explicit
// caller identity supplied by the transport.
type StartConversationCommand struct {
	ApartmentID uuid.UUID
	InitiatorID uuid.UUID
	Content     string
	Type        MessageType
}

// AppendMessageCommand adds one message to an existing conversation.
type AppendMessageCommand struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	Type           MessageType
}

// PageCommand fetches one page of a conversation's history for ViewerID.
// When BeforeID is set the page is the cursor window strictly older than
// that message; otherwise Page/PageSize select an offset window from the
// newest end. Results always come back oldest first.
type PageCommand struct {
	ConversationID uuid.UUID
	ViewerID       uuid.UUID
	Page           int
	PageSize       int
	BeforeID       *uuid.UUID
}

// CreateApartmentCommand publishes a listing on behalf of OwnerID.
type CreateApartmentCommand struct {
	OwnerID   uuid.UUID
	Title     string
	Address   string
	RentCents int64
}
