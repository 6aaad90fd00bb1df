package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"nestchat/errors"

	"github.com/google/uuid"
)

// MessageType tags a message's payload kind. The set is open: SYSTEM
// messages are emitted by the platform itself, and new kinds may be
// added without a schema change.
type MessageType string

const (
	MessageTypeText   MessageType = "TEXT"
	MessageTypeImage  MessageType = "IMAGE"
	MessageTypeSystem MessageType = "SYSTEM"
)

// Valid reports whether the type is one of the known kinds.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeSystem:
		return true
	}
	return false
}

// Message is one immutable entry in a conversation's ledger. CreatedAt is
// the sole ordering key and is strictly monotonic within a conversation.
// The only mutation a message ever sees is the one-way unread to read
// transition, and only a non-sender participant may cause it.
type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	SenderID       uuid.UUID   `json:"sender_id"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
	IsRead         bool        `json:"is_read"`
	// ReadAt is set exactly when IsRead flips to true; IsRead and
	// ReadAt != nil are always equivalent.
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UnreadBy reports whether the message counts as unread from viewerID's
// perspective: authored by the other participant and not yet read.
func (m Message) UnreadBy(viewerID uuid.UUID) bool {
	return m.SenderID != viewerID && !m.IsRead
}

// NormalizeContent trims and validates raw message input before it touches
// storage. An empty messageType defaults to TEXT. The returned content is
// the trimmed form, which is also what gets persisted.
func NormalizeContent(content string, messageType MessageType, maxRunes int) (string, MessageType, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", "", fmt.Errorf("%w: content is empty", errors.ErrValidation)
	}
	if utf8.RuneCountInString(content) > maxRunes {
		return "", "", fmt.Errorf("%w: content exceeds %d characters", errors.ErrValidation, maxRunes)
	}

	if messageType == "" {
		messageType = MessageTypeText
	}
	if !messageType.Valid() {
		return "", "", fmt.Errorf("%w: unknown message type %q", errors.ErrValidation, messageType)
	}

	return content, messageType, nil
}
