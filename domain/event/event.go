package event

import (
	"nestchat/domain"

	"github.com/google/uuid"
)

// DomainEvent is anything that happened inside a conversation and is
// worth telling the sinks about (search indexing, counters, ...).
type DomainEvent interface {
	ConversationID() uuid.UUID
}

// ConversationStarted is emitted once per conversation, when the
// opening message creates it. Reusing an existing conversation does
// not emit it.
type ConversationStarted struct {
	Conversation domain.Conversation
}

func (e ConversationStarted) ConversationID() uuid.UUID {
	return e.Conversation.ID
}

// MessageAppended is emitted for every message accepted into the
// ledger, including the opening one. It carries the parent conversation
// so sinks know both participants without a lookup.
type MessageAppended struct {
	Message      domain.Message
	Conversation domain.Conversation
}

func (e MessageAppended) ConversationID() uuid.UUID {
	return e.Message.ConversationID
}

// MessagesRead is emitted when a reader flips one or more messages to
// read, either explicitly or as a paging side effect.
type MessagesRead struct {
	Conversation uuid.UUID
	ReaderID     uuid.UUID
	MessageIDs   []uuid.UUID
}

func (e MessagesRead) ConversationID() uuid.UUID {
	return e.Conversation
}
