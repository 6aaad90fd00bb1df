package services

import (
	"context"
	"log/slog"
	"nestchat/contract"
	"nestchat/domain"
	"nestchat/domain/event"
	"nestchat/errors"
	"nestchat/observability"
	"nestchat/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

// DefaultMaxContentLength bounds a message body when no explicit limit
// is configured.
const DefaultMaxContentLength = 2000

type IMessageService interface {
	Append(ctx context.Context, cmd domain.AppendMessageCommand) (domain.Message, error)
	Page(ctx context.Context, cmd domain.PageCommand) (domain.MessagePage, error)
	MarkMessageRead(ctx context.Context, messageID, readerID uuid.UUID) (domain.Message, error)
	CountUnread(conversationID, viewerID uuid.UUID) (int, error)
}

// MessageService guards the ledger operations of a conversation: who may
// write, who may read, and what content is allowed through.
type MessageService struct {
	log              *slog.Logger
	conversations    repositories.IConversationRepository
	messages         repositories.IMessageRepository
	moderator        contract.Moderator
	stats            *observability.Stats
	maxContentLength int
	sinks            []contract.EventSink
}

func NewMessageService(
	log *slog.Logger,
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	moderator contract.Moderator,
	stats *observability.Stats,
	maxContentLength int,
	sinks []contract.EventSink,
) IMessageService {
	if maxContentLength <= 0 {
		maxContentLength = DefaultMaxContentLength
	}
	return &MessageService{
		log:              log,
		conversations:    conversations,
		messages:         messages,
		moderator:        moderator,
		stats:            stats,
		maxContentLength: maxContentLength,
		sinks:            sinks,
	}
}

func (s *MessageService) Append(ctx context.Context, cmd domain.AppendMessageCommand) (domain.Message, error) {
	// 1. The conversation must exist and the sender must be one of its
	// two participants. Checked in this order so an outsider probing a
	// random id learns nothing beyond "not found".
	conversation, err := s.conversations.GetByID(cmd.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}
	if !conversation.HasParticipant(cmd.SenderID) {
		return domain.Message{}, errors.ErrNotParticipant
	}

	// 2. Normalize and validate the content.
	content, messageType, err := domain.NormalizeContent(cmd.Content, cmd.Type, s.maxContentLength)
	if err != nil {
		return domain.Message{}, err
	}

	// 3. Censor banned words. The masked form is what gets persisted;
	// the original never leaves this function.
	censored, words := s.moderator.Censor(content)
	if len(words) > 0 {
		info := whatlanggo.Detect(content)
		s.log.Warn("Censored message content",
			"conversation_id", cmd.ConversationID,
			"sender_id", cmd.SenderID,
			"censored_words", words,
			"lang", info.Lang.Iso6391())
	}

	// 4. Append to the ledger. The repository assigns createdAt and
	// advances the conversation's lastMessageAt in the same transaction.
	message, err := s.messages.Append(domain.Message{
		ID:             uuid.New(),
		ConversationID: cmd.ConversationID,
		SenderID:       cmd.SenderID,
		Content:        censored,
		Type:           messageType,
	})
	if err != nil {
		return domain.Message{}, err
	}

	conversation.LastMessageAt = &message.CreatedAt
	dispatch(ctx, s.log, s.sinks, event.MessageAppended{Message: message, Conversation: conversation})
	return message, nil
}

// Page returns one window of the conversation's history for the viewer
// and, as a side effect, marks the returned counterpart messages read.
func (s *MessageService) Page(ctx context.Context, cmd domain.PageCommand) (domain.MessagePage, error) {
	conversation, err := s.conversations.GetByID(cmd.ConversationID)
	if err != nil {
		return domain.MessagePage{}, err
	}
	if !conversation.HasParticipant(cmd.ViewerID) {
		return domain.MessagePage{}, errors.ErrNotParticipant
	}

	page, pageSize := normalizePaging(cmd.Page, cmd.PageSize)
	result, flipped, err := s.messages.Page(cmd.ConversationID, cmd.ViewerID, page, pageSize, cmd.BeforeID)
	if err != nil {
		return domain.MessagePage{}, err
	}
	s.stats.IncrPagesServed()

	if len(flipped) > 0 {
		dispatch(ctx, s.log, s.sinks, event.MessagesRead{
			Conversation: cmd.ConversationID,
			ReaderID:     cmd.ViewerID,
			MessageIDs:   flipped,
		})
	}
	return result, nil
}

func (s *MessageService) MarkMessageRead(ctx context.Context, messageID, readerID uuid.UUID) (domain.Message, error) {
	// 1. Resolve the message and its conversation.
	message, err := s.messages.GetByID(messageID)
	if err != nil {
		return domain.Message{}, err
	}
	conversation, err := s.conversations.GetByID(message.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}

	// 2. Only the counterpart participant may mark it read.
	if !conversation.HasParticipant(readerID) {
		return domain.Message{}, errors.ErrNotParticipant
	}
	if message.SenderID == readerID {
		return domain.Message{}, errors.ErrOwnMessageRead
	}

	// 3. Flip it. Marking an already read message is a no-op, so the
	// event fires only on the first transition.
	stored, flipped, err := s.messages.MarkRead(messageID, readerID)
	if err != nil {
		return domain.Message{}, err
	}
	if flipped {
		dispatch(ctx, s.log, s.sinks, event.MessagesRead{
			Conversation: conversation.ID,
			ReaderID:     readerID,
			MessageIDs:   []uuid.UUID{messageID},
		})
	}
	return stored, nil
}

func (s *MessageService) CountUnread(conversationID, viewerID uuid.UUID) (int, error) {
	conversation, err := s.conversations.GetByID(conversationID)
	if err != nil {
		return 0, err
	}
	if !conversation.HasParticipant(viewerID) {
		return 0, errors.ErrNotParticipant
	}
	return s.messages.CountUnread(conversationID, viewerID)
}
