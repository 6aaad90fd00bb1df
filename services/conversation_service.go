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
	"time"

	"github.com/google/uuid"
)

type IConversationService interface {
	StartOrGet(ctx context.Context, cmd domain.StartConversationCommand) (domain.Conversation, domain.Message, bool, error)
	List(userID uuid.UUID, page, pageSize int) ([]domain.ConversationSummary, int, error)
}

// ConversationService owns the lifecycle of conversations: first contact
// about an apartment and the per-user directory. Message traffic inside
// an existing conversation goes through the message service.
type ConversationService struct {
	log              *slog.Logger
	conversations    repositories.IConversationRepository
	apartments       repositories.IApartmentRepository
	users            repositories.IUserRepository
	messages         repositories.IMessageRepository
	messageService   IMessageService
	stats            *observability.Stats
	maxContentLength int
	sinks            []contract.EventSink
}

func NewConversationService(
	log *slog.Logger,
	conversations repositories.IConversationRepository,
	apartments repositories.IApartmentRepository,
	users repositories.IUserRepository,
	messages repositories.IMessageRepository,
	messageService IMessageService,
	stats *observability.Stats,
	maxContentLength int,
	sinks []contract.EventSink,
) IConversationService {
	if maxContentLength <= 0 {
		maxContentLength = DefaultMaxContentLength
	}
	return &ConversationService{
		log:              log,
		conversations:    conversations,
		apartments:       apartments,
		users:            users,
		messages:         messages,
		messageService:   messageService,
		stats:            stats,
		maxContentLength: maxContentLength,
		sinks:            sinks,
	}
}

// StartOrGet sends the initiator's opening message about an apartment,
// creating the conversation on first contact and reusing it afterwards.
// The returned bool is true when this call created the conversation.
func (s *ConversationService) StartOrGet(ctx context.Context, cmd domain.StartConversationCommand) (domain.Conversation, domain.Message, bool, error) {
	// 1. Reject bad content before any conversation row can exist. The
	// message service validates again on append; this early pass keeps a
	// failed send from leaving an empty conversation behind.
	if _, _, err := domain.NormalizeContent(cmd.Content, cmd.Type, s.maxContentLength); err != nil {
		return domain.Conversation{}, domain.Message{}, false, err
	}

	// 2. Resolve the apartment. Its owner is always the conversation's
	// owner side, and owners cannot open a thread with themselves.
	apartment, err := s.apartments.GetByID(cmd.ApartmentID)
	if err != nil {
		return domain.Conversation{}, domain.Message{}, false, err
	}
	if apartment.OwnerID == cmd.InitiatorID {
		return domain.Conversation{}, domain.Message{}, false, errors.ErrSelfConversation
	}

	// 3. Get or create the single conversation for this pair. Racing
	// first contacts converge on one row inside the repository.
	conversation, created, err := s.conversations.GetOrCreate(domain.Conversation{
		ID:          uuid.New(),
		ApartmentID: apartment.ID,
		OwnerID:     apartment.OwnerID,
		InitiatorID: cmd.InitiatorID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return domain.Conversation{}, domain.Message{}, false, err
	}
	if created {
		dispatch(ctx, s.log, s.sinks, event.ConversationStarted{Conversation: conversation})
	}

	// 4. Append the opening message through the regular pipeline, so it
	// gets the same moderation and read-state treatment as any other.
	message, err := s.messageService.Append(ctx, domain.AppendMessageCommand{
		ConversationID: conversation.ID,
		SenderID:       cmd.InitiatorID,
		Content:        cmd.Content,
		Type:           cmd.Type,
	})
	if err != nil {
		return domain.Conversation{}, domain.Message{}, false, err
	}
	conversation.LastMessageAt = &message.CreatedAt

	return conversation, message, created, nil
}

// List builds one page of the user's conversation directory, newest
// conversation first. A row whose referenced user or apartment can no
// longer be loaded is dropped and logged, never fatal for the page.
func (s *ConversationService) List(userID uuid.UUID, page, pageSize int) ([]domain.ConversationSummary, int, error) {
	page, pageSize = normalizePaging(page, pageSize)
	conversations, total, err := s.conversations.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]domain.ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		summary, err := s.summarize(conversation, userID)
		if err != nil {
			s.log.Warn("Dropping conversation from directory",
				"err", err,
				"conversation_id", conversation.ID,
				"user_id", userID)
			s.stats.IncrDirectoryRowsDropped()
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, total, nil
}

// summarize shapes one directory row from the viewer's side.
func (s *ConversationService) summarize(conversation domain.Conversation, viewerID uuid.UUID) (domain.ConversationSummary, error) {
	counterpartID, ok := conversation.OtherParticipant(viewerID)
	if !ok {
		return domain.ConversationSummary{}, errors.ErrNotParticipant
	}
	counterpart, err := s.users.GetByID(counterpartID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}
	apartment, err := s.apartments.GetByID(conversation.ApartmentID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}
	latest, err := s.messages.LatestIn(conversation.ID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}
	unread, err := s.messages.CountUnread(conversation.ID, viewerID)
	if err != nil {
		return domain.ConversationSummary{}, err
	}

	return domain.ConversationSummary{
		ID:            conversation.ID,
		Apartment:     apartment.Preview(),
		Counterpart:   counterpart.Summary(),
		LatestMessage: latest,
		UnreadCount:   unread,
		LastMessageAt: conversation.LastMessageAt,
		CreatedAt:     conversation.CreatedAt,
	}, nil
}
