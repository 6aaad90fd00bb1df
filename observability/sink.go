package observability

import (
	"context"
	"fmt"
	"log/slog"
	"nestchat/domain/event"
)

// StatsSink feeds committed domain events into the counter set.
type StatsSink struct {
	stats *Stats
	log   *slog.Logger
}

func NewStatsSink(stats *Stats, log *slog.Logger) StatsSink {
	return StatsSink{stats: stats, log: log}
}

func (s StatsSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.ConversationStarted:
		s.stats.IncrConversationsStarted()
	case event.MessageAppended:
		s.stats.IncrMessagesAppended()
	case event.MessagesRead:
		s.stats.AddMessagesRead(len(evt.MessageIDs))
	default:
		s.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
	}
	return nil
}
