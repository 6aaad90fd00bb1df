package services

import (
	"context"
	"log/slog"
	"nestchat/contract"
	"nestchat/domain/event"
)

// dispatch fans one committed event out to every sink. Sinks are
// best-effort: a failure is logged and the remaining sinks still run.
func dispatch(ctx context.Context, log *slog.Logger, sinks []contract.EventSink, e event.DomainEvent) {
	for _, sink := range sinks {
		if err := sink.Consume(ctx, e); err != nil {
			log.Error("Event sink failed", "err", err, "conversation_id", e.ConversationID())
		}
	}
}
