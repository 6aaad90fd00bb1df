package search

import (
	"context"
	"fmt"
	"log/slog"
	"nestchat/domain/event"
)

// IndexSink projects committed messages into the search index.
type IndexSink struct {
	index ISearchIndex
	log   *slog.Logger
}

func NewIndexSink(index ISearchIndex, log *slog.Logger) IndexSink {
	return IndexSink{index: index, log: log}
}

func (s IndexSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageAppended:
		return s.index.IndexMessage(evt.Message, evt.Conversation)
	default:
		s.log.Debug(fmt.Sprintf("Not implemented event : %v", evt))
		return nil
	}
}
