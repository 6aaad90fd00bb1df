// Package search maintains a bluge full-text projection of the message
// ledger. The index is auxiliary: it is rebuilt from events and never
// consulted for correctness of the core operations.
package search

import (
	"context"
	"log/slog"
	"nestchat/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type ISearchIndex interface {
	IndexMessage(message domain.Message, conversation domain.Conversation) error
	Search(ctx context.Context, query string, viewerID uuid.UUID, from, size int) ([]Hit, uint64, error)
}

// Hit is one search result. Content is the stored (already censored)
// message text; callers hydrate anything richer through the repositories.
type Hit struct {
	MessageID      uuid.UUID `json:"message_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        string    `json:"content"`
	Score          float64   `json:"score"`
}

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

// IndexMessage upserts one message document. Both participants are
// indexed as keyword terms so searches can be scoped to the viewer's
// conversations with a single term filter.
func (i *Index) IndexMessage(message domain.Message, conversation domain.Conversation) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField("conversation_id", message.ConversationID.String()).StoreValue()).
		AddField(bluge.NewKeywordField("sender_id", message.SenderID.String()).StoreValue()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewDateTimeField("created_at", message.CreatedAt)).
		AddField(bluge.NewKeywordField("participant", conversation.OwnerID.String())).
		AddField(bluge.NewKeywordField("participant", conversation.InitiatorID.String()))

	return i.writer.Update(doc.ID(), doc)
}

// Search runs a match query on message content, restricted to
// conversations the viewer participates in, newest first.
func (i *Index) Search(ctx context.Context, query string, viewerID uuid.UUID, from, size int) ([]Hit, uint64, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Debug("Error closing index reader", "err", err)
		}
	}()

	match := bluge.NewMatchQuery(query).SetField("content")
	scope := bluge.NewTermQuery(viewerID.String()).SetField("participant")
	request := bluge.NewTopNSearch(size, bluge.NewBooleanQuery().AddMust(match, scope)).
		WithStandardAggregations().
		SetFrom(from).
		SortBy([]string{"-created_at"})

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var hits []Hit
	for {
		next, err := iterator.Next()
		if err != nil {
			return nil, 0, err
		}
		if next == nil {
			break
		}

		hit := Hit{Score: next.Score}
		err = next.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID, _ = uuid.Parse(string(value))
			case "conversation_id":
				hit.ConversationID, _ = uuid.Parse(string(value))
			case "sender_id":
				hit.SenderID, _ = uuid.Parse(string(value))
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, hit)
	}

	return hits, iterator.Aggregations().Count(), nil
}
