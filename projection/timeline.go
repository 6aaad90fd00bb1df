// Package projection builds in-memory views from observed events.
// Views are read-side only and never feed back into the write path, so
// losing one on restart loses nothing durable.
package projection

import (
	"context"
	"sync"
	"time"

	"nestchat/domain/event"

	"github.com/google/uuid"
)

const (
	defaultCapacity  = 50
	maxPreviewLength = 40
)

// Entry is one line of the recent-activity feed.
type Entry struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Preview        string
	At             time.Time
}

// Timeline keeps the most recent message activity across every
// conversation, oldest first. It backs the debug inspector, so it holds
// a bounded window rather than full history.
type Timeline struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

func NewTimeline(capacity int) *Timeline {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Timeline{capacity: capacity}
}

// Consume records appended messages and ignores every other event. It
// never fails, so its position in a sink list does not matter.
func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	appended, ok := e.(event.MessageAppended)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{
		ConversationID: appended.Message.ConversationID,
		SenderID:       appended.Message.SenderID,
		Preview:        preview(appended.Message.Content),
		At:             appended.Message.CreatedAt,
	})
	if len(t.entries) > t.capacity {
		t.entries = t.entries[len(t.entries)-t.capacity:]
	}
	return nil
}

// Recent returns a copy of the current window, oldest first.
func (t *Timeline) Recent() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) > maxPreviewLength {
		return string(runes[:maxPreviewLength]) + "..."
	}
	return content
}
