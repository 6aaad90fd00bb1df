//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"nestchat/domain/event"
)

// EventSink consumes domain events after they are committed. Sinks are
// best-effort: a failing sink is logged and never rolls back the write
// that produced the event.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Moderator rewrites user content before it enters the ledger and
// reports which banned words were hit.
type Moderator interface {
	Censor(original string) (string, []string)
}
