package repositories

import (
	"sync"

	"github.com/google/uuid"
)

// conversationLocks hands out one mutex per conversation. The badger
// transactions in this package read and rewrite the conversation row;
// serializing writers per conversation keeps those commits from ever
// tripping over each other, while different conversations stay fully
// concurrent.
type conversationLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock acquires the conversation's mutex and returns its release func.
func (c *conversationLocks) lock(conversationID uuid.UUID) func() {
	c.mu.Lock()
	m, ok := c.locks[conversationID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[conversationID] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}
