//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"nestchat/codec"
	"nestchat/domain"
	"nestchat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Append(message domain.Message) (domain.Message, error)
	Page(conversationID, viewerID uuid.UUID, page, pageSize int, beforeID *uuid.UUID) (domain.MessagePage, []uuid.UUID, error)
	MarkRead(messageID, readerID uuid.UUID) (domain.Message, bool, error)
	CountUnread(conversationID, viewerID uuid.UUID) (int, error)
	LatestIn(conversationID uuid.UUID) (*domain.Message, error)
	GetByID(messageID uuid.UUID) (domain.Message, error)
}

// MessageRepository owns the per-conversation ledger keyspaces: the
// message records themselves, the msgid point-lookup rows and the unread
// index. Every mutation runs in a single Badger transaction under the
// conversation's lock, so the message rows, the unread rows and the
// parent conversation's lastMessageAt always move together.
type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	locks *conversationLocks
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log, locks: newConversationLocks()}
}

// diskMessage is the stored shape of a message, converted through
// fromMessage/toMessage.
type diskMessage struct {
	ID             string `cbor:"id"`
	ConversationID string `cbor:"conversation_id"`
	SenderID       string `cbor:"sender_id"`
	Content        string `cbor:"content"`
	Type           string `cbor:"type"`
	IsRead         bool   `cbor:"is_read"`
	ReadAt         *int64 `cbor:"read_at,omitempty"`
	CreatedAt      int64  `cbor:"created_at"`
}

// Append inserts one message and raises the conversation's lastMessageAt
// to the message's createdAt in the same transaction. The store assigns
// createdAt: at least now, and always strictly after the conversation's
// previous lastMessageAt, which keeps the ledger order monotonic even
// when the wall clock jumps backward.
func (m *MessageRepository) Append(message domain.Message) (domain.Message, error) {
	unlock := m.locks.lock(message.ConversationID)
	defer unlock()

	stored := message
	err := m.db.Update(func(txn *badger.Txn) error {
		conversation, err := readConversation(txn, message.ConversationID)
		if err != nil {
			return err
		}
		recipient, ok := conversation.OtherParticipant(message.SenderID)
		if !ok {
			return errors.ErrNotParticipant
		}

		createdAt := time.Now().UTC()
		if conversation.LastMessageAt != nil && !createdAt.After(*conversation.LastMessageAt) {
			createdAt = conversation.LastMessageAt.Add(time.Nanosecond)
		}
		stored = message
		stored.CreatedAt = createdAt
		stored.IsRead = false
		stored.ReadAt = nil

		msgKey := messageKey(stored.ConversationID, stored.CreatedAt, stored.ID)
		data, err := codec.Marshal(fromMessage(stored))
		if err != nil {
			return err
		}
		if err := txn.Set(msgKey, data); err != nil {
			return err
		}
		if err := txn.Set(messageIDKey(stored.ID), msgKey); err != nil {
			return err
		}
		if err := txn.Set(unreadKey(stored.ConversationID, recipient, stored.CreatedAt, stored.ID), msgKey); err != nil {
			return err
		}

		conversation.LastMessageAt = raiseTo(conversation.LastMessageAt, createdAt)
		return writeConversation(txn, conversation)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("append message: %w", err)
	}
	return stored, nil
}

// Page returns one window of the conversation's history, oldest first.
// With beforeID set it pages backward from that message (cursor mode),
// otherwise page/pageSize select an offset window from the newest end.
// Side effect: every returned message still unread by the viewer flips to
// read in the same transaction, its unread row is dropped, and the
// conversation is touched once when anything actually flipped. The ids of
// the flipped messages are returned alongside the page.
func (m *MessageRepository) Page(conversationID, viewerID uuid.UUID, page, pageSize int, beforeID *uuid.UUID) (domain.MessagePage, []uuid.UUID, error) {
	unlock := m.locks.lock(conversationID)
	defer unlock()

	var result domain.MessagePage
	var flipped []uuid.UUID
	err := m.db.Update(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)

		seekKey := append(append([]byte{}, prefix...), maxPaddedNanos...)
		skip := (page - 1) * pageSize
		skipSeekTarget := false
		if beforeID != nil {
			refKey, err := resolveMessageKey(txn, *beforeID)
			if err != nil {
				return err
			}
			if !bytes.HasPrefix(refKey, prefix) {
				return fmt.Errorf("%w: message %s does not belong to conversation %s",
					errors.ErrValidation, *beforeID, conversationID)
			}
			seekKey = refKey
			skip = 0
			skipSeekTarget = true
		}

		batch, err := collectNewestFirst(txn, prefix, seekKey, skipSeekTarget, skip, pageSize)
		if err != nil {
			return err
		}
		total := countKeys(txn, prefix)

		now := time.Now().UTC()
		for i := range batch {
			if !batch[i].UnreadBy(viewerID) {
				continue
			}
			batch[i].IsRead = true
			batch[i].ReadAt = &now
			if err := writeMessage(txn, batch[i]); err != nil {
				return err
			}
			if err := txn.Delete(unreadKey(conversationID, viewerID, batch[i].CreatedAt, batch[i].ID)); err != nil {
				return err
			}
			flipped = append(flipped, batch[i].ID)
		}
		if len(flipped) > 0 {
			conversation, err := readConversation(txn, conversationID)
			if err != nil {
				return err
			}
			conversation.LastMessageAt = raiseTo(conversation.LastMessageAt, now)
			if err := writeConversation(txn, conversation); err != nil {
				return err
			}
		}

		hasMore := len(batch) == pageSize
		if beforeID == nil {
			hasMore = total > page*pageSize
		}
		result = domain.MessagePage{
			Messages: lo.Reverse(batch),
			Total:    total,
			HasMore:  hasMore,
		}
		return nil
	})
	if err != nil {
		return domain.MessagePage{}, nil, err
	}
	return result, flipped, nil
}

// MarkRead flips a single message to read on behalf of readerID. Marking
// an already-read message is a silent no-op: readAt keeps its original
// value and the returned bool is false. The caller is responsible for
// participant and own-message checks; the repository only guards the
// one-way transition.
func (m *MessageRepository) MarkRead(messageID, readerID uuid.UUID) (domain.Message, bool, error) {
	located, err := m.GetByID(messageID)
	if err != nil {
		return domain.Message{}, false, err
	}

	unlock := m.locks.lock(located.ConversationID)
	defer unlock()

	var stored domain.Message
	var flipped bool
	err = m.db.Update(func(txn *badger.Txn) error {
		// Reread under the lock, the fetch above ran outside it.
		key, err := resolveMessageKey(txn, messageID)
		if err != nil {
			return err
		}
		message, err := readMessageAt(txn, key)
		if err != nil {
			return err
		}
		if message.IsRead {
			stored = message
			return nil
		}

		now := time.Now().UTC()
		message.IsRead = true
		message.ReadAt = &now
		if err := writeMessage(txn, message); err != nil {
			return err
		}
		if err := txn.Delete(unreadKey(message.ConversationID, readerID, message.CreatedAt, message.ID)); err != nil {
			return err
		}
		stored = message
		flipped = true
		return nil
	})
	if err != nil {
		return domain.Message{}, false, fmt.Errorf("mark message %s read: %w", messageID, err)
	}
	return stored, flipped, nil
}

// CountUnread counts the viewer's unread index entries for one
// conversation. Keys only, no value fetches.
func (m *MessageRepository) CountUnread(conversationID, viewerID uuid.UUID) (int, error) {
	count := 0
	err := m.db.View(func(txn *badger.Txn) error {
		count = countKeys(txn, unreadPrefix(conversationID, viewerID))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LatestIn returns the newest message of a conversation, or nil when the
// ledger is still empty.
func (m *MessageRepository) LatestIn(conversationID uuid.UUID) (*domain.Message, error) {
	var latest *domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		batch, err := collectNewestFirst(txn, prefix, append(append([]byte{}, prefix...), maxPaddedNanos...), false, 0, 1)
		if err != nil {
			return err
		}
		if len(batch) == 1 {
			latest = &batch[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return latest, nil
}

func (m *MessageRepository) GetByID(messageID uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		key, err := resolveMessageKey(txn, messageID)
		if err != nil {
			return err
		}
		message, err = readMessageAt(txn, key)
		return err
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// collectNewestFirst reverse-walks the message keyspace from seekKey,
// optionally stepping past the seek target itself (cursor mode), skipping
// an offset, and decoding up to limit records. The result is newest
// first; callers reverse it for display order.
func collectNewestFirst(txn *badger.Txn, prefix, seekKey []byte, skipSeekTarget bool, skip, limit int) ([]domain.Message, error) {
	options := badger.DefaultIteratorOptions
	options.Reverse = true
	it := txn.NewIterator(options)
	defer it.Close()

	it.Seek(seekKey)
	if skipSeekTarget && it.ValidForPrefix(prefix) {
		it.Next()
	}

	var batch []domain.Message
	for ; it.ValidForPrefix(prefix) && len(batch) < limit; it.Next() {
		if skip > 0 {
			skip--
			continue
		}
		value, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		message, err := toMessage(value)
		if err != nil {
			return nil, err
		}
		batch = append(batch, message)
	}
	return batch, nil
}

// resolveMessageKey turns a message id into its full ledger key via the
// msgid row. Unknown ids surface as ErrMessageNotFound.
func resolveMessageKey(txn *badger.Txn, messageID uuid.UUID) ([]byte, error) {
	item, err := txn.Get(messageIDKey(messageID))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func readMessageAt(txn *badger.Txn, key []byte) (domain.Message, error) {
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return domain.Message{}, err
	}
	var disk diskMessage
	if err := codec.Unmarshal(value, &disk); err != nil {
		return domain.Message{}, err
	}
	return toDomainMessage(disk)
}

func writeMessage(txn *badger.Txn, message domain.Message) error {
	data, err := codec.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return txn.Set(messageKey(message.ConversationID, message.CreatedAt, message.ID), data)
}

// raiseTo returns the later of current and candidate. lastMessageAt only
// ever moves forward.
func raiseTo(current *time.Time, candidate time.Time) *time.Time {
	if current != nil && current.After(candidate) {
		return current
	}
	return &candidate
}

func fromMessage(message domain.Message) diskMessage {
	disk := diskMessage{
		ID:             message.ID.String(),
		ConversationID: message.ConversationID.String(),
		SenderID:       message.SenderID.String(),
		Content:        message.Content,
		Type:           string(message.Type),
		IsRead:         message.IsRead,
		CreatedAt:      message.CreatedAt.UnixNano(),
	}
	if message.ReadAt != nil {
		nanos := message.ReadAt.UnixNano()
		disk.ReadAt = &nanos
	}
	return disk
}

func toMessage(value []byte) (domain.Message, error) {
	var disk diskMessage
	if err := codec.Unmarshal(value, &disk); err != nil {
		return domain.Message{}, err
	}
	return toDomainMessage(disk)
}

func toDomainMessage(disk diskMessage) (domain.Message, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	conversationID, err := uuid.Parse(disk.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}
	senderID, err := uuid.Parse(disk.SenderID)
	if err != nil {
		return domain.Message{}, err
	}

	message := domain.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        disk.Content,
		Type:           domain.MessageType(disk.Type),
		IsRead:         disk.IsRead,
		CreatedAt:      time.Unix(0, disk.CreatedAt).UTC(),
	}
	if disk.ReadAt != nil {
		at := time.Unix(0, *disk.ReadAt).UTC()
		message.ReadAt = &at
	}
	return message, nil
}
