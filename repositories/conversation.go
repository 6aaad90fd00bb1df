//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"nestchat/codec"
	"nestchat/domain"
	"nestchat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IConversationRepository interface {
	GetOrCreate(conversation domain.Conversation) (domain.Conversation, bool, error)
	GetByID(id uuid.UUID) (domain.Conversation, error)
	ListByUser(userID uuid.UUID, page, pageSize int) ([]domain.Conversation, int, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) *ConversationRepository {
	return &ConversationRepository{db: db, log: log}
}

// diskConversation is the stored shape of a conversation. Ids travel as
// strings and timestamps as UnixNano, mirroring the domain struct through
// fromConversation/toConversation.
type diskConversation struct {
	ID            string `cbor:"id"`
	ApartmentID   string `cbor:"apartment_id"`
	OwnerID       string `cbor:"owner_id"`
	InitiatorID   string `cbor:"initiator_id"`
	LastMessageAt *int64 `cbor:"last_message_at,omitempty"`
	CreatedAt     int64  `cbor:"created_at"`
}

// GetOrCreate resolves the canonical conversation for the candidate's
// (apartment, participant pair) combination. The convpair row is the
// uniqueness constraint: when two first contacts race, Badger's conflict
// detection fails one commit and that caller retries exactly once as a
// plain get. The returned bool is true when this call created the row.
func (c *ConversationRepository) GetOrCreate(conversation domain.Conversation) (domain.Conversation, bool, error) {
	pairKey := conversationPairKey(conversation.ApartmentID, conversation.OwnerID, conversation.InitiatorID)

	var (
		stored  domain.Conversation
		created bool
	)
	err := c.db.Update(func(txn *badger.Txn) error {
		stored = domain.Conversation{}
		created = false

		existing, err := readPairTarget(txn, pairKey)
		switch {
		case err == nil:
			stored, err = readConversation(txn, existing)
			return err
		case stderrors.Is(err, badger.ErrKeyNotFound):
			// First contact for this pair, create below.
		default:
			return err
		}

		if err := writeConversation(txn, conversation); err != nil {
			return err
		}
		if err := txn.Set(pairKey, []byte(conversation.ID.String())); err != nil {
			return err
		}
		for _, userID := range []uuid.UUID{conversation.OwnerID, conversation.InitiatorID} {
			indexKey := conversationUserKey(userID, conversation.CreatedAt, conversation.ID)
			if err := txn.Set(indexKey, []byte(conversation.ID.String())); err != nil {
				return err
			}
		}
		stored = conversation
		created = true
		return nil
	})
	if err == nil {
		return stored, created, nil
	}
	if !stderrors.Is(err, badger.ErrConflict) {
		return domain.Conversation{}, false, fmt.Errorf("get or create conversation: %w", err)
	}

	// A racing first contact committed the pair row before us.
	c.log.Debug("conversation pair row lost a race, refetching",
		"apartment_id", conversation.ApartmentID)
	winner, err := c.getByPair(pairKey)
	if err != nil {
		return domain.Conversation{}, false, fmt.Errorf("refetch after pair conflict: %w", err)
	}
	return winner, false, nil
}

func (c *ConversationRepository) getByPair(pairKey []byte) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		id, err := readPairTarget(txn, pairKey)
		if err != nil {
			return err
		}
		conversation, err = readConversation(txn, id)
		return err
	})
	return conversation, err
}

func (c *ConversationRepository) GetByID(id uuid.UUID) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		conversation, err = readConversation(txn, id)
		return err
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

// ListByUser pages through the viewer's directory index, newest
// conversation first (creation order, not activity order). It returns the
// page plus the total number of index entries. Index rows pointing at a
// missing conversation record are skipped and logged, never fatal.
func (c *ConversationRepository) ListByUser(userID uuid.UUID, page, pageSize int) ([]domain.Conversation, int, error) {
	var (
		conversations []domain.Conversation
		total         int
	)
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := conversationUserPrefix(userID)
		ids, err := scanConversationIDs(txn, prefix, (page-1)*pageSize, pageSize)
		if err != nil {
			return err
		}
		total = countKeys(txn, prefix)

		conversations = make([]domain.Conversation, 0, len(ids))
		for _, id := range ids {
			conversation, err := readConversation(txn, id)
			if stderrors.Is(err, errors.ErrConversationNotFound) {
				c.log.Warn("directory index points at missing conversation",
					"user_id", userID, "conversation_id", id)
				continue
			}
			if err != nil {
				return err
			}
			conversations = append(conversations, conversation)
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list conversations for %s: %w", userID, err)
	}
	return conversations, total, nil
}

// scanConversationIDs reverse-walks a convuser prefix. The padded
// timestamp in the key makes reverse order equal to createdAt descending.
func scanConversationIDs(txn *badger.Txn, prefix []byte, skip, limit int) ([]uuid.UUID, error) {
	options := badger.DefaultIteratorOptions
	options.Reverse = true
	it := txn.NewIterator(options)
	defer it.Close()

	seekKey := append(append([]byte{}, prefix...), maxPaddedNanos...)

	var ids []uuid.UUID
	for it.Seek(seekKey); it.ValidForPrefix(prefix) && len(ids) < limit; it.Next() {
		if skip > 0 {
			skip--
			continue
		}
		value, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(string(value))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func readPairTarget(txn *badger.Txn, pairKey []byte) (uuid.UUID, error) {
	item, err := txn.Get(pairKey)
	if err != nil {
		return uuid.UUID{}, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return uuid.UUID{}, err
	}
	return uuid.Parse(string(value))
}

// readConversation loads and decodes a conversation record inside txn.
// Missing records surface as ErrConversationNotFound.
func readConversation(txn *badger.Txn, id uuid.UUID) (domain.Conversation, error) {
	item, err := txn.Get(conversationKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Conversation{}, errors.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return domain.Conversation{}, err
	}

	var disk diskConversation
	if err := codec.Unmarshal(value, &disk); err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(disk)
}

func writeConversation(txn *badger.Txn, conversation domain.Conversation) error {
	data, err := codec.Marshal(fromConversation(conversation))
	if err != nil {
		return err
	}
	return txn.Set(conversationKey(conversation.ID), data)
}

func fromConversation(conversation domain.Conversation) diskConversation {
	disk := diskConversation{
		ID:          conversation.ID.String(),
		ApartmentID: conversation.ApartmentID.String(),
		OwnerID:     conversation.OwnerID.String(),
		InitiatorID: conversation.InitiatorID.String(),
		CreatedAt:   conversation.CreatedAt.UnixNano(),
	}
	if conversation.LastMessageAt != nil {
		nanos := conversation.LastMessageAt.UnixNano()
		disk.LastMessageAt = &nanos
	}
	return disk
}

func toConversation(disk diskConversation) (domain.Conversation, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Conversation{}, err
	}
	apartmentID, err := uuid.Parse(disk.ApartmentID)
	if err != nil {
		return domain.Conversation{}, err
	}
	ownerID, err := uuid.Parse(disk.OwnerID)
	if err != nil {
		return domain.Conversation{}, err
	}
	initiatorID, err := uuid.Parse(disk.InitiatorID)
	if err != nil {
		return domain.Conversation{}, err
	}

	conversation := domain.Conversation{
		ID:          id,
		ApartmentID: apartmentID,
		OwnerID:     ownerID,
		InitiatorID: initiatorID,
		CreatedAt:   time.Unix(0, disk.CreatedAt).UTC(),
	}
	if disk.LastMessageAt != nil {
		at := time.Unix(0, *disk.LastMessageAt).UTC()
		conversation.LastMessageAt = &at
	}
	return conversation, nil
}
