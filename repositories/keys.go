package repositories

import (
	"fmt"
	"nestchat/domain"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key layout. Padded UnixNano (19 digits) keeps lexicographic order equal
// to chronological order, and the trailing uuid disambiguates records
// landing on the same nanosecond.
//
//	user:<id>                                      user record
//	useremail:<email>                              login lookup, email uniqueness
//	apt:<id>                                       apartment record
//	conv:<id>                                      conversation record
//	convpair:<apartmentID>:<lo>:<hi>               pair uniqueness row -> conversation id
//	convuser:<userID>:<createdAt>:<convID>         per-user directory index -> conversation id
//	msg:<convID>:<createdAt>:<msgID>               message record
//	msgid:<msgID>                                  message id -> full msg key
//	unread:<convID>:<userID>:<createdAt>:<msgID>   unread index -> full msg key

// maxPaddedNanos sorts after every real padded timestamp, so seeking to
// prefix+maxPaddedNanos in a reverse iterator lands on the newest entry.
const maxPaddedNanos = "9999999999999999999"

func userKey(id uuid.UUID) []byte {
	return []byte("user:" + id.String())
}

func userEmailKey(email string) []byte {
	return []byte("useremail:" + email)
}

func apartmentKey(id uuid.UUID) []byte {
	return []byte("apt:" + id.String())
}

func conversationKey(id uuid.UUID) []byte {
	return []byte("conv:" + id.String())
}

// conversationPairKey builds the uniqueness row for an (apartment,
// unordered user pair) combination. The two participant ids are always
// canonicalized, so both role orderings map to the same key.
func conversationPairKey(apartmentID, a, b uuid.UUID) []byte {
	lo, hi := domain.CanonicalPair(a, b)
	return []byte(fmt.Sprintf("convpair:%s:%s:%s", apartmentID, lo, hi))
}

func conversationUserKey(userID uuid.UUID, createdAt time.Time, conversationID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("convuser:%s:%019d:%s", userID, createdAt.UnixNano(), conversationID))
}

func conversationUserPrefix(userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("convuser:%s:", userID))
}

func messageKey(conversationID uuid.UUID, createdAt time.Time, messageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", conversationID, createdAt.UnixNano(), messageID))
}

func messagePrefix(conversationID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", conversationID))
}

func messageIDKey(messageID uuid.UUID) []byte {
	return []byte("msgid:" + messageID.String())
}

func unreadKey(conversationID, userID uuid.UUID, createdAt time.Time, messageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("unread:%s:%s:%019d:%s", conversationID, userID, createdAt.UnixNano(), messageID))
}

func unreadPrefix(conversationID, userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("unread:%s:%s:", conversationID, userID))
}

// countKeys walks a prefix without fetching values and returns the number
// of live entries.
func countKeys(txn *badger.Txn, prefix []byte) int {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	count := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count
}
