// Package domain contains the core concepts of the marketplace messaging
// system: conversations, messages, and the rules that bind them. No
// storage, network, or UI logic lives here.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation is the unique thread between two users about one apartment.
// Roles are fixed at creation: OwnerID is the apartment's lister, and
// InitiatorID is the user who sent the first message. At most one
// conversation exists per (apartment, unordered user pair); the pair is
// canonicalized by CanonicalPair, never by OR'd role lookups.
type Conversation struct {
	ID          uuid.UUID `json:"id"`
	ApartmentID uuid.UUID `json:"apartment_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	InitiatorID uuid.UUID `json:"initiator_id"`
	// LastMessageAt is nil until the first message lands, and afterwards
	// only ever moves forward.
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CanonicalPair returns the two participant ids sorted lexicographically.
// Storage uniqueness and lookups both use this order, so the stored
// owner/initiator roles never influence pair identity.
func CanonicalPair(a, b uuid.UUID) (lo, hi uuid.UUID) {
	if strings.Compare(a.String(), b.String()) <= 0 {
		return a, b
	}
	return b, a
}

// HasParticipant reports whether userID is one of the two fixed roles.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.OwnerID == userID || c.InitiatorID == userID
}

// OtherParticipant returns the counterpart of viewerID. The boolean is
// false when the viewer is neither role, which callers must treat as a
// data inconsistency rather than an error to raise.
func (c Conversation) OtherParticipant(viewerID uuid.UUID) (uuid.UUID, bool) {
	switch viewerID {
	case c.OwnerID:
		return c.InitiatorID, true
	case c.InitiatorID:
		return c.OwnerID, true
	default:
		return uuid.UUID{}, false
	}
}
