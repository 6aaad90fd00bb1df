package domain

import (
	"time"

	"github.com/google/uuid"
)

// Apartment is a published listing. Messaging only needs the identity
// and the owner; the remaining fields feed directory previews.
type Apartment struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Address   string    `json:"address"`
	RentCents int64     `json:"rent_cents"`
	CreatedAt time.Time `json:"created_at"`
}

// ApartmentPreview is the slice of a listing shown in a conversation
// summary.
type ApartmentPreview struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Address   string    `json:"address,omitempty"`
	RentCents int64     `json:"rent_cents"`
}

// Preview projects the directory-facing fields.
func (a Apartment) Preview() ApartmentPreview {
	return ApartmentPreview{ID: a.ID, Title: a.Title, Address: a.Address, RentCents: a.RentCents}
}
