package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes listers (publish apartments) from seekers (message
// about them). A lister may still initiate conversations about other
// people's listings.
type Role string

const (
	RoleLister Role = "lister"
	RoleSeeker Role = "seeker"
)

func (r Role) Valid() bool {
	return r == RoleLister || r == RoleSeeker
}

// User is a registered account. PasswordHash is an encoded argon2id
// string and never leaves the auth layer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the public projection of a user attached to messages
// and conversation listings.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      Role      `json:"role"`
}

// Summary projects the public fields.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL, Role: u.Role}
}
