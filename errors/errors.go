// Package errors defines the failure taxonomy shared by every layer.
// Five root sentinels classify a failure; the narrower sentinels wrap a
// root with %w so errors.Is matches both the specific condition and its
// class. The HTTP layer maps the roots to status codes.
package errors

import "fmt"

var (
	ErrNotFound         = fmt.Errorf("not found")
	ErrForbidden        = fmt.Errorf("forbidden")
	ErrInvalidOperation = fmt.Errorf("invalid operation")
	ErrValidation       = fmt.Errorf("validation failed")
	ErrUnavailable      = fmt.Errorf("store unavailable")
)

var (
	ErrApartmentNotFound    = fmt.Errorf("%w: apartment", ErrNotFound)
	ErrConversationNotFound = fmt.Errorf("%w: conversation", ErrNotFound)
	ErrMessageNotFound      = fmt.Errorf("%w: message", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)

	// ErrSelfConversation rejects a lister opening a conversation about
	// their own apartment.
	ErrSelfConversation = fmt.Errorf("%w: cannot message yourself", ErrInvalidOperation)

	// ErrNotParticipant rejects any conversation access by a user that is
	// neither of the two fixed participants.
	ErrNotParticipant = fmt.Errorf("%w: not a participant", ErrForbidden)

	// ErrOwnMessageRead rejects a sender marking their own message read.
	ErrOwnMessageRead = fmt.Errorf("%w: cannot mark own message read", ErrForbidden)
)

var (
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("%w: password does not meet complexity rules", ErrValidation)
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)

// ErrEmptyWords signals that no usable censored word survived loading.
var ErrEmptyWords = fmt.Errorf("empty censored words")
