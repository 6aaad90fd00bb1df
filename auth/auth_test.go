package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "UnMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword1!", hash)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword(password, "not-an-encoded-hash")
	req.Error(err)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"test@example.com", "ComplexPass123!", "Jean Martin", "seeker"}, false},
		{"Valid lister", RegisterRequest{"owner@example.com", "ComplexPass123!", "Marie Durand", "lister"}, false},
		{"Invalid email", RegisterRequest{"notanemail", "ComplexPass123!", "Jean Martin", "seeker"}, true},
		{"Password too short", RegisterRequest{"test@example.com", "Short1!", "Jean Martin", "seeker"}, true},
		{"Missing digit", RegisterRequest{"test@example.com", "NoDigitPassword!", "Jean Martin", "seeker"}, true},
		{"Missing special char", RegisterRequest{"test@example.com", "NoSpecialChar123", "Jean Martin", "seeker"}, true},
		{"Missing uppercase", RegisterRequest{"test@example.com", "nouppercase123!", "Jean Martin", "seeker"}, true},
		{"Password too long (edge case)", RegisterRequest{"test@example.com", strings.Repeat("a", 73), "Jean Martin", "seeker"}, true},
		{"Missing name", RegisterRequest{"test@example.com", "ComplexPass123!", "", "seeker"}, true},
		{"Unknown role", RegisterRequest{"test@example.com", "ComplexPass123!", "Jean Martin", "admin"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)
	userID := uuid.NewString()

	token, err := GenerateToken(userID, []string{"user"}, time.Hour)
	req.NoError(err)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal(userID, claims.UserID)
	req.Equal([]string{"user"}, claims.Roles)

	// An already expired token must not validate.
	expired, err := GenerateToken(userID, []string{"user"}, -time.Minute)
	req.NoError(err)
	_, err = ValidateToken(expired)
	req.Error(err)
}

// BenchmarkHashPassword measures the CPU/RAM cost of one hash, which
// bounds the login throughput of a single instance.
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
