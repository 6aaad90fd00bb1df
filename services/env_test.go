package services

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"nestchat/contract"
	"nestchat/domain"
	"nestchat/moderation"
	"nestchat/observability"
	"nestchat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testEnv wires the service stack onto a throwaway Badger store, with a
// real moderator so censoring is exercised end to end rather than mocked.
type testEnv struct {
	users         *repositories.UserRepository
	apartments    *repositories.ApartmentRepository
	conversations *repositories.ConversationRepository
	messages      *repositories.MessageRepository
	stats         *observability.Stats

	apartmentService    IApartmentService
	messageService      IMessageService
	conversationService IConversationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.Default()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	moderator, err := moderation.NewModerator([]string{"scammer", "lowball"}, '*', log)
	require.NoError(t, err)

	env := &testEnv{
		users:         repositories.NewUserRepository(db),
		apartments:    repositories.NewApartmentRepository(db),
		conversations: repositories.NewConversationRepository(db, log),
		messages:      repositories.NewMessageRepository(db, log),
		stats:         observability.NewStats(log),
	}
	sinks := []contract.EventSink{observability.NewStatsSink(env.stats, log)}
	env.apartmentService = NewApartmentService(env.apartments, env.users)
	env.messageService = NewMessageService(log, env.conversations, env.messages, &moderator, env.stats, 0, sinks)
	env.conversationService = NewConversationService(log, env.conversations, env.apartments, env.users,
		env.messages, env.messageService, env.stats, 0, sinks)
	return env
}

// seedUser persists a user directly, bypassing registration. Names must
// be unique within a test since the email derives from them.
func (e *testEnv) seedUser(t *testing.T, name string, role domain.Role) domain.User {
	t.Helper()
	user, err := e.users.Create(domain.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(name) + "@example.com",
		Name:         name,
		Role:         role,
		PasswordHash: "irrelevant-here",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) seedApartment(t *testing.T, owner domain.User) domain.Apartment {
	t.Helper()
	apartment, err := e.apartmentService.Create(domain.CreateApartmentCommand{
		OwnerID:   owner.ID,
		Title:     "Two rooms near the station",
		Address:   "12 Rue de la Gare, Lyon",
		RentCents: 95_000,
	})
	require.NoError(t, err)
	return apartment
}
