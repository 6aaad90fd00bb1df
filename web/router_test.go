package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nestchat/contract"
	"nestchat/moderation"
	"nestchat/observability"
	"nestchat/repositories"
	"nestchat/search"
	"nestchat/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	stats  *observability.Stats
}

// newTestServer assembles the real stack end to end: Badger, bluge,
// moderation, services, and the router. Only the listener is missing.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	users := repositories.NewUserRepository(db)
	apartments := repositories.NewApartmentRepository(db)
	conversations := repositories.NewConversationRepository(db, log)
	messages := repositories.NewMessageRepository(db, log)
	stats := observability.NewStats(log)
	index := search.NewIndex(writer, log)

	moderator, err := moderation.NewModerator([]string{"scammer"}, '*', log)
	require.NoError(t, err)

	sinks := []contract.EventSink{
		observability.NewStatsSink(stats, log),
		search.NewIndexSink(index, log),
	}
	messageService := services.NewMessageService(log, conversations, messages, &moderator, stats, 0, sinks)
	conversationService := services.NewConversationService(log, conversations, apartments, users,
		messages, messageService, stats, 0, sinks)

	router := NewRouter(Deps{
		Log:           log,
		Auth:          services.NewAuthService(users, time.Hour),
		Apartments:    services.NewApartmentService(apartments, users),
		Conversations: conversationService,
		Messages:      messageService,
		Search:        index,
		Stats:         stats,
	})
	return &testServer{router: router, stats: stats}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func (s *testServer) register(t *testing.T, email, name, role string) string {
	t.Helper()
	recorder := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    email,
		"password": "ComplexPass123!",
		"name":     name,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	return decodeBody(t, recorder)["token"].(string)
}

func TestAPI_MarketplaceMessagingFlow(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	listerToken := server.register(t, "omar@example.com", "Omar", "lister")
	seekerToken := server.register(t, "prisca@example.com", "Prisca", "seeker")

	// Lister publishes an apartment.
	recorder := server.do(t, http.MethodPost, "/api/v1/apartments", listerToken, gin.H{
		"title":      "Two rooms near the station",
		"address":    "12 Rue de la Gare, Lyon",
		"rent_cents": 95000,
	})
	req.Equal(http.StatusCreated, recorder.Code, recorder.Body.String())
	apartmentID := decodeBody(t, recorder)["id"].(string)

	recorder = server.do(t, http.MethodGet, "/api/v1/apartments/"+apartmentID, seekerToken, nil)
	req.Equal(http.StatusOK, recorder.Code)

	// First contact creates the conversation, second call reuses it.
	recorder = server.do(t, http.MethodPost, "/api/v1/conversations", seekerToken, gin.H{
		"apartment_id": apartmentID,
		"content":      "Is the apartment still available?",
	})
	req.Equal(http.StatusCreated, recorder.Code, recorder.Body.String())
	conversationID := decodeBody(t, recorder)["conversation"].(map[string]any)["id"].(string)

	recorder = server.do(t, http.MethodPost, "/api/v1/conversations", seekerToken, gin.H{
		"apartment_id": apartmentID,
		"content":      "Could I visit on Saturday?",
	})
	req.Equal(http.StatusOK, recorder.Code)
	req.Equal(conversationID, decodeBody(t, recorder)["conversation"].(map[string]any)["id"].(string))

	// The owner sees one conversation with two unread messages.
	recorder = server.do(t, http.MethodGet, "/api/v1/conversations/"+conversationID+"/unread-count", listerToken, nil)
	req.Equal(http.StatusOK, recorder.Code)
	req.EqualValues(2, decodeBody(t, recorder)["unread_count"])

	recorder = server.do(t, http.MethodGet, "/api/v1/conversations", listerToken, nil)
	req.Equal(http.StatusOK, recorder.Code)
	directory := decodeBody(t, recorder)
	req.EqualValues(1, directory["total"])
	rows := directory["conversations"].([]any)
	req.Len(rows, 1)
	req.EqualValues(2, rows[0].(map[string]any)["unread_count"])

	// Fetching the thread acknowledges it.
	recorder = server.do(t, http.MethodGet, "/api/v1/conversations/"+conversationID+"/messages", listerToken, nil)
	req.Equal(http.StatusOK, recorder.Code)
	page := decodeBody(t, recorder)
	req.Len(page["messages"].([]any), 2)

	recorder = server.do(t, http.MethodGet, "/api/v1/conversations/"+conversationID+"/unread-count", listerToken, nil)
	req.EqualValues(0, decodeBody(t, recorder)["unread_count"])

	// The owner replies; the seeker acknowledges it explicitly.
	recorder = server.do(t, http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", listerToken, gin.H{
		"content": "Yes, visits start Saturday.",
	})
	req.Equal(http.StatusCreated, recorder.Code, recorder.Body.String())
	replyID := decodeBody(t, recorder)["id"].(string)

	recorder = server.do(t, http.MethodPost, "/api/v1/messages/"+replyID+"/read", seekerToken, nil)
	req.Equal(http.StatusOK, recorder.Code)
	req.Equal(true, decodeBody(t, recorder)["is_read"])

	// Search is scoped to the caller's own threads.
	recorder = server.do(t, http.MethodGet, "/api/v1/messages/search?q=available", seekerToken, nil)
	req.Equal(http.StatusOK, recorder.Code)
	req.NotEmpty(decodeBody(t, recorder)["hits"].([]any))

	strangerToken := server.register(t, "rudy@example.com", "Rudy", "seeker")
	recorder = server.do(t, http.MethodGet, "/api/v1/messages/search?q=available", strangerToken, nil)
	req.Equal(http.StatusOK, recorder.Code)
	req.Empty(decodeBody(t, recorder)["hits"].([]any))

	// The debug snapshot reflects the traffic.
	recorder = server.do(t, http.MethodGet, "/debug/stats", "", nil)
	req.Equal(http.StatusOK, recorder.Code)
	snapshot := decodeBody(t, recorder)
	req.EqualValues(1, snapshot["conversations_started"])
	req.EqualValues(3, snapshot["messages_appended"])
}

func TestAPI_StatusMapping(t *testing.T) {
	server := newTestServer(t)

	listerToken := server.register(t, "omar@example.com", "Omar", "lister")
	seekerToken := server.register(t, "prisca@example.com", "Prisca", "seeker")
	strangerToken := server.register(t, "rudy@example.com", "Rudy", "seeker")

	recorder := server.do(t, http.MethodPost, "/api/v1/apartments", listerToken, gin.H{
		"title":      "Two rooms near the station",
		"address":    "12 Rue de la Gare, Lyon",
		"rent_cents": 95000,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	apartmentID := decodeBody(t, recorder)["id"].(string)

	recorder = server.do(t, http.MethodPost, "/api/v1/conversations", seekerToken, gin.H{
		"apartment_id": apartmentID,
		"content":      "Opening line",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	conversationID := decodeBody(t, recorder)["conversation"].(map[string]any)["id"].(string)

	t.Run("should reject requests without a token", func(t *testing.T) {
		recorder := server.do(t, http.MethodGet, "/api/v1/conversations", "", nil)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should reject a garbage token", func(t *testing.T) {
		recorder := server.do(t, http.MethodGet, "/api/v1/conversations", "not-a-jwt", nil)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should map validation to 400", func(t *testing.T) {
		recorder := server.do(t, http.MethodGet, "/api/v1/apartments/not-a-uuid", seekerToken, nil)
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		recorder = server.do(t, http.MethodPost, "/api/v1/conversations", seekerToken, gin.H{
			"apartment_id": apartmentID,
			"content":      "   ",
		})
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		recorder = server.do(t, http.MethodGet, "/api/v1/messages/search?q=", seekerToken, nil)
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("should map missing records to 404", func(t *testing.T) {
		recorder := server.do(t, http.MethodGet, "/api/v1/apartments/"+uuid.NewString(), seekerToken, nil)
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("should map forbidden access to 403", func(t *testing.T) {
		recorder := server.do(t, http.MethodGet, "/api/v1/conversations/"+conversationID+"/messages", strangerToken, nil)
		require.Equal(t, http.StatusForbidden, recorder.Code)

		recorder = server.do(t, http.MethodPost, "/api/v1/apartments", strangerToken, gin.H{
			"title":      "Not my role",
			"address":    "1 Rue Unique",
			"rent_cents": 1000,
		})
		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("should map self-messaging to 409", func(t *testing.T) {
		recorder := server.do(t, http.MethodPost, "/api/v1/conversations", listerToken, gin.H{
			"apartment_id": apartmentID,
			"content":      "Talking to myself",
		})
		require.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("should map duplicate registration to 409", func(t *testing.T) {
		recorder := server.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
			"email":    "omar@example.com",
			"password": "ComplexPass123!",
			"name":     "Omar Again",
			"role":     "lister",
		})
		require.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("should map bad credentials to 401", func(t *testing.T) {
		recorder := server.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "omar@example.com",
			"password": "WrongPassword123!",
		})
		require.Equal(t, http.StatusUnauthorized, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.Contains(t, body["error"], "invalid credentials")
	})
}
