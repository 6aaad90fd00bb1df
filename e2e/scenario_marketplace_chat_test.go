package e2e

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testMarketplaceChatSuite struct {
	BaseHTTPSuite
}

func TestMarketplaceChatSuite(t *testing.T) {
	suite.Run(t, &testMarketplaceChatSuite{})
}

// TestFullConversationFlow drives the whole seeker/lister journey against
// a live server: accounts, a listing, first contact, the reply, read
// marking and search. Every account carries a per-run suffix so the
// scenario can be replayed against a server that keeps state.
func (s *testMarketplaceChatSuite) TestFullConversationFlow() {
	run := uuid.New().String()[:8]

	var (
		listerToken    string
		seekerToken    string
		apartmentID    string
		conversationID string
		replyID        string
	)

	s.Run("Step 1: Register both parties", func() {
		s.Step("Registering lister and seeker accounts")
		listerToken = s.RegisterUser(fmt.Sprintf("omar+%s@example.com", run), "Omar", "lister")
		seekerToken = s.RegisterUser(fmt.Sprintf("prisca+%s@example.com", run), "Prisca", "seeker")
	})

	s.Run("Step 2: Publish a listing", func() {
		s.Step("Publishing the apartment as the lister")
		status, body := s.DoJSON(http.MethodPost, "/api/v1/apartments", listerToken, map[string]any{
			"title":      "Two rooms near the station " + run,
			"address":    "12 Rue de la Gare, Lyon",
			"rent_cents": 95000,
		})
		s.Require().Equal(http.StatusCreated, status)
		apartmentID, _ = body["id"].(string)
		s.Require().NotEmpty(apartmentID)
	})

	s.Run("Step 3: First contact creates the conversation", func() {
		s.Step("Seeker opens the conversation")
		status, body := s.DoJSON(http.MethodPost, "/api/v1/conversations", seekerToken, map[string]any{
			"apartment_id": apartmentID,
			"content":      "Hello, is this still available?",
		})
		s.Require().Equal(http.StatusCreated, status)
		conversation, _ := body["conversation"].(map[string]any)
		conversationID, _ = conversation["id"].(string)
		s.Require().NotEmpty(conversationID)
	})

	s.Run("Step 4: Second contact lands in the same conversation", func() {
		s.Step("Seeker sends again through the listing page")
		status, body := s.DoJSON(http.MethodPost, "/api/v1/conversations", seekerToken, map[string]any{
			"apartment_id": apartmentID,
			"content":      "Could I visit this week?",
		})
		s.Require().Equal(http.StatusOK, status, "a second contact must reuse the conversation")
		conversation, _ := body["conversation"].(map[string]any)
		s.Require().Equal(conversationID, conversation["id"])
	})

	s.Run("Step 5: Owner directory shows the pending thread", func() {
		s.Step("Lister lists conversations")
		status, body := s.DoJSON(http.MethodGet, "/api/v1/conversations", listerToken, nil)
		s.Require().Equal(http.StatusOK, status)
		rows, _ := body["conversations"].([]any)
		s.Require().NotEmpty(rows)

		var row map[string]any
		for _, candidate := range rows {
			r, _ := candidate.(map[string]any)
			if r["id"] == conversationID {
				row = r
				break
			}
		}
		s.Require().NotNil(row, "conversation missing from the owner directory")
		s.Require().Equal(float64(2), row["unread_count"])
		counterpart, _ := row["counterpart"].(map[string]any)
		s.Require().Equal("Prisca", counterpart["name"])
	})

	s.Run("Step 6: Reading the history flips the unread state", func() {
		s.Step("Lister opens the conversation")
		status, body := s.DoJSON(http.MethodGet, "/api/v1/conversations/"+conversationID+"/messages", listerToken, nil)
		s.Require().Equal(http.StatusOK, status)
		messages, _ := body["messages"].([]any)
		s.Require().Len(messages, 2)
		for _, candidate := range messages {
			message, _ := candidate.(map[string]any)
			s.Require().Equal(true, message["is_read"], "viewing must mark incoming messages read")
		}

		status, body = s.DoJSON(http.MethodGet, "/api/v1/conversations/"+conversationID+"/unread-count", listerToken, nil)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Equal(float64(0), body["unread_count"])
	})

	s.Run("Step 7: Owner replies", func() {
		s.Step("Lister answers the seeker")
		status, body := s.DoJSON(http.MethodPost, "/api/v1/conversations/"+conversationID+"/messages", listerToken, map[string]any{
			"content": "Still free, visits on Saturday, ref " + run,
		})
		s.Require().Equal(http.StatusCreated, status)
		replyID, _ = body["id"].(string)
		s.Require().NotEmpty(replyID)
		s.Require().Equal(false, body["is_read"])
	})

	s.Run("Step 8: Seeker marks the reply read explicitly", func() {
		s.Step("Seeker acknowledges the reply")
		status, body := s.DoJSON(http.MethodPost, "/api/v1/messages/"+replyID+"/read", seekerToken, nil)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Equal(true, body["is_read"])

		// Marking again must change nothing.
		status, again := s.DoJSON(http.MethodPost, "/api/v1/messages/"+replyID+"/read", seekerToken, nil)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Equal(body["read_at"], again["read_at"])
	})

	s.Run("Step 9: The reply is searchable for a participant", func() {
		s.Step("Seeker searches own conversations")
		status, body := s.DoJSON(http.MethodGet, "/api/v1/messages/search?q="+run+"&limit=10", seekerToken, nil)
		s.Require().Equal(http.StatusOK, status)
		total, _ := body["total"].(float64)
		s.Require().GreaterOrEqual(total, float64(1), "reply should be indexed by the time the request returns")
	})

	s.Run("Step 10: Counters moved", func() {
		s.Step("Reading /debug/stats")
		status, body := s.DoJSON(http.MethodGet, "/debug/stats", "", nil)
		s.Require().Equal(http.StatusOK, status)
		started, _ := body["conversations_started"].(float64)
		appended, _ := body["messages_appended"].(float64)
		s.Require().GreaterOrEqual(started, float64(1))
		s.Require().GreaterOrEqual(appended, float64(3))
	})
}
