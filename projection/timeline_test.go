package projection

import (
	"context"
	"fmt"
	"testing"
	"time"

	"nestchat/domain"
	"nestchat/domain/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTimeline_Consume_MessageAppended(t *testing.T) {
	timeline := NewTimeline(0)
	ctx := context.Background()

	alice := uuid.New()
	clara := uuid.New()
	conversation := uuid.New()

	evt1 := event.MessageAppended{
		Message: domain.Message{
			ConversationID: conversation,
			SenderID:       alice,
			Content:        "Hello, is this still available?",
			CreatedAt:      time.Now(),
		},
	}
	evt2 := event.MessageAppended{
		Message: domain.Message{
			ConversationID: conversation,
			SenderID:       clara,
			Content:        "Yes, visits on Saturday",
			CreatedAt:      time.Now().Add(time.Second),
		},
	}

	err := timeline.Consume(ctx, evt1)
	require.NoError(t, err)
	err = timeline.Consume(ctx, evt2)
	require.NoError(t, err)

	// Read events pass through without leaving a trace.
	err = timeline.Consume(ctx, event.MessagesRead{Conversation: conversation})
	require.NoError(t, err)

	recent := timeline.Recent()
	require.Len(t, recent, 2)
	require.Equal(t, alice, recent[0].SenderID)
	require.Equal(t, clara, recent[1].SenderID)
}

func TestTimeline_BoundsItsWindow(t *testing.T) {
	timeline := NewTimeline(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := timeline.Consume(ctx, event.MessageAppended{
			Message: domain.Message{
				ConversationID: uuid.New(),
				SenderID:       uuid.New(),
				Content:        fmt.Sprintf("message %d", i),
				CreatedAt:      time.Now(),
			},
		})
		require.NoError(t, err)
	}

	recent := timeline.Recent()
	require.Len(t, recent, 3)
	require.Equal(t, "message 2", recent[0].Preview)
	require.Equal(t, "message 4", recent[2].Preview)
}
