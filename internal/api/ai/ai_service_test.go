package ai

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/tourvn/go-tourism-backend/internal/types"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) StartChat(ctx context.Context, history []*genai.Content) (ChatModel, error) {
	args := m.Called(ctx, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ChatModel), args.Error(1)
}

type MockChatModel struct {
	mock.Mock
}

func (m *MockChatModel) SendMessage(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateItinerary(t *testing.T) {
	ctx := context.Background()

	t.Run("ParsesStructuredReply", func(t *testing.T) {
		gen := new(MockGenerator)
		svc := NewAIService(gen, discardLogger())

		reply := "```json\n{\"title\":\"Da Nang weekend\",\"duration_days\":2,\"days\":[{\"day\":1,\"title\":\"Arrival\",\"activities\":[]}]}\n```"
		gen.On("GenerateContent", ctx, mock.AnythingOfType("string")).Return(reply, nil)

		plan, err := svc.GenerateItinerary(ctx, types.ItineraryPreference{Duration: 2, Location: "Da Nang"})
		require.NoError(t, err)
		assert.Equal(t, "Da Nang weekend", plan.Title)
		assert.Equal(t, 2, plan.DurationDays)
		require.Len(t, plan.Days, 1)
		gen.AssertExpectations(t)
	})

	t.Run("ProseReplyBecomesTextOnlyPlan", func(t *testing.T) {
		gen := new(MockGenerator)
		svc := NewAIService(gen, discardLogger())

		gen.On("GenerateContent", ctx, mock.AnythingOfType("string")).
			Return("Day one: wander the Old Quarter...", nil)

		plan, err := svc.GenerateItinerary(ctx, types.ItineraryPreference{Duration: 4})
		require.NoError(t, err)
		assert.Equal(t, "Travel itinerary", plan.Title)
		assert.Equal(t, "Day one: wander the Old Quarter...", plan.Description)
		assert.Equal(t, 4, plan.DurationDays)
		assert.Empty(t, plan.Days)
	})

	t.Run("TransportErrorPropagates", func(t *testing.T) {
		gen := new(MockGenerator)
		svc := NewAIService(gen, discardLogger())

		gen.On("GenerateContent", ctx, mock.AnythingOfType("string")).
			Return("", assert.AnError)

		_, err := svc.GenerateItinerary(ctx, types.ItineraryPreference{})
		assert.Error(t, err)
	})
}

func TestSuggestPlaces(t *testing.T) {
	ctx := context.Background()

	t.Run("ParsesRecommendations", func(t *testing.T) {
		gen := new(MockGenerator)
		svc := NewAIService(gen, discardLogger())

		reply := `{"recommendations":[{"place_id":"abc","name":"Lang Co beach","reason":"quiet"}],"explanation":"coastal picks"}`
		gen.On("GenerateContent", ctx, mock.AnythingOfType("string")).Return(reply, nil)

		got, err := svc.SuggestPlaces(ctx, SuggestionCriteria{Budget: "low"}, nil)
		require.NoError(t, err)
		require.Len(t, got.Recommendations, 1)
		assert.Equal(t, "Lang Co beach", got.Recommendations[0].Name)
		assert.Equal(t, "coastal picks", got.Explanation)
	})

	t.Run("ProseReplyBecomesExplanation", func(t *testing.T) {
		gen := new(MockGenerator)
		svc := NewAIService(gen, discardLogger())

		gen.On("GenerateContent", ctx, mock.AnythingOfType("string")).
			Return("You should really try the beaches.", nil)

		got, err := svc.SuggestPlaces(ctx, SuggestionCriteria{}, nil)
		require.NoError(t, err)
		assert.Empty(t, got.Recommendations)
		assert.Equal(t, "You should really try the beaches.", got.Explanation)
	})
}

func TestEstimateCost(t *testing.T) {
	ctx := context.Background()

	t.Run("ParsesBreakdown", func(t *testing.T) {
		gen := new(MockGenerator)
		svc := NewAIService(gen, discardLogger())

		reply := "```json\n{\"total\":2500000,\"breakdown\":{\"food\":800000},\"currency\":\"VND\"}\n```"
		gen.On("GenerateContent", ctx, mock.AnythingOfType("string")).Return(reply, nil)

		got, err := svc.EstimateCost(ctx, types.ItineraryPlan{Title: "Hue"})
		require.NoError(t, err)
		assert.Equal(t, float64(2500000), got.Total)
		assert.Equal(t, float64(800000), got.Breakdown["food"])
		assert.Equal(t, "VND", got.Currency)
	})

	t.Run("ProseReplyBecomesExplanation", func(t *testing.T) {
		gen := new(MockGenerator)
		svc := NewAIService(gen, discardLogger())

		gen.On("GenerateContent", ctx, mock.AnythingOfType("string")).
			Return("Hard to say without dates.", nil)

		got, err := svc.EstimateCost(ctx, types.ItineraryPlan{})
		require.NoError(t, err)
		assert.Zero(t, got.Total)
		assert.NotNil(t, got.Breakdown)
		assert.Equal(t, "Hard to say without dates.", got.Explanation)
	})
}

func TestChat(t *testing.T) {
	ctx := context.Background()

	t.Run("ReplaysTrailingHistoryWindow", func(t *testing.T) {
		gen := new(MockGenerator)
		chat := new(MockChatModel)
		svc := NewAIService(gen, discardLogger())

		history := make([]types.ChatMessage, 0, 14)
		for i := 0; i < 14; i++ {
			role := types.RoleUser
			if i%2 == 1 {
				role = types.RoleAssistant
			}
			history = append(history, types.ChatMessage{Role: role, Content: "turn"})
		}

		gen.On("StartChat", ctx, mock.MatchedBy(func(h []*genai.Content) bool {
			if len(h) != historyWindow {
				return false
			}
			for i, c := range h {
				want := genai.RoleModel
				if i%2 == 0 {
					want = genai.RoleUser
				}
				if c.Role != want {
					return false
				}
			}
			return true
		})).Return(chat, nil)
		chat.On("SendMessage", ctx, mock.AnythingOfType("string")).Return("Of course!", nil)

		reply, err := svc.Chat(ctx, "Where should I eat?", nil, history)
		require.NoError(t, err)
		assert.Equal(t, "Of course!", reply)
		gen.AssertExpectations(t)
		chat.AssertExpectations(t)
	})

	t.Run("ContextIsEmbeddedInPrompt", func(t *testing.T) {
		gen := new(MockGenerator)
		chat := new(MockChatModel)
		svc := NewAIService(gen, discardLogger())

		gen.On("StartChat", ctx, mock.Anything).Return(chat, nil)

		var sent string
		chat.On("SendMessage", ctx, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.String(1) }).
			Return("ok", nil)

		_, err := svc.Chat(ctx, "plan my day", map[string]any{"budget": "low"}, nil)
		require.NoError(t, err)
		assert.Contains(t, sent, "Additional context")
		assert.Contains(t, sent, `"budget": "low"`)
		assert.Contains(t, sent, "**Guest question:** plan my day")
	})

	t.Run("SendFailurePropagates", func(t *testing.T) {
		gen := new(MockGenerator)
		chat := new(MockChatModel)
		svc := NewAIService(gen, discardLogger())

		gen.On("StartChat", ctx, mock.Anything).Return(chat, nil)
		chat.On("SendMessage", ctx, mock.AnythingOfType("string")).Return("", assert.AnError)

		_, err := svc.Chat(ctx, "hello", nil, nil)
		assert.Error(t, err)
	})
}
