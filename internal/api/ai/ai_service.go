package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	generativeAI "github.com/tourvn/go-tourism-backend/internal/api/generative_ai"
	"github.com/tourvn/go-tourism-backend/internal/types"
)

const historyWindow = 10

// ChatModel is a live multi-turn session.
type ChatModel interface {
	SendMessage(ctx context.Context, message string) (string, error)
}

// Generator is the slice of the Gemini wrapper this service needs.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	StartChat(ctx context.Context, history []*genai.Content) (ChatModel, error)
}

// GatewayGenerator adapts the concrete Gemini client to Generator.
type GatewayGenerator struct {
	client *generativeAI.AIClient
}

func NewGatewayGenerator(client *generativeAI.AIClient) *GatewayGenerator {
	return &GatewayGenerator{client: client}
}

func (g *GatewayGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return g.client.GenerateContent(ctx, prompt)
}

func (g *GatewayGenerator) StartChat(ctx context.Context, history []*genai.Content) (ChatModel, error) {
	return g.client.StartChatSession(ctx, history)
}

var _ AIService = (*AIServiceImpl)(nil)

type AIService interface {
	// Chat answers one turn. chatContext carries extra structured
	// facts (user preferences, selected places) appended to the
	// system prompt; only the last few history turns are replayed.
	Chat(ctx context.Context, message string, chatContext map[string]any, history []types.ChatMessage) (string, error)

	GenerateItinerary(ctx context.Context, prefs types.ItineraryPreference) (*types.ItineraryPlan, error)
	SuggestPlaces(ctx context.Context, criteria SuggestionCriteria, candidates []types.PlaceSummary) (*types.PlaceSuggestions, error)
	EstimateCost(ctx context.Context, plan types.ItineraryPlan) (*types.CostEstimate, error)
}

type AIServiceImpl struct {
	logger    *slog.Logger
	generator Generator
}

func NewAIService(generator Generator, logger *slog.Logger) *AIServiceImpl {
	return &AIServiceImpl{
		logger:    logger,
		generator: generator,
	}
}

func (s *AIServiceImpl) Chat(ctx context.Context, message string, chatContext map[string]any, history []types.ChatMessage) (string, error) {
	l := s.logger.With(slog.String("method", "Chat"))

	prompt := TourismSystemPrompt()
	if len(chatContext) > 0 {
		ctxJSON, err := json.MarshalIndent(chatContext, "", "  ")
		if err == nil {
			prompt += fmt.Sprintf("\n\n**Additional context:**\n%s", ctxJSON)
		}
	}
	prompt += fmt.Sprintf("\n\n**Guest question:** %s", message)

	chat, err := s.generator.StartChat(ctx, chatHistory(history))
	if err != nil {
		l.ErrorContext(ctx, "failed to start chat session", slog.Any("error", err))
		return "", fmt.Errorf("failed to start chat session: %w", err)
	}

	reply, err := chat.SendMessage(ctx, prompt)
	if err != nil {
		l.ErrorContext(ctx, "chat turn failed", slog.Any("error", err))
		return "", fmt.Errorf("chat turn failed: %w", err)
	}
	return reply, nil
}

func (s *AIServiceImpl) GenerateItinerary(ctx context.Context, prefs types.ItineraryPreference) (*types.ItineraryPlan, error) {
	l := s.logger.With(slog.String("method", "GenerateItinerary"))

	raw, err := s.generator.GenerateContent(ctx, ItineraryPrompt(prefs))
	if err != nil {
		return nil, fmt.Errorf("failed to generate itinerary: %w", err)
	}

	res := ExtractJSON(raw)
	if res.Parsed {
		var plan types.ItineraryPlan
		if err := json.Unmarshal(res.Data, &plan); err == nil {
			if plan.Days == nil {
				plan.Days = []types.ItineraryDay{}
			}
			return &plan, nil
		}
	}

	l.WarnContext(ctx, "itinerary reply was not valid JSON, returning text-only plan")
	duration := prefs.Duration
	if duration <= 0 {
		duration = 3
	}
	return &types.ItineraryPlan{
		Title:        "Travel itinerary",
		Description:  res.Raw,
		DurationDays: duration,
		Days:         []types.ItineraryDay{},
	}, nil
}

func (s *AIServiceImpl) SuggestPlaces(ctx context.Context, criteria SuggestionCriteria, candidates []types.PlaceSummary) (*types.PlaceSuggestions, error) {
	l := s.logger.With(slog.String("method", "SuggestPlaces"))

	raw, err := s.generator.GenerateContent(ctx, SuggestionPrompt(criteria, candidates))
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	res := ExtractJSON(raw)
	if res.Parsed {
		var suggestions types.PlaceSuggestions
		if err := json.Unmarshal(res.Data, &suggestions); err == nil {
			if suggestions.Recommendations == nil {
				suggestions.Recommendations = []types.PlaceRecommendation{}
			}
			return &suggestions, nil
		}
	}

	l.WarnContext(ctx, "suggestion reply was not valid JSON, returning explanation only")
	return &types.PlaceSuggestions{
		Recommendations: []types.PlaceRecommendation{},
		Explanation:     res.Raw,
	}, nil
}

func (s *AIServiceImpl) EstimateCost(ctx context.Context, plan types.ItineraryPlan) (*types.CostEstimate, error) {
	l := s.logger.With(slog.String("method", "EstimateCost"))

	raw, err := s.generator.GenerateContent(ctx, CostEstimationPrompt(plan))
	if err != nil {
		return nil, fmt.Errorf("failed to estimate cost: %w", err)
	}

	res := ExtractJSON(raw)
	if res.Parsed {
		var estimate types.CostEstimate
		if err := json.Unmarshal(res.Data, &estimate); err == nil {
			if estimate.Breakdown == nil {
				estimate.Breakdown = map[string]float64{}
			}
			return &estimate, nil
		}
	}

	l.WarnContext(ctx, "cost reply was not valid JSON, returning explanation only")
	return &types.CostEstimate{
		Total:       0,
		Breakdown:   map[string]float64{},
		Explanation: res.Raw,
	}, nil
}

// chatHistory converts the stored transcript to the wire shape,
// keeping only the trailing window.
func chatHistory(history []types.ChatMessage) []*genai.Content {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	out := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == types.RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(msg.Content, role))
	}
	return out
}
