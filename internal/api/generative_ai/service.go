package generativeAI

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	appmetrics "github.com/tourvn/go-tourism-backend/app/observability/metrics"
	"github.com/tourvn/go-tourism-backend/config"
)

// AIClient wraps the Gemini client with the configured model and
// generation settings.
type AIClient struct {
	client  *genai.Client
	model   string
	config  *genai.GenerateContentConfig
	metrics *appmetrics.AppMetrics
}

type ChatSession struct {
	chat *genai.Chat
}

func NewAIClient(ctx context.Context, cfg config.GeminiConfig, metrics *appmetrics.AppMetrics) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &AIClient{
		client: client,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(cfg.Temperature),
			MaxOutputTokens: cfg.MaxTokens,
		},
		metrics: metrics,
	}, nil
}

// GenerateContent sends a single prompt and returns the flattened text
// reply.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), ai.config)
	ai.record(ctx, start, err)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}

// StartChatSession opens a multi-turn session with prior history.
func (ai *AIClient) StartChatSession(ctx context.Context, history []*genai.Content) (*ChatSession, error) {
	chat, err := ai.client.Chats.Create(ctx, ai.model, ai.config, history)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return &ChatSession{chat: chat}, nil
}

func (cs *ChatSession) SendMessage(ctx context.Context, message string) (string, error) {
	result, err := cs.chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}
	return result.Text(), nil
}

func (ai *AIClient) record(ctx context.Context, start time.Time, err error) {
	if ai.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	ai.metrics.AIRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	ai.metrics.AIRequestDurationSeconds.Record(ctx, time.Since(start).Seconds())
}
