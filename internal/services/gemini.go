package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/basappa1234/resume-screening-agent/internal/screening"
)

// GeminiService is the LLM gateway backing the screening engine, plus the
// embedding generator used for similarity retrieval. Evaluate satisfies
// screening.Gateway.
type GeminiService interface {
	Evaluate(ctx context.Context, prompt string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	embedModel  string
	maxRetries  int
	initialWait time.Duration
}

const evaluationTemperature float32 = 0.3

func NewGeminiService(apiKey, modelName, embedModel string, maxRetries int, initialWait time.Duration) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if maxRetries < 1 {
		maxRetries = 1
	}

	return &geminiService{
		client:      client,
		modelName:   modelName,
		embedModel:  embedModel,
		maxRetries:  maxRetries,
		initialWait: initialWait,
	}, nil
}

// Evaluate implements screening.Gateway. Transient failures (rate limit,
// timeout, network) are retried with exponential backoff up to the
// configured attempts; auth failures are not retried. The screening engine
// sees a single settled outcome per call.
func (g *geminiService) Evaluate(ctx context.Context, prompt string) (string, error) {
	var lastErr *screening.GatewayError

	wait := g.initialWait
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		text, err := g.generateText(ctx, prompt)
		if err == nil {
			return text, nil
		}

		lastErr = classifyGatewayError(err)
		if !isRetryable(lastErr.Kind) {
			return "", lastErr
		}

		if attempt < g.maxRetries {
			log.Printf("⚠️ Gemini attempt %d failed (%s). Retrying in %s...\n", attempt, lastErr.Kind, wait)
			select {
			case <-ctx.Done():
				return "", screening.NewGatewayError(screening.GatewayTimeout, ctx.Err())
			case <-time.After(wait):
			}
			wait *= 2
		}
	}

	return "", lastErr
}

func (g *geminiService) generateText(ctx context.Context, prompt string) (string, error) {
	temperature := evaluationTemperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}
	return text, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func isRetryable(kind screening.GatewayErrorKind) bool {
	switch kind {
	case screening.GatewayRateLimit, screening.GatewayTimeout, screening.GatewayNetwork:
		return true
	default:
		return false
	}
}

// classifyGatewayError maps an API error onto the engine's failure
// taxonomy. The Gemini SDK does not expose stable error types for every
// case, so classification inspects the message for the documented status
// markers.
func classifyGatewayError(err error) *screening.GatewayError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return screening.NewGatewayError(screening.GatewayTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return screening.NewGatewayError(screening.GatewayTimeout, err)
		}
		return screening.NewGatewayError(screening.GatewayNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "429"):
		return screening.NewGatewayError(screening.GatewayRateLimit, err)
	case strings.Contains(msg, "api key"),
		strings.Contains(msg, "unauthenticated"),
		strings.Contains(msg, "permission_denied"),
		strings.Contains(msg, "401"),
		strings.Contains(msg, "403"):
		return screening.NewGatewayError(screening.GatewayAuth, err)
	case strings.Contains(msg, "deadline"),
		strings.Contains(msg, "timeout"):
		return screening.NewGatewayError(screening.GatewayTimeout, err)
	case strings.Contains(msg, "connection"),
		strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "no such host"):
		return screening.NewGatewayError(screening.GatewayNetwork, err)
	default:
		return screening.NewGatewayError(screening.GatewayUnknown, err)
	}
}
