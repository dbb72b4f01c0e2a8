// Package textgen generates assessment narratives with the Anthropic
// API.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const systemPrompt = "You are a credit risk analyst writing assessment narratives for invoice financing decisions. Respond with plain prose only."

type failureClass int

const (
	failureNone failureClass = iota
	failureTimeout
	failureRateLimit
	failureServer
	failureClient
)

// Messager is the slice of the Anthropic client the generator needs.
type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type ClientCreator func(apiKey string) Messager

func defaultCreator(apiKey string) Messager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newClient ClientCreator = defaultCreator

// Generator implements narrative generation with bounded retry on
// transient transport failures.
type Generator struct {
	messages Messager
	model    anthropic.Model
}

func NewGeneratorFromEnv() (*Generator, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return &Generator{
		messages: newClient(apiKey),
		model:    anthropic.ModelClaudeSonnet4_20250514,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
			Model:       g.model,
			MaxTokens:   1024,
			System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
			Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
			Temperature: anthropic.Float(0.2),
		})
		if err != nil {
			lastErr = err
			class := classifyTransportError(err)
			if (class == failureTimeout || class == failureRateLimit || class == failureServer) && attempt < 3 {
				time.Sleep(backoffDelay(attempt))
				continue
			}
			return "", fmt.Errorf("narrative transport failure: %w", err)
		}
		var sb strings.Builder
		for _, b := range resp.Content {
			if b.Type == "text" {
				sb.WriteString(b.Text)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			return "", errors.New("narrative generation returned empty response")
		}
		return text, nil
	}
	return "", fmt.Errorf("narrative failed after retries: %w", lastErr)
}

func classifyTransportError(err error) failureClass {
	msg := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	switch {
	case strings.Contains(msg, "429"):
		return failureRateLimit
	case strings.Contains(msg, " 5") || strings.Contains(msg, "status code: 5") || strings.Contains(msg, "server error"):
		return failureServer
	case strings.Contains(msg, " 4") || strings.Contains(msg, "status code: 4"):
		return failureClient
	default:
		return failureServer
	}
}

func backoffDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 1 * time.Second
	}
	return 2 * time.Second
}
