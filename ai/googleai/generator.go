package googleai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/assessly/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Generator implements ai.Generator using the Gemini API.
type Generator struct {
	client *googleai.GoogleAI
	logger *slog.Logger
}

func newGenerator(client *googleai.GoogleAI) *Generator {
	return &Generator{
		client: client,
		logger: slog.Default().With("component", "googleai-generator"),
	}
}

// Generate produces a completion for the given prompt. Temperature is
// pinned to zero so repeated calls with the same prompt stay stable.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt,
		llms.WithTemperature(0.0),
	)
	if err != nil {
		g.logger.Error("generation failed", "err", err)
		return "", classifyError(err)
	}

	response = strings.TrimSpace(response)
	if response == "" {
		g.logger.Warn("model returned empty response")
		return "", ai.ErrMalformed
	}

	return response, nil
}

func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") {
		return fmt.Errorf("%w: %w", ai.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", ai.ErrUnavailable, err)
}
