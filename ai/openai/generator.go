package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/assessly/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		// Local OpenAI-compatible services don't require authentication.
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken(token),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate sends a single prompt to the service and returns the raw response
// text, trimmed of surrounding whitespace.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating text", "promptLength", len(prompt))

	response, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt, llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("generation call failed", "err", err)
		return "", classifyError(err)
	}

	text := strings.TrimSpace(response)
	if text == "" {
		g.logger.Warn("generation returned empty response")
		return "", ai.ErrMalformed
	}

	return text, nil
}

// classifyError maps transport failures onto the package error taxonomy.
// Status codes are not interpreted beyond the distinction the taxonomy needs.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %w", ai.ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %w", ai.ErrUnavailable, err)
	}
}
