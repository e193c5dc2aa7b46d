package assessment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/assessly/ai"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/store"
)

const (
	// DefaultContextChunks is how many retrieved chunks feed a
	// generation prompt.
	DefaultContextChunks = 3
)

// Generator produces assessments for a topic by retrieving relevant
// context and prompting a generative model.
type Generator struct {
	generator     ai.Generator
	embedder      ai.Embedder
	chunks        store.ChunkRepository
	contextChunks int
	logger        *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithContextChunks sets how many chunks are retrieved per generation.
// Values below 1 keep the default.
func WithContextChunks(k int) GeneratorOption {
	return func(g *Generator) {
		if k >= 1 {
			g.contextChunks = k
		}
	}
}

// NewGenerator creates an assessment generator. The chunk repository may
// be nil, in which case prompts are built without retrieved context.
func NewGenerator(generator ai.Generator, embedder ai.Embedder, chunks store.ChunkRepository, opts ...GeneratorOption) *Generator {
	g := &Generator{
		generator:     generator,
		embedder:      embedder,
		chunks:        chunks,
		contextChunks: DefaultContextChunks,
		logger:        slog.Default().With("component", "assessment-generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces questionCount questions of the given type about topic.
//
// A malformed model response degrades to zero questions with
// ErrMalformedResponse; retrieval and generation failures are returned
// as-is.
func (g *Generator) Generate(ctx context.Context, topic string, assessmentType core.AssessmentType, questionCount int) ([]core.GeneratedQuestion, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, core.ErrEmptyTopic
	}
	if !assessmentType.Valid() {
		return nil, core.ErrInvalidAssessmentType
	}

	contextText, err := g.retrieveContext(ctx, topic)
	if err != nil {
		return nil, err
	}

	prompt, err := BuildGenerationPrompt(assessmentType, questionCount, topic, contextText)
	if err != nil {
		return nil, err
	}

	response, err := g.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := ParseQuestions(response, assessmentType)
	if err != nil {
		g.logger.Warn("model response did not parse",
			"topic", topic,
			"type", assessmentType,
			"err", err)
		return questions, err
	}

	g.logger.Debug("generated questions",
		"topic", topic,
		"type", assessmentType,
		"requested", questionCount,
		"produced", len(questions))

	return questions, nil
}

// retrieveContext embeds the topic and joins the most similar chunk
// texts, most relevant first. A missing chunk repository yields an empty
// context; embedding and query failures abort the request since a
// misconfigured retrieval path would silently degrade every assessment.
func (g *Generator) retrieveContext(ctx context.Context, topic string) (string, error) {
	if g.chunks == nil {
		return "", nil
	}

	vector, err := g.embedder.EmbedText(ctx, topic)
	if err != nil {
		return "", err
	}

	matches, err := g.chunks.QuerySimilar(ctx, vector, g.contextChunks)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(matches))
	for _, match := range matches {
		texts = append(texts, match.Chunk.Text)
	}
	return strings.Join(texts, " "), nil
}
