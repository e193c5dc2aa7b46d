package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/assessly/ai/mock"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/store/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return `[{"text": "Q1", "correct_answer": "A1"}]`, nil
	}

	g := NewGenerator(generator, mock.NewMockEmbedder(), nil)

	questions, err := g.Generate(context.Background(), "photosynthesis", core.TypeShortAnswer, 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Q1", questions[0].Text)
	assert.Equal(t, core.TypeShortAnswer, questions[0].Type)
	assert.Equal(t, 1, generator.CallCount())
}

func TestGenerator_RetrievedContextInPrompt(t *testing.T) {
	chunkRepo, _, _, err := badger.NewMemoryRepositories(4)
	require.NoError(t, err)
	defer chunkRepo.Close()

	ctx := context.Background()
	require.NoError(t, chunkRepo.UpsertChunks(ctx,
		&core.DocumentChunk{Id: 1, Text: "chlorophyll absorbs light", SourceID: "bio.txt", Vector: []float32{1, 0, 0, 0}},
		&core.DocumentChunk{Id: 2, Text: "mitochondria make ATP", SourceID: "bio.txt", Vector: []float32{0, 1, 0, 0}},
	))

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0, 0}, nil
	}
	generator := mock.NewMockGenerator()

	g := NewGenerator(generator, embedder, chunkRepo, WithContextChunks(1))

	_, err = g.Generate(ctx, "photosynthesis", core.TypeShortAnswer, 2)
	require.NoError(t, err)

	prompts := generator.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "chlorophyll absorbs light")
	assert.NotContains(t, prompts[0], "mitochondria make ATP")
}

func TestGenerator_InvalidInput(t *testing.T) {
	g := NewGenerator(mock.NewMockGenerator(), mock.NewMockEmbedder(), nil)
	ctx := context.Background()

	_, err := g.Generate(ctx, "  ", core.TypeMCQ, 3)
	assert.ErrorIs(t, err, core.ErrEmptyTopic)

	_, err = g.Generate(ctx, "topic", core.AssessmentType("essay"), 3)
	assert.ErrorIs(t, err, core.ErrInvalidAssessmentType)

	_, err = g.Generate(ctx, "topic", core.TypeMCQ, 0)
	assert.ErrorIs(t, err, ErrNoQuestionCount)
}

func TestGenerator_MalformedResponse(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "I'd be happy to help with that!", nil
	}

	g := NewGenerator(generator, mock.NewMockEmbedder(), nil)

	questions, err := g.Generate(context.Background(), "topic", core.TypeShortAnswer, 3)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestGenerator_GenerationFailure(t *testing.T) {
	wantErr := errors.New("model offline")
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", wantErr
	}

	g := NewGenerator(generator, mock.NewMockEmbedder(), nil)

	_, err := g.Generate(context.Background(), "topic", core.TypeShortAnswer, 3)
	assert.ErrorIs(t, err, wantErr)
}

func TestGenerator_EmbedFailureAborts(t *testing.T) {
	chunkRepo, _, _, err := badger.NewMemoryRepositories(4)
	require.NoError(t, err)
	defer chunkRepo.Close()

	wantErr := errors.New("embedder offline")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, wantErr
	}
	generator := mock.NewMockGenerator()

	g := NewGenerator(generator, embedder, chunkRepo)

	_, err = g.Generate(context.Background(), "topic", core.TypeShortAnswer, 3)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, generator.CallCount())
}
