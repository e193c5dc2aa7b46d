package store

import (
	"testing"
	"time"

	"github.com/poiesic/assessly/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	ids := []core.ID{0, 1, 255, 1 << 20, 1<<63 - 1}

	for _, id := range ids {
		data := MarshalID(id)
		got, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	chunk := &core.DocumentChunk{
		Id:         core.IDFromContent("chunk text"),
		Text:       "The capital of France is Paris.",
		SourceID:   "geography.pdf",
		Vector:     []float32{0.1, -0.5, 0.25, 1.0},
		InsertedAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	data := MarshalChunk(chunk)
	got, err := UnmarshalChunk(data)
	require.NoError(t, err)

	assert.Equal(t, chunk.Id, got.Id)
	assert.Equal(t, chunk.Text, got.Text)
	assert.Equal(t, chunk.SourceID, got.SourceID)
	assert.Equal(t, chunk.Vector, got.Vector)
	assert.True(t, chunk.InsertedAt.Equal(got.InsertedAt))
}

func TestMarshalUnmarshalChunk_EmptyVector(t *testing.T) {
	chunk := &core.DocumentChunk{
		Id:         42,
		Text:       "pending embedding",
		SourceID:   "notes.txt",
		InsertedAt: time.Now().UTC(),
	}

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Empty(t, got.Vector)
}

func TestMarshalUnmarshalAssessment(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	assessment := &core.Assessment{
		Id:    7,
		Topic: "european geography",
		Type:  core.TypeMCQ,
		Questions: []core.GeneratedQuestion{
			{
				Text:          "What is the capital of France?",
				Type:          core.TypeMCQ,
				Options:       []string{"Paris", "London", "Berlin", "Madrid"},
				CorrectAnswer: core.ScalarAnswer("Paris"),
			},
			{
				Text:          "_____ and _____ are on the Seine and Thames.",
				Type:          core.TypeFillInBlank,
				CorrectAnswer: core.SlotAnswer([]string{"Paris", "London"}),
			},
		},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	got, err := UnmarshalAssessment(MarshalAssessment(assessment))
	require.NoError(t, err)

	assert.Equal(t, assessment.Id, got.Id)
	assert.Equal(t, assessment.Topic, got.Topic)
	assert.Equal(t, assessment.Type, got.Type)
	require.Len(t, got.Questions, 2)

	assert.Equal(t, assessment.Questions[0].Options, got.Questions[0].Options)
	assert.True(t, got.Questions[0].CorrectAnswer.Scalar)
	assert.Equal(t, "Paris", got.Questions[0].CorrectAnswer.Slots[0])

	assert.False(t, got.Questions[1].CorrectAnswer.Scalar)
	assert.Equal(t, []string{"Paris", "London"}, got.Questions[1].CorrectAnswer.Slots)
}

func TestUnmarshalChunk_Truncated(t *testing.T) {
	chunk := &core.DocumentChunk{
		Id:         1,
		Text:       "some text",
		SourceID:   "a.txt",
		Vector:     []float32{1, 2, 3},
		InsertedAt: time.Now().UTC(),
	}
	data := MarshalChunk(chunk)

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}
