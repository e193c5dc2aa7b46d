package qdrant

import (
	"testing"
	"time"

	"github.com/poiesic/assessly/core"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestRetrievedToChunk(t *testing.T) {
	insertedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	chunk := retrievedToChunk(core.ID(42),
		&qdrant.VectorsOutput{
			VectorsOptions: &qdrant.VectorsOutput_Vector{
				Vector: &qdrant.VectorOutput{Data: []float32{0.1, 0.2}},
			},
		},
		map[string]*qdrant.Value{
			payloadText:       {Kind: &qdrant.Value_StringValue{StringValue: "some text"}},
			payloadSourceID:   {Kind: &qdrant.Value_StringValue{StringValue: "doc.txt"}},
			payloadInsertedAt: {Kind: &qdrant.Value_IntegerValue{IntegerValue: insertedAt.UnixNano()}},
		})

	assert.Equal(t, core.ID(42), chunk.Id)
	assert.Equal(t, "some text", chunk.Text)
	assert.Equal(t, "doc.txt", chunk.SourceID)
	assert.Equal(t, []float32{0.1, 0.2}, chunk.Vector)
	assert.True(t, insertedAt.Equal(chunk.InsertedAt))
}

func TestRetrievedToChunk_MissingFields(t *testing.T) {
	chunk := retrievedToChunk(core.ID(7), nil, map[string]*qdrant.Value{})

	assert.Equal(t, core.ID(7), chunk.Id)
	assert.Empty(t, chunk.Text)
	assert.Empty(t, chunk.SourceID)
	assert.Nil(t, chunk.Vector)
	assert.True(t, chunk.InsertedAt.IsZero())
}
