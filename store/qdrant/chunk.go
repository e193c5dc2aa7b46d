package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/store"
	"github.com/qdrant/go-client/qdrant"
)

// Payload field names stored alongside each point.
const (
	payloadText       = "text"
	payloadSourceID   = "source_id"
	payloadInsertedAt = "inserted_at"
)

// ChunkRepository implements store.ChunkRepository on a Qdrant collection.
type ChunkRepository struct {
	client *Client
}

var _ store.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a chunk repository over an existing client.
func NewChunkRepository(client *Client) *ChunkRepository {
	return &ChunkRepository{client: client}
}

// Close closes the underlying connection.
func (r *ChunkRepository) Close() error {
	return r.client.Close()
}

// WithTransaction executes fn directly. Qdrant has no multi-operation
// transactions; individual upserts are atomic per request.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// UpsertChunks writes chunks as points keyed by their content-derived IDs.
func (r *ChunkRepository) UpsertChunks(ctx context.Context, chunks ...*core.DocumentChunk) error {
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		if err := core.ValidateVectorDimension(chunk.Vector, r.client.dimension); err != nil {
			return err
		}
		if chunk.InsertedAt.IsZero() {
			chunk.InsertedAt = time.Now().UTC()
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(chunk.Id)),
			Vectors: qdrant.NewVectors(chunk.Vector...),
			Payload: map[string]*qdrant.Value{
				payloadText:       {Kind: &qdrant.Value_StringValue{StringValue: chunk.Text}},
				payloadSourceID:   {Kind: &qdrant.Value_StringValue{StringValue: chunk.SourceID}},
				payloadInsertedAt: {Kind: &qdrant.Value_IntegerValue{IntegerValue: chunk.InsertedAt.UnixNano()}},
			},
		}
	}

	upsert, err := r.client.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.client.collection,
		Points:         points,
	})
	if err != nil {
		return err
	}

	result := upsert.GetResult().GetStatus()
	if result != qdrant.UpdateStatus_Acknowledged && result != qdrant.UpdateStatus_Completed {
		return fmt.Errorf("upsert rejected with status %d", result)
	}
	return nil
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.DocumentChunk, error) {
	resp, err := r.client.points.Get(ctx, &qdrant.GetPoints{
		CollectionName: r.client.collection,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(uint64(id))},
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
		WithVectors:    &qdrant.WithVectorsSelector{SelectorOptions: &qdrant.WithVectorsSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, err
	}

	result := resp.GetResult()
	if len(result) == 0 {
		return nil, store.ErrNotFound
	}

	return retrievedToChunk(id, result[0].GetVectors(), result[0].GetPayload()), nil
}

// DeleteChunks removes chunks by their IDs. Missing IDs are not reported;
// Qdrant deletes are idempotent.
func (r *ChunkRepository) DeleteChunks(ctx context.Context, ids ...core.ID) error {
	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDNum(uint64(id))
	}

	_, err := r.client.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: r.client.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
	})
	return err
}

// QuerySimilar finds the chunks most similar to the given vector.
func (r *ChunkRepository) QuerySimilar(ctx context.Context, vector []float32, limit int) ([]*core.ChunkMatch, error) {
	if limit <= 0 {
		return nil, store.ErrInvalidQuery
	}
	if err := core.ValidateVectorDimension(vector, r.client.dimension); err != nil {
		return nil, err
	}

	resp, err := r.client.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: r.client.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
		WithVectors:    &qdrant.WithVectorsSelector{SelectorOptions: &qdrant.WithVectorsSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, err
	}

	matches := make([]*core.ChunkMatch, 0, len(resp.GetResult()))
	for _, scored := range resp.GetResult() {
		id := core.ID(scored.GetId().GetNum())
		matches = append(matches, &core.ChunkMatch{
			Chunk:      retrievedToChunk(id, scored.GetVectors(), scored.GetPayload()),
			Similarity: scored.GetScore(),
		})
	}
	return matches, nil
}

// CountChunks returns the exact number of points in the collection.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	exact := true
	resp, err := r.client.points.Count(ctx, &qdrant.CountPoints{
		CollectionName: r.client.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, err
	}
	return int(resp.GetResult().GetCount()), nil
}

func retrievedToChunk(id core.ID, vectors *qdrant.VectorsOutput, payload map[string]*qdrant.Value) *core.DocumentChunk {
	chunk := &core.DocumentChunk{Id: id}
	if vectors != nil {
		chunk.Vector = vectors.GetVector().GetData()
	}
	if val, ok := payload[payloadText]; ok {
		chunk.Text = val.GetStringValue()
	}
	if val, ok := payload[payloadSourceID]; ok {
		chunk.SourceID = val.GetStringValue()
	}
	if val, ok := payload[payloadInsertedAt]; ok {
		chunk.InsertedAt = time.Unix(0, val.GetIntegerValue()).UTC()
	}
	return chunk
}
