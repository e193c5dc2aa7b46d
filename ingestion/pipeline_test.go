package ingestion

import (
	"context"
	"testing"

	"github.com/poiesic/assessly/ai/mock"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/store"
	"github.com/poiesic/assessly/store/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 8

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, store.ChunkRepository) {
	t.Helper()

	chunkRepo, _, backend, err := badger.NewMemoryRepositories(testDimension)
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	embedder.Dimension = testDimension

	pipeline, err := NewPipeline(chunkRepo, embedder, opts...)
	require.NoError(t, err)
	return pipeline, chunkRepo
}

func TestNewPipeline_RequiredArgs(t *testing.T) {
	_, err := NewPipeline(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	chunkRepo, _, backend, err := badger.NewMemoryRepositories(testDimension)
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewPipeline(chunkRepo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIngestText(t *testing.T) {
	pipeline, chunkRepo := newTestPipeline(t)
	ctx := context.Background()

	err := pipeline.IngestText(ctx, "notes.txt", "first chunk", "second chunk")
	require.NoError(t, err)

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	id := core.IDFromContent("notes.txt\x00first chunk")
	chunk, err := chunkRepo.GetChunk(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first chunk", chunk.Text)
	assert.Equal(t, "notes.txt", chunk.SourceID)
	assert.Len(t, chunk.Vector, testDimension)
}

func TestIngestText_Idempotent(t *testing.T) {
	pipeline, chunkRepo := newTestPipeline(t)
	ctx := context.Background()

	require.NoError(t, pipeline.IngestText(ctx, "notes.txt", "first chunk", "second chunk"))
	require.NoError(t, pipeline.IngestText(ctx, "notes.txt", "first chunk", "second chunk"))

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestText_SameTextDifferentSources(t *testing.T) {
	pipeline, chunkRepo := newTestPipeline(t)
	ctx := context.Background()

	require.NoError(t, pipeline.IngestText(ctx, "a.txt", "shared text"))
	require.NoError(t, pipeline.IngestText(ctx, "b.txt", "shared text"))

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestText_NoTexts(t *testing.T) {
	pipeline, chunkRepo := newTestPipeline(t)
	ctx := context.Background()

	require.NoError(t, pipeline.IngestText(ctx, "empty.txt"))

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngestText_DimensionMismatch(t *testing.T) {
	chunkRepo, _, backend, err := badger.NewMemoryRepositories(testDimension)
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 2} // wrong dimension
		}
		return vectors, nil
	}

	pipeline, err := NewPipeline(chunkRepo, embedder)
	require.NoError(t, err)

	err = pipeline.IngestText(context.Background(), "notes.txt", "some text")
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestIngestFiles(t *testing.T) {
	pipeline, chunkRepo := newTestPipeline(t)
	ctx := context.Background()

	report, err := pipeline.IngestFiles(ctx, []File{
		{Name: "notes.txt", ContentType: "text/plain", Data: []byte("Photosynthesis converts light into chemical energy.")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"notes.txt"}, report.ProcessedFiles)
	assert.Empty(t, report.FailedFiles)
	assert.Equal(t, 1, report.Chunks)

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestFiles_Empty(t *testing.T) {
	pipeline, _ := newTestPipeline(t)

	_, err := pipeline.IngestFiles(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestIngestFiles_UnsupportedFormatDoesNotAbortBatch(t *testing.T) {
	pipeline, chunkRepo := newTestPipeline(t)
	ctx := context.Background()

	report, err := pipeline.IngestFiles(ctx, []File{
		{Name: "image.png", ContentType: "image/png", Data: []byte{0x89, 0x50}},
		{Name: "notes.txt", ContentType: "text/plain", Data: []byte("Mitochondria produce ATP.")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"notes.txt"}, report.ProcessedFiles)
	require.Len(t, report.FailedFiles, 1)
	assert.Equal(t, "image.png", report.FailedFiles[0].Name)
	assert.NotEmpty(t, report.FailedFiles[0].Reason)

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestFiles_ChunksLongText(t *testing.T) {
	pipeline, chunkRepo := newTestPipeline(t, WithChunking(40, 10))
	ctx := context.Background()

	long := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump."

	report, err := pipeline.IngestFiles(ctx, []File{
		{Name: "pangrams.txt", ContentType: "text/plain", Data: []byte(long)},
	})
	require.NoError(t, err)
	assert.Greater(t, report.Chunks, 1)

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, report.Chunks, count)
}

func TestSplitText(t *testing.T) {
	pipeline, _ := newTestPipeline(t, WithChunking(20, 0))

	chunks, err := pipeline.SplitText("alpha beta gamma delta epsilon zeta eta theta")
	require.NoError(t, err)
	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
	}
}
