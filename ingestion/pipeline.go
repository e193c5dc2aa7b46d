// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/assessly/ai"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/store"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is how many characters adjacent chunks share.
	DefaultChunkOverlap = 200

	// DefaultBatchSize bounds how many chunks go into one upsert, so a
	// failing batch can be retried without re-embedding everything.
	DefaultBatchSize = 100

	embedMaxAttempts = 3
	embedBaseDelay   = time.Second
)

// Pipeline chunks documents, embeds the chunks, and upserts them into
// the chunk repository. Chunk IDs are derived from source and content,
// so re-ingesting the same documents is idempotent.
type Pipeline struct {
	chunks    store.ChunkRepository
	embedder  ai.Embedder
	splitter  textsplitter.RecursiveCharacter
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunking sets the splitter's chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = DefaultChunkSize
		}
		if overlap < 0 || overlap >= size {
			overlap = DefaultChunkOverlap
		}
		p.splitter = textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		)
		return nil
	}
}

// WithBatchSize sets the upsert batch size.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size >= 1 {
			p.batchSize = size
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(chunks store.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		chunks:   chunks,
		embedder: embedder,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(DefaultChunkSize),
			textsplitter.WithChunkOverlap(DefaultChunkOverlap),
		),
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// FileFailure records why one file could not be ingested.
type FileFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report summarizes an ingestion batch.
type Report struct {
	ProcessedFiles []string      `json:"processed_files"`
	FailedFiles    []FileFailure `json:"failed_files"`
	Chunks         int           `json:"chunks"`
}

// IngestFiles loads, chunks, embeds, and stores a batch of uploaded
// files. Per-file failures (unsupported format, extraction errors,
// embedding errors) are reported in the result and do not abort the
// batch; the returned error is reserved for batch-level problems.
func (p *Pipeline) IngestFiles(ctx context.Context, files []File) (*Report, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	report := &Report{}
	for _, file := range files {
		count, err := p.ingestFile(ctx, file)
		if err != nil {
			p.logger.Warn("file ingestion failed", "file", file.Name, "err", err)
			report.FailedFiles = append(report.FailedFiles, FileFailure{
				Name:   file.Name,
				Reason: err.Error(),
			})
			continue
		}
		report.ProcessedFiles = append(report.ProcessedFiles, file.Name)
		report.Chunks += count
	}

	p.logger.Info("ingestion batch complete",
		"processed", len(report.ProcessedFiles),
		"failed", len(report.FailedFiles),
		"chunks", report.Chunks)

	return report, nil
}

func (p *Pipeline) ingestFile(ctx context.Context, file File) (int, error) {
	docs, err := LoadDocuments(ctx, file)
	if err != nil {
		return 0, err
	}

	split, err := textsplitter.SplitDocuments(p.splitter, docs)
	if err != nil {
		return 0, err
	}

	texts := make([]string, 0, len(split))
	for _, doc := range split {
		if doc.PageContent != "" {
			texts = append(texts, doc.PageContent)
		}
	}

	return len(texts), p.IngestText(ctx, file.Name, texts...)
}

// IngestText embeds pre-chunked texts and upserts them under the given
// source ID. Chunk IDs are content-derived: the same (source, text) pair
// always maps to the same ID.
func (p *Pipeline) IngestText(ctx context.Context, sourceID string, texts ...string) error {
	if len(texts) == 0 {
		return nil
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = p.embedder.EmbedTexts(ctx, texts)
		return err
	}, embedMaxAttempts, embedBaseDelay)
	if err != nil {
		return err
	}

	chunks := make([]*core.DocumentChunk, len(texts))
	for i, text := range texts {
		chunks[i] = &core.DocumentChunk{
			Id:       core.IDFromContent(sourceID + "\x00" + text),
			Text:     text,
			SourceID: sourceID,
			Vector:   vectors[i],
		}
	}

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := p.chunks.UpsertChunks(ctx, chunks[start:end]...); err != nil {
			return err
		}
	}

	return nil
}

// SplitText exposes the pipeline's chunking for callers that ingest raw
// strings instead of files.
func (p *Pipeline) SplitText(text string) ([]string, error) {
	return p.splitter.SplitText(text)
}
