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

package assessly

import (
	"context"
	"log/slog"

	"github.com/poiesic/assessly/ai"
	"github.com/poiesic/assessly/ai/openai"
	"github.com/poiesic/assessly/assessment"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/ingestion"
	"github.com/poiesic/assessly/scoring"
	"github.com/poiesic/assessly/store"
	"github.com/poiesic/assessly/store/badger"
)

// Service wires the assessment pipeline together: AI provider, chunk and
// assessment storage, generation, scoring, and ingestion.
type Service struct {
	backend        *badger.Backend
	chunkRepo      store.ChunkRepository
	assessmentRepo store.AssessmentRepository
	provider       ai.Provider
	generator      *assessment.Generator
	scorer         *scoring.Scorer
	pipeline       *ingestion.Pipeline
	logger         *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiOpts        []ai.ConfigOption
	provider      ai.Provider
	chunkRepo     store.ChunkRepository
	dimension     int
	inMemory      bool
	workers       int
	contextChunks int
	slotSeparator string
	judgeContext  bool
}

// WithAIOptions passes configuration to the default OpenAI-compatible
// provider. Ignored when WithProvider is used.
func WithAIOptions(opts ...ai.ConfigOption) ServiceOption {
	return func(o *serviceOptions) {
		o.aiOpts = append(o.aiOpts, opts...)
	}
}

// WithProvider replaces the default provider, e.g. with the Gemini
// provider or a mock.
func WithProvider(provider ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithChunkRepository replaces the default BadgerDB chunk repository,
// e.g. with the Qdrant-backed one.
func WithChunkRepository(repo store.ChunkRepository) ServiceOption {
	return func(o *serviceOptions) {
		o.chunkRepo = repo
	}
}

// WithDimension sets the embedding dimension the storage layer enforces.
func WithDimension(dimension int) ServiceOption {
	return func(o *serviceOptions) {
		if dimension >= 1 {
			o.dimension = dimension
		}
	}
}

// WithInMemory opens the BadgerDB backend in memory. Used by tests and
// throwaway environments.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithScoringWorkers bounds concurrent judge calls.
func WithScoringWorkers(workers int) ServiceOption {
	return func(o *serviceOptions) {
		o.workers = workers
	}
}

// WithContextChunks sets how many retrieved chunks feed each generation
// prompt.
func WithContextChunks(k int) ServiceOption {
	return func(o *serviceOptions) {
		o.contextChunks = k
	}
}

// WithSlotSeparator overrides the fill-in-the-blank slot separator.
func WithSlotSeparator(separator string) ServiceOption {
	return func(o *serviceOptions) {
		o.slotSeparator = separator
	}
}

// WithJudgeContext makes scoring retrieve context for each judged
// question, the same way generation does.
func WithJudgeContext() ServiceOption {
	return func(o *serviceOptions) {
		o.judgeContext = true
	}
}

// NewService opens storage at filePath and assembles the pipeline.
func NewService(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		dimension:     ai.DefaultDimension,
		workers:       scoring.DefaultWorkers,
		contextChunks: assessment.DefaultContextChunks,
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		aiOpts := append([]ai.ConfigOption{ai.WithDimension(options.dimension)}, options.aiOpts...)
		var err error
		provider, err = openai.NewProvider(aiOpts...)
		if err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(filePath, options.dimension, options.inMemory)
	if err != nil {
		provider.Close()
		return nil, err
	}

	chunkRepo := options.chunkRepo
	if chunkRepo == nil {
		chunkRepo = badger.NewChunkRepository(backend)
	}

	assessmentRepo, err := badger.NewAssessmentRepository(backend)
	if err != nil {
		backend.Close()
		provider.Close()
		return nil, err
	}

	generator := assessment.NewGenerator(provider.Generator(), provider.Embedder(), chunkRepo,
		assessment.WithContextChunks(options.contextChunks))

	judgeOpts := []scoring.JudgeOption{scoring.WithSlotSeparator(options.slotSeparator)}
	if options.judgeContext {
		judgeOpts = append(judgeOpts,
			scoring.WithRetrieval(provider.Embedder(), chunkRepo, options.contextChunks))
	}
	judge := scoring.NewJudge(provider.Generator(), judgeOpts...)

	scorer, err := scoring.NewScorer(judge, scoring.WithWorkers(options.workers))
	if err != nil {
		assessmentRepo.Close()
		backend.Close()
		provider.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(chunkRepo, provider.Embedder())
	if err != nil {
		scorer.Release()
		assessmentRepo.Close()
		backend.Close()
		provider.Close()
		return nil, err
	}

	return &Service{
		backend:        backend,
		chunkRepo:      chunkRepo,
		assessmentRepo: assessmentRepo,
		provider:       provider,
		generator:      generator,
		scorer:         scorer,
		pipeline:       pipeline,
		logger:         slog.Default(),
	}, nil
}

// Close releases the pipeline's resources in dependency order.
func (s *Service) Close() error {
	s.scorer.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.assessmentRepo.Close(); err != nil {
		s.logger.Error("error closing assessment repository", "err", err)
		return err
	}
	if err := s.chunkRepo.Close(); err != nil {
		s.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// GenerateAssessment produces questions for a topic using retrieved
// context.
func (s *Service) GenerateAssessment(ctx context.Context, topic string, assessmentType core.AssessmentType, questionCount int) ([]core.GeneratedQuestion, error) {
	return s.generator.Generate(ctx, topic, assessmentType, questionCount)
}

// SaveAssessment persists a generated assessment.
func (s *Service) SaveAssessment(ctx context.Context, topic string, assessmentType core.AssessmentType, questions []core.GeneratedQuestion) (*core.Assessment, error) {
	a := &core.Assessment{
		Topic:     topic,
		Type:      assessmentType,
		Questions: questions,
	}
	saved, err := s.assessmentRepo.AddAssessments(ctx, a)
	if err != nil {
		return nil, err
	}
	return saved[0], nil
}

// GetAssessment retrieves a persisted assessment by ID.
func (s *Service) GetAssessment(ctx context.Context, id core.ID) (*core.Assessment, error) {
	return s.assessmentRepo.GetAssessment(ctx, id)
}

// RecentAssessments lists the most recently saved assessments.
func (s *Service) RecentAssessments(ctx context.Context, limit int) ([]*core.Assessment, error) {
	return s.assessmentRepo.GetRecentAssessments(ctx, limit)
}

// ScoreAnswers judges a batch of submitted answers concurrently.
func (s *Service) ScoreAnswers(ctx context.Context, topic string, answers []*core.SubmittedAnswer) *scoring.Report {
	return s.scorer.ScoreAll(ctx, topic, answers)
}

// IngestFiles chunks, embeds, and stores uploaded documents.
func (s *Service) IngestFiles(ctx context.Context, files []ingestion.File) (*ingestion.Report, error) {
	return s.pipeline.IngestFiles(ctx, files)
}

// ChunkRepository exposes the chunk store.
func (s *Service) ChunkRepository() store.ChunkRepository {
	return s.chunkRepo
}

// AssessmentRepository exposes the assessment store.
func (s *Service) AssessmentRepository() store.AssessmentRepository {
	return s.assessmentRepo
}
