package scoring

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/assessly/core"
)

const (
	// DefaultWorkers bounds how many judge calls run concurrently,
	// independent of batch size.
	DefaultWorkers = 10
)

// Report aggregates the outcome of scoring a batch of answers.
// Results is index-aligned with the submitted answers.
type Report struct {
	TotalScore int                 `json:"total_score"`
	Results    []*core.ScoreResult `json:"results"`
}

// Scorer fans judge calls out over a bounded worker pool.
type Scorer struct {
	judge  *Judge
	pool   *ants.Pool
	logger *slog.Logger
}

// ScorerOption configures a Scorer.
type ScorerOption func(*scorerConfig)

type scorerConfig struct {
	workers int
}

// WithWorkers sets the worker pool size. Values below 1 keep the default.
func WithWorkers(workers int) ScorerOption {
	return func(c *scorerConfig) {
		if workers >= 1 {
			c.workers = workers
		}
	}
}

// NewScorer creates a scorer around the given judge.
func NewScorer(judge *Judge, opts ...ScorerOption) (*Scorer, error) {
	config := scorerConfig{workers: DefaultWorkers}
	for _, opt := range opts {
		opt(&config)
	}

	pool, err := ants.NewPool(config.workers)
	if err != nil {
		return nil, err
	}

	return &Scorer{
		judge:  judge,
		pool:   pool,
		logger: slog.Default().With("component", "scorer"),
	}, nil
}

// Release shuts down the worker pool.
func (s *Scorer) Release() {
	s.pool.Release()
}

// ScoreAll judges every answer concurrently and aggregates the results.
//
// The returned results are index-aligned with answers regardless of
// completion order, and always have the same length as the input: a
// failed or cancelled judge call produces a zero-scored result for its
// slot, never a shorter list. Cancelling ctx resolves in-flight calls as
// zero results rather than hanging the batch.
func (s *Scorer) ScoreAll(ctx context.Context, topic string, answers []*core.SubmittedAnswer) *Report {
	results := make([]*core.ScoreResult, len(answers))

	var wg sync.WaitGroup
	for i, answer := range answers {
		i, answer := i, answer
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			results[i] = s.judge.Judge(ctx, answer, topic)
		})
		if err != nil {
			wg.Done()
			s.logger.Error("failed to submit judge task", "index", i, "err", err)
			results[i] = &core.ScoreResult{
				Score:         0,
				IsCorrect:     core.ScalarCorrectness(false),
				VerifiedByLLM: false,
			}
		}
	}
	wg.Wait()

	total := 0
	for _, result := range results {
		total += result.Score
	}

	s.logger.Debug("scored batch",
		"answers", len(answers),
		"total_score", total)

	return &Report{
		TotalScore: total,
		Results:    results,
	}
}
