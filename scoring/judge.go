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

package scoring

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/poiesic/assessly/ai"
	"github.com/poiesic/assessly/assessment"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/store"
)

const (
	// DefaultSlotSeparator splits a fill-in-the-blank answer into slots.
	DefaultSlotSeparator = ", "

	correctThreshold = 0.5
)

// Judge scores one submitted answer against its reference answer by
// asking the generative model for a correctness probability.
type Judge struct {
	generator     ai.Generator
	embedder      ai.Embedder
	chunks        store.ChunkRepository
	contextChunks int
	separator     string
	logger        *slog.Logger
}

// JudgeOption configures a Judge.
type JudgeOption func(*Judge)

// WithSlotSeparator overrides the separator used to split
// fill-in-the-blank answers into slots.
func WithSlotSeparator(separator string) JudgeOption {
	return func(j *Judge) {
		if separator != "" {
			j.separator = separator
		}
	}
}

// WithRetrieval makes the judge retrieve context for each question and
// include it in the judge prompt. Without it answers are judged on the
// reference answer alone.
func WithRetrieval(embedder ai.Embedder, chunks store.ChunkRepository, contextChunks int) JudgeOption {
	return func(j *Judge) {
		j.embedder = embedder
		j.chunks = chunks
		if contextChunks >= 1 {
			j.contextChunks = contextChunks
		}
	}
}

// NewJudge creates a judge backed by the given generator.
func NewJudge(generator ai.Generator, opts ...JudgeOption) *Judge {
	j := &Judge{
		generator:     generator,
		contextChunks: assessment.DefaultContextChunks,
		separator:     DefaultSlotSeparator,
		logger:        slog.Default().With("component", "judge"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Judge scores a single answer. It never returns an error: every failure
// mode degrades to a zero score with VerifiedByLLM=false, so one bad
// answer or one failed model call cannot poison a batch.
//
// Answers missing any required field short-circuit to a zero result
// without a model call. Fill-in-the-blank answers are judged slot by
// slot; a slot-count mismatch with the reference answer also
// short-circuits.
func (j *Judge) Judge(ctx context.Context, answer *core.SubmittedAnswer, topic string) *core.ScoreResult {
	if answer == nil || !answer.Complete() {
		return &core.ScoreResult{
			Score:         0,
			IsCorrect:     core.ScalarCorrectness(false),
			VerifiedByLLM: false,
		}
	}

	if answer.Type == core.TypeFillInBlank {
		return j.judgeSlots(ctx, answer, topic)
	}

	return j.judgeScalar(ctx, answer, topic)
}

func (j *Judge) judgeScalar(ctx context.Context, answer *core.SubmittedAnswer, topic string) *core.ScoreResult {
	contextText := j.retrieveContext(ctx, answer.Text)

	probability, ok := j.askModel(ctx, topic, answer.Type, answer.Text,
		answer.CorrectAnswer.String(j.separator),
		answer.UserAnswer.String(j.separator), contextText)
	if !ok {
		return &core.ScoreResult{
			Score:         0,
			IsCorrect:     core.ScalarCorrectness(false),
			VerifiedByLLM: false,
		}
	}

	correct := probability >= correctThreshold
	score := 0
	if correct {
		score = 1
	}
	return &core.ScoreResult{
		Score:         score,
		IsCorrect:     core.ScalarCorrectness(correct),
		VerifiedByLLM: true,
	}
}

func (j *Judge) judgeSlots(ctx context.Context, answer *core.SubmittedAnswer, topic string) *core.ScoreResult {
	correctSlots := answer.CorrectAnswer.Split(j.separator)
	userSlots := answer.UserAnswer.Split(j.separator)

	// A slot-count mismatch is decided without retrieval or model calls.
	if len(userSlots) != len(correctSlots) {
		return &core.ScoreResult{
			Score:         0,
			IsCorrect:     core.SlotCorrectness(make([]bool, len(correctSlots))),
			VerifiedByLLM: false,
		}
	}

	contextText := j.retrieveContext(ctx, answer.Text)

	score := 0
	slots := make([]bool, len(correctSlots))
	for i := range correctSlots {
		probability, ok := j.askModel(ctx, topic, answer.Type, answer.Text,
			correctSlots[i], userSlots[i], contextText)
		if !ok {
			continue
		}
		if probability >= correctThreshold {
			slots[i] = true
			score++
		}
	}

	result := core.SlotCorrectness(slots)
	return &core.ScoreResult{
		Score:         score,
		IsCorrect:     result,
		VerifiedByLLM: result.All(),
	}
}

// retrieveContext looks up context for the question when retrieval is
// configured. Failures degrade to an empty context; a judge call must
// never fail because retrieval did.
func (j *Judge) retrieveContext(ctx context.Context, questionText string) string {
	if j.chunks == nil || j.embedder == nil {
		return ""
	}

	vector, err := j.embedder.EmbedText(ctx, questionText)
	if err != nil {
		j.logger.Warn("context embedding failed", "err", err)
		return ""
	}

	matches, err := j.chunks.QuerySimilar(ctx, vector, j.contextChunks)
	if err != nil {
		j.logger.Warn("context query failed", "err", err)
		return ""
	}

	texts := make([]string, 0, len(matches))
	for _, match := range matches {
		texts = append(texts, match.Chunk.Text)
	}
	return strings.Join(texts, " ")
}

// askModel issues one judge call and parses the response as a
// probability. Returns ok=false on any failure.
func (j *Judge) askModel(ctx context.Context, topic string, questionType core.AssessmentType, questionText, correctAnswer, userAnswer, contextText string) (float64, bool) {
	prompt := assessment.BuildJudgePrompt(topic, questionType, questionText, correctAnswer, userAnswer, contextText)

	response, err := j.generator.Generate(ctx, prompt)
	if err != nil {
		j.logger.Warn("judge call failed", "err", err)
		return 0, false
	}

	probability, err := strconv.ParseFloat(strings.TrimSpace(response), 64)
	if err != nil {
		j.logger.Warn("judge response was not a number", "response", response)
		return 0, false
	}
	if probability < 0 || probability > 1 {
		j.logger.Warn("judge probability out of range", "probability", probability)
		return 0, false
	}

	return probability, true
}
