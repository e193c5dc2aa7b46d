// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// mcqOptionCount is the number of options a multiple choice question must carry.
const mcqOptionCount = 4

// ValidateQuestion validates a GeneratedQuestion according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Type must be a known AssessmentType
//   - CorrectAnswer must carry a value
//   - mcq questions must carry exactly four options
func ValidateQuestion(q *GeneratedQuestion) error {
	if q == nil {
		return fmt.Errorf("%w: question is nil", ErrInvalidQuestion)
	}
	if q.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, ErrEmptyText)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidQuestion, ErrInvalidAssessmentType, q.Type)
	}
	if q.CorrectAnswer.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, ErrMissingCorrectAnswer)
	}
	if q.Type == TypeMCQ {
		if len(q.Options) != mcqOptionCount {
			return fmt.Errorf("%w: %w: got %d", ErrInvalidQuestion, ErrInvalidOptionCount, len(q.Options))
		}
	}
	return nil
}

// Complete reports whether a SubmittedAnswer carries every field required for
// judging. Incomplete answers receive a deterministic zero score without an
// external call.
func (a *SubmittedAnswer) Complete() bool {
	if a == nil {
		return false
	}
	return a.Type.Valid() &&
		a.Text != "" &&
		!a.UserAnswer.IsZero() &&
		!a.CorrectAnswer.IsZero()
}

// ValidateAssessment validates a persisted Assessment.
func ValidateAssessment(a *Assessment) error {
	if a == nil {
		return fmt.Errorf("%w: assessment is nil", ErrInvalidAssessment)
	}
	if a.Topic == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAssessment, ErrEmptyTopic)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidAssessment, ErrInvalidAssessmentType, a.Type)
	}
	for i := range a.Questions {
		if err := ValidateQuestion(&a.Questions[i]); err != nil {
			return fmt.Errorf("%w: question %d: %w", ErrInvalidAssessment, i, err)
		}
	}
	return nil
}

// ValidateVectorDimension checks that vec has exactly the expected dimension.
func ValidateVectorDimension(vec []float32, dimension int) error {
	if len(vec) != dimension {
		return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(vec), dimension)
	}
	return nil
}
