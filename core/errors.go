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

import "errors"

// Domain validation errors
var (
	// ErrInvalidQuestion indicates a GeneratedQuestion failed validation.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrInvalidAnswer indicates a SubmittedAnswer failed validation.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrInvalidAssessment indicates an Assessment failed validation.
	ErrInvalidAssessment = errors.New("invalid assessment")

	// ErrEmptyTopic indicates a topic string is empty.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrEmptyText indicates a question text is empty.
	ErrEmptyText = errors.New("question text cannot be empty")

	// ErrInvalidAssessmentType indicates an unknown AssessmentType value.
	ErrInvalidAssessmentType = errors.New("invalid assessment type")

	// ErrMissingCorrectAnswer indicates a question carries no correct answer.
	ErrMissingCorrectAnswer = errors.New("correct answer cannot be empty")

	// ErrInvalidOptionCount indicates an mcq question without exactly four options.
	ErrInvalidOptionCount = errors.New("mcq questions require exactly four options")

	// ErrDimensionMismatch indicates an embedding vector whose length differs
	// from the configured fixed dimension. This is a hard failure and is never
	// silently coerced.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
