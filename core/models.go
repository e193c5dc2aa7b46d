package core

import (
	"encoding/binary"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the same ID, which keeps re-ingestion of an
// unchanged document set idempotent.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// AssessmentType identifies the kind of question being generated or scored.
// It selects both the generation prompt template and the judging strategy.
type AssessmentType string

const (
	TypeMCQ         AssessmentType = "mcq"
	TypeTrueFalse   AssessmentType = "true_false"
	TypeFillInBlank AssessmentType = "fill_in_blank"
	TypeShortAnswer AssessmentType = "short_answer"
	TypeLongAnswer  AssessmentType = "long_answer"
)

// AssessmentTypes lists every valid assessment type.
var AssessmentTypes = []AssessmentType{
	TypeMCQ,
	TypeTrueFalse,
	TypeFillInBlank,
	TypeShortAnswer,
	TypeLongAnswer,
}

// Valid reports whether t is one of the known assessment types.
func (t AssessmentType) Valid() bool {
	switch t {
	case TypeMCQ, TypeTrueFalse, TypeFillInBlank, TypeShortAnswer, TypeLongAnswer:
		return true
	}
	return false
}

// AnswerValue holds an answer that is either a single scalar value or an
// ordered sequence of per-slot values (fill-in-the-blank). The generative
// service and API clients produce both shapes, so the value is normalized
// into this tagged form instead of being carried around as untyped JSON.
type AnswerValue struct {
	// Slots holds the answer values in order. A scalar answer occupies a
	// single slot.
	Slots []string

	// Scalar reports whether the value was supplied as a single string
	// rather than an ordered sequence.
	Scalar bool
}

// ScalarAnswer creates an AnswerValue from a single string.
func ScalarAnswer(s string) AnswerValue {
	return AnswerValue{Slots: []string{s}, Scalar: true}
}

// SlotAnswer creates an AnswerValue from an ordered sequence of values.
func SlotAnswer(slots []string) AnswerValue {
	return AnswerValue{Slots: slots}
}

// IsZero reports whether the value carries no answer at all.
func (v AnswerValue) IsZero() bool {
	if len(v.Slots) == 0 {
		return true
	}
	if v.Scalar && strings.TrimSpace(v.Slots[0]) == "" {
		return true
	}
	return false
}

// String renders the value as a single string, joining slots with sep.
func (v AnswerValue) String(sep string) string {
	return strings.Join(v.Slots, sep)
}

// Split returns the per-slot values. A scalar value is split on sep so that a
// fill-in-the-blank correct answer like "Paris, London" yields its slots.
func (v AnswerValue) Split(sep string) []string {
	if !v.Scalar {
		return v.Slots
	}
	if len(v.Slots) == 0 {
		return nil
	}
	return strings.Split(v.Slots[0], sep)
}

// UnmarshalJSON accepts either a JSON string or a JSON array of strings.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = ScalarAnswer(s)
		return nil
	}
	var slots []string
	if err := json.Unmarshal(data, &slots); err != nil {
		return err
	}
	*v = SlotAnswer(slots)
	return nil
}

// MarshalJSON renders a scalar value as a string and a sequence as an array.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.Scalar {
		if len(v.Slots) == 0 {
			return json.Marshal("")
		}
		return json.Marshal(v.Slots[0])
	}
	if v.Slots == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(v.Slots)
}

// Correctness holds a scoring verdict whose shape mirrors the answer that was
// judged: a single boolean for scalar answers, one boolean per slot for
// fill-in-the-blank answers.
type Correctness struct {
	Slots  []bool
	Scalar bool
}

// ScalarCorrectness creates a single-value verdict.
func ScalarCorrectness(ok bool) Correctness {
	return Correctness{Slots: []bool{ok}, Scalar: true}
}

// SlotCorrectness creates a per-slot verdict.
func SlotCorrectness(slots []bool) Correctness {
	return Correctness{Slots: slots}
}

// All reports whether every slot was judged correct.
func (c Correctness) All() bool {
	if len(c.Slots) == 0 {
		return false
	}
	for _, ok := range c.Slots {
		if !ok {
			return false
		}
	}
	return true
}

// MarshalJSON renders a scalar verdict as a boolean and a per-slot verdict as
// an array of booleans.
func (c Correctness) MarshalJSON() ([]byte, error) {
	if c.Scalar {
		if len(c.Slots) == 0 {
			return json.Marshal(false)
		}
		return json.Marshal(c.Slots[0])
	}
	if c.Slots == nil {
		return json.Marshal([]bool{})
	}
	return json.Marshal(c.Slots)
}

// UnmarshalJSON accepts either a JSON boolean or a JSON array of booleans.
func (c *Correctness) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = ScalarCorrectness(b)
		return nil
	}
	var slots []bool
	if err := json.Unmarshal(data, &slots); err != nil {
		return err
	}
	*c = SlotCorrectness(slots)
	return nil
}

// GeneratedQuestion is a single question produced by the generation pipeline.
// It is immutable once produced; ownership passes to the caller.
type GeneratedQuestion struct {
	Text          string         `json:"text"`
	Type          AssessmentType `json:"type"`
	Options       []string       `json:"options,omitempty"` // mcq only, exactly 4 entries
	CorrectAnswer AnswerValue    `json:"correct_answer"`
}

// SubmittedAnswer is one answer being graded, supplied by the caller per
// scoring request.
type SubmittedAnswer struct {
	Type          AssessmentType `json:"type"`
	Text          string         `json:"text"`
	UserAnswer    AnswerValue    `json:"user_answer"`
	CorrectAnswer AnswerValue    `json:"correct_answer"`
}

// ScoreResult is the verdict for one SubmittedAnswer. Score is 0 or 1 for
// scalar answers, and the sum of per-slot 0/1 scores for fill-in-the-blank.
// It is produced exactly once per answer and never mutated afterwards.
type ScoreResult struct {
	Score         int         `json:"score"`
	IsCorrect     Correctness `json:"is_correct"`
	VerifiedByLLM bool        `json:"verified_by_llm"`
}

// DocumentChunk is a bounded-length slice of a source document's text, the
// unit of embedding and retrieval. The Vector field is populated by the
// ingestion pipeline before the chunk reaches a store.
type DocumentChunk struct {
	Id         ID
	Text       string
	SourceID   string
	Vector     []float32
	InsertedAt time.Time
}

// Assessment is a persisted generated assessment: the topic it was generated
// for, its type, and the questions produced.
type Assessment struct {
	Id         ID
	Topic      string
	Type       AssessmentType
	Questions  []GeneratedQuestion
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// ChunkMatch pairs a retrieved chunk with its similarity to the query
// vector. Similarity is cosine similarity in [-1, 1].
type ChunkMatch struct {
	Chunk      *DocumentChunk
	Similarity float32
}
