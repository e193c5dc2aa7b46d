package core

import (
	"encoding/json"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestAssessmentType_Valid(t *testing.T) {
	for _, at := range AssessmentTypes {
		if !at.Valid() {
			t.Errorf("expected %q to be valid", at)
		}
	}

	for _, invalid := range []AssessmentType{"", "essay", "MCQ", "true-false"} {
		if invalid.Valid() {
			t.Errorf("expected %q to be invalid", invalid)
		}
	}
}

func TestAnswerValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantScalar bool
		wantSlots  []string
		wantErr    bool
	}{
		{
			name:       "string value",
			input:      `"Paris"`,
			wantScalar: true,
			wantSlots:  []string{"Paris"},
		},
		{
			name:      "array value",
			input:     `["Paris", "London"]`,
			wantSlots: []string{"Paris", "London"},
		},
		{
			name:      "empty array",
			input:     `[]`,
			wantSlots: []string{},
		},
		{
			name:    "number is rejected",
			input:   `42`,
			wantErr: true,
		},
		{
			name:    "object is rejected",
			input:   `{"answer": "Paris"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v AnswerValue
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Scalar != tt.wantScalar {
				t.Errorf("Scalar = %v, want %v", v.Scalar, tt.wantScalar)
			}
			if len(v.Slots) != len(tt.wantSlots) {
				t.Fatalf("Slots = %v, want %v", v.Slots, tt.wantSlots)
			}
			for i := range tt.wantSlots {
				if v.Slots[i] != tt.wantSlots[i] {
					t.Errorf("Slots[%d] = %q, want %q", i, v.Slots[i], tt.wantSlots[i])
				}
			}
		})
	}
}

func TestAnswerValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value AnswerValue
		want  string
	}{
		{name: "scalar", value: ScalarAnswer("Paris"), want: `"Paris"`},
		{name: "slots", value: SlotAnswer([]string{"a", "b"}), want: `["a","b"]`},
		{name: "zero value", value: AnswerValue{}, want: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAnswerValue_Split(t *testing.T) {
	scalar := ScalarAnswer("Paris, London")
	slots := scalar.Split(", ")
	if len(slots) != 2 || slots[0] != "Paris" || slots[1] != "London" {
		t.Errorf("scalar split = %v, want [Paris London]", slots)
	}

	sequence := SlotAnswer([]string{"Paris, London"})
	slots = sequence.Split(", ")
	if len(slots) != 1 || slots[0] != "Paris, London" {
		t.Errorf("sequence split = %v, want the slots untouched", slots)
	}
}

func TestAnswerValue_IsZero(t *testing.T) {
	tests := []struct {
		name  string
		value AnswerValue
		want  bool
	}{
		{name: "empty", value: AnswerValue{}, want: true},
		{name: "blank scalar", value: ScalarAnswer("   "), want: true},
		{name: "scalar", value: ScalarAnswer("x"), want: false},
		{name: "slots", value: SlotAnswer([]string{"a"}), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCorrectness_JSON(t *testing.T) {
	scalar, err := json.Marshal(ScalarCorrectness(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(scalar) != "true" {
		t.Errorf("scalar = %s, want true", scalar)
	}

	slots, err := json.Marshal(SlotCorrectness([]bool{true, false}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(slots) != "[true,false]" {
		t.Errorf("slots = %s, want [true,false]", slots)
	}

	var c Correctness
	if err := json.Unmarshal([]byte("[true,false]"), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Scalar || len(c.Slots) != 2 {
		t.Errorf("round trip produced %+v", c)
	}
}

func TestCorrectness_All(t *testing.T) {
	if SlotCorrectness([]bool{true, false}).All() {
		t.Error("mixed slots should not be All()")
	}
	if !SlotCorrectness([]bool{true, true}).All() {
		t.Error("all-true slots should be All()")
	}
	if (Correctness{}).All() {
		t.Error("empty verdict should not be All()")
	}
}

func TestSubmittedAnswer_JSON(t *testing.T) {
	raw := `{
		"type": "fill_in_blank",
		"text": "_____ and _____ are European capitals.",
		"user_answer": ["Paris", "London"],
		"correct_answer": "Paris, London"
	}`

	var answer SubmittedAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.Type != TypeFillInBlank {
		t.Errorf("Type = %q", answer.Type)
	}
	if answer.UserAnswer.Scalar {
		t.Error("user_answer should be a sequence")
	}
	if !answer.CorrectAnswer.Scalar {
		t.Error("correct_answer should be scalar")
	}
}

func TestScoreResult_JSON(t *testing.T) {
	result := ScoreResult{
		Score:         1,
		IsCorrect:     SlotCorrectness([]bool{true, false}),
		VerifiedByLLM: false,
	}

	got, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"score":1,"is_correct":[true,false],"verified_by_llm":false}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
