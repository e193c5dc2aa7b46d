package assessment

import (
	"testing"

	"github.com/poiesic/assessly/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mcqJSON = `[
	{
		"text": "What is the capital of France?",
		"options": ["Paris", "London", "Berlin", "Madrid"],
		"correct_answer": "Paris"
	},
	{
		"text": "What is the capital of Spain?",
		"options": ["Paris", "London", "Berlin", "Madrid"],
		"correct_answer": "Madrid"
	}
]`

func TestParseQuestions_PlainJSON(t *testing.T) {
	questions, err := ParseQuestions(mcqJSON, core.TypeMCQ)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "What is the capital of France?", questions[0].Text)
	assert.Equal(t, core.TypeMCQ, questions[0].Type)
	assert.Equal(t, []string{"Paris", "London", "Berlin", "Madrid"}, questions[0].Options)
	assert.Equal(t, "Paris", questions[0].CorrectAnswer.String(", "))
}

func TestParseQuestions_FencedEqualsUnfenced(t *testing.T) {
	plain, err := ParseQuestions(mcqJSON, core.TypeMCQ)
	require.NoError(t, err)

	for _, fenced := range []string{
		"```\n" + mcqJSON + "\n```",
		"```json\n" + mcqJSON + "\n```",
	} {
		got, err := ParseQuestions(fenced, core.TypeMCQ)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestParseQuestions_TypeOverride(t *testing.T) {
	// The model labels its own output; the request wins
	raw := `[{"text": "The sky is blue.", "type": "mcq", "correct_answer": "True"}]`

	questions, err := ParseQuestions(raw, core.TypeTrueFalse)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, core.TypeTrueFalse, questions[0].Type)
}

func TestParseQuestions_EmptyArray(t *testing.T) {
	questions, err := ParseQuestions("[]", core.TypeShortAnswer)
	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestParseQuestions_Malformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"I cannot answer that.",
		`{"text": "not an array"}`,
		"```json\nnot json\n```",
	} {
		questions, err := ParseQuestions(raw, core.TypeShortAnswer)
		assert.ErrorIs(t, err, ErrMalformedResponse, "input %q", raw)
		assert.NotNil(t, questions, "input %q", raw)
		assert.Empty(t, questions, "input %q", raw)
	}
}

func TestParseQuestions_RepairsUnquotedKeys(t *testing.T) {
	raw := `[{text": "Name the largest ocean.", correct_answer": "Pacific"}]`

	questions, err := ParseQuestions(raw, core.TypeShortAnswer)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Name the largest ocean.", questions[0].Text)
	assert.Equal(t, "Pacific", questions[0].CorrectAnswer.String(", "))
}

func TestParseQuestions_RepairsTrailingCommas(t *testing.T) {
	raw := `[{"text": "Name the largest ocean.", "correct_answer": "Pacific",},]`

	questions, err := ParseQuestions(raw, core.TypeShortAnswer)
	require.NoError(t, err)
	require.Len(t, questions, 1)
}

func TestParseQuestions_DropsInvalidObjects(t *testing.T) {
	// Second object has three options instead of four
	raw := `[
		{"text": "Q1", "options": ["a", "b", "c", "d"], "correct_answer": "a"},
		{"text": "Q2", "options": ["a", "b", "c"], "correct_answer": "a"},
		{"text": "", "options": ["a", "b", "c", "d"], "correct_answer": "a"}
	]`

	questions, err := ParseQuestions(raw, core.TypeMCQ)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Q1", questions[0].Text)
}

func TestStripFence_PassThrough(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fence", in: "[]", want: "[]"},
		{name: "opening only", in: "```json\n[]", want: "```json\n[]"},
		{name: "closing only", in: "[]\n```", want: "[]\n```"},
		{name: "single line with tag", in: "```json[]```", want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFence(tt.in))
		})
	}
}
