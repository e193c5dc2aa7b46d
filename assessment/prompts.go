package assessment

import (
	"fmt"
	"strings"

	"github.com/poiesic/assessly/core"
)

// promptTemplates maps each assessment type to its generation prompt.
// Placeholders are question count, topic, and retrieved context, in that
// order. The field names in the instructions must match the JSON tags on
// core.GeneratedQuestion, since the parser unmarshals directly into it.
var promptTemplates = map[core.AssessmentType]string{
	core.TypeMCQ: "Generate %d multiple choice questions about %s in JSON format. " +
		"Context: %s\n" +
		"Include 'text' field for questions, 'options' array with 4 choices, " +
		"and 'correct_answer' matching one option.",
	core.TypeTrueFalse: "Generate %d true/false questions about %s in JSON format. " +
		"Context: %s\n" +
		"Include 'text' field and 'correct_answer' field with 'True' or 'False'.",
	core.TypeFillInBlank: "Generate %d fill-in-the-blank questions about %s in JSON format. " +
		"Context: %s\n" +
		"Use 'text' field with '_____' for blanks and 'correct_answer' field.",
	core.TypeShortAnswer: "Generate %d short answer questions about %s in JSON format. " +
		"Context: %s\n" +
		"Include 'text' field and 'correct_answer' field with brief answers.",
	core.TypeLongAnswer: "Generate %d long answer questions about %s in JSON format. " +
		"Context: %s\n" +
		"Include 'text' field and 'correct_answer' field with detailed answers.",
}

// BuildGenerationPrompt renders the generation prompt for the given
// assessment type. Returns ErrUnsupportedType for types without a template.
func BuildGenerationPrompt(assessmentType core.AssessmentType, questionCount int, topic, contextText string) (string, error) {
	if questionCount <= 0 {
		return "", ErrNoQuestionCount
	}
	template, ok := promptTemplates[assessmentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, assessmentType)
	}
	return fmt.Sprintf(template, questionCount, topic, contextText), nil
}

// BuildJudgePrompt renders the prompt that asks the model to grade one
// answer against its reference. An empty context leaves the prompt
// unchanged. The closing instruction pins the response format to a bare
// number so the caller can parse it with strconv; its wording is a
// contract with the judge's parser.
func BuildJudgePrompt(topic string, questionType core.AssessmentType, questionText, correctAnswer, userAnswer, contextText string) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Evaluate the following answer's correctness:\n"+
			"Topic: %s\n"+
			"Question Type: %s\n"+
			"Question: %s\n"+
			"Correct Answer: %s\n"+
			"User's Answer: %s\n",
		topic, questionType, questionText, correctAnswer, userAnswer)
	if contextText != "" {
		fmt.Fprintf(&b, "Context: %s\n", contextText)
	}
	b.WriteString("Provide a probability score between 0 and 1. Return only the number.")
	return b.String()
}
