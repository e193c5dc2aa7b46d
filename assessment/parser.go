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

package assessment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/assessly/core"
)

var (
	// Missing opening quote before an object key: `, text":` -> `, "text":`
	unquotedKeyRe = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_ ]*)":`)

	// Trailing comma before a closing bracket or brace.
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// ParseQuestions turns raw model output into typed questions.
//
// The text is unwrapped from a markdown code fence if one is present,
// run through lightweight JSON repair, and parsed as an array of question
// objects. Every parsed question is tagged with the request's assessment
// type, overriding whatever type field the model emitted. Objects that
// fail validation are dropped rather than trusted.
//
// On parse failure the returned slice is empty and the error wraps
// ErrMalformedResponse; an empty JSON array is valid output and returns
// no error.
func ParseQuestions(raw string, assessmentType core.AssessmentType) ([]core.GeneratedQuestion, error) {
	text := stripFence(strings.TrimSpace(raw))
	text = repairJSON(text)

	var parsed []core.GeneratedQuestion
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return []core.GeneratedQuestion{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	questions := make([]core.GeneratedQuestion, 0, len(parsed))
	for i := range parsed {
		// The request's type is authoritative
		parsed[i].Type = assessmentType
		if err := core.ValidateQuestion(&parsed[i]); err != nil {
			slog.Warn("dropping invalid generated question", "index", i, "err", err)
			continue
		}
		questions = append(questions, parsed[i])
	}

	return questions, nil
}

// stripFence unwraps a markdown code fence, with or without a language
// tag. Text without both an opening and closing fence passes through
// unchanged.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}
	inner := strings.TrimPrefix(text, "```")
	inner = strings.TrimSuffix(inner, "```")

	// Drop a language tag on the opening fence line, e.g. ```json
	if newline := strings.IndexByte(inner, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(inner[:newline])
		if firstLine == "json" {
			inner = inner[newline+1:]
		}
	} else {
		inner = strings.TrimPrefix(inner, "json")
	}

	return strings.TrimSpace(inner)
}

// repairJSON fixes common formatting defects in model-emitted JSON:
// missing opening quotes on object keys and trailing commas.
func repairJSON(s string) string {
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2":`)
	s = trailingCommaRe.ReplaceAllString(s, `$1`)
	return s
}
