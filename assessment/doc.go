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

// Package assessment generates typed assessment questions for a topic.
//
// The pipeline retrieves context from the chunk store by topic
// similarity, renders a type-specific prompt, invokes the generative
// model, and parses its loosely structured output into validated
// core.GeneratedQuestion values. Model output is untrusted: it may be
// wrapped in markdown fences, carry minor JSON defects, or be garbage,
// and the parser degrades to zero questions instead of failing the
// caller.
package assessment
