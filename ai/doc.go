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


// Package ai provides abstractions for the external AI services used in
// assessly.
//
// This package defines interfaces for text generation and text embedding.
// It follows the dependency inversion principle, allowing the assessment and
// scoring pipelines to depend on abstractions rather than concrete services.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Generator: produces raw text from a prompt (question generation, judging)
//   - Embedder: generates fixed-dimension vector embeddings from text
//   - Provider: aggregates both for convenient initialization
//
// All implementations must be safe for concurrent use. The scoring pipeline
// fans out many judge calls against one shared Generator, so per-call state
// must never leak between invocations.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs (Ollama, LocalAI, vLLM, OpenAI)
//   - ai/googleai: Google Gemini generation and embedding
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, googleai.NewProvider) return
// interface types to enforce abstraction. Mock constructors return concrete
// types so tests can inject behavior and assert call counts.
//
// # Dimension Invariant
//
// Every Embedder validates that each vector it returns has exactly the
// configured dimension (Config.Dimension). A mismatch is a hard failure,
// wrapped around core.ErrDimensionMismatch, and is never truncated or padded.
package ai
