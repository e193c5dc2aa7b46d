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

package openai

import (
	"log/slog"

	"github.com/poiesic/assessly/ai"
)

// Provider bundles a generator and embedder backed by the same
// OpenAI-compatible endpoint configuration.
type Provider struct {
	generator *Generator
	embedder  *Embedder
	logger    *slog.Logger
}

// NewProvider creates a provider from the given configuration options.
func NewProvider(opts ...ai.ConfigOption) (*Provider, error) {
	config := ai.NewConfig(opts...)
	config.Normalize()

	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		generator: generator,
		embedder:  embedder,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Generator returns the text generation client.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Embedder returns the embedding client.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close releases provider resources. The underlying HTTP clients hold no
// persistent connections, so this is currently a no-op.
func (p *Provider) Close() error {
	return nil
}
