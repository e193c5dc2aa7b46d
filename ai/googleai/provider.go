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

package googleai

import (
	"context"
	"log/slog"

	"github.com/poiesic/assessly/ai"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Provider bundles a generator and embedder backed by the Gemini API.
// Both share a single underlying client.
type Provider struct {
	generator *Generator
	embedder  *Embedder
	client    *googleai.GoogleAI
	logger    *slog.Logger
}

// NewProvider creates a Gemini-backed provider. The API key is required;
// host options are ignored since the Gemini endpoint is fixed.
func NewProvider(ctx context.Context, opts ...ai.ConfigOption) (*Provider, error) {
	config := ai.NewConfig(opts...)

	if config.APIKey == "" {
		return nil, ai.ErrUnavailable
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.GenerationModel),
		googleai.WithDefaultEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	generator := newGenerator(client)

	embedder, err := newEmbedder(client, config.Dimension)
	if err != nil {
		return nil, err
	}

	return &Provider{
		generator: generator,
		embedder:  embedder,
		client:    client,
		logger:    slog.Default().With("component", "googleai-provider"),
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

// Close releases provider resources.
func (p *Provider) Close() error {
	return nil
}
