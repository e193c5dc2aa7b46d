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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/unidoc/unioffice/v2/common/license"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/assessly"
	"github.com/poiesic/assessly/ai"
	"github.com/poiesic/assessly/ai/googleai"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/ingestion"
	"github.com/poiesic/assessly/server"
	"github.com/poiesic/assessly/store/qdrant"
)

func main() {
	app := &cli.App{
		Name:  "assessly",
		Usage: "Retrieval-augmented assessment generation and scoring",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Address to serve HTTP on",
						Value: ":8080",
					},
					&cli.StringSliceFlag{
						Name:  "allow-origin",
						Usage: "CORS origin to allow (repeatable)",
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest documents into the retrieval store",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags:     serviceFlags(),
			},
			{
				Name:      "generate",
				Usage:     "Generate an assessment and print it as JSON",
				ArgsUsage: "TOPIC",
				Action:    generateCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "type",
						Usage: "Assessment type (mcq, true_false, fill_in_blank, short_answer, long_answer)",
						Value: "mcq",
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of questions to generate",
						Value: 5,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "generation-model",
			Usage: "Generation model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the model service",
			EnvVars: []string{"ASSESSLY_API_KEY"},
		},
		&cli.BoolFlag{
			Name:  "gemini",
			Usage: "Use the Gemini API instead of an OpenAI-compatible host",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding vector dimension",
			Value: ai.DefaultDimension,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent judge calls during scoring",
			Value: 10,
		},
		&cli.IntFlag{
			Name:  "context-chunks",
			Usage: "Retrieved chunks per generation prompt",
			Value: 3,
		},
		&cli.BoolFlag{
			Name:  "judge-context",
			Usage: "Retrieve context for judge prompts during scoring",
		},
		&cli.StringFlag{
			Name:  "qdrant",
			Usage: "Qdrant gRPC address; empty keeps chunks in BadgerDB",
		},
		&cli.StringFlag{
			Name:  "qdrant-collection",
			Usage: "Qdrant collection name",
			Value: qdrant.DefaultCollection,
		},
	}
}

func newService(ctx context.Context, c *cli.Context) (*assessly.Service, error) {
	opts := []assessly.ServiceOption{
		assessly.WithDimension(c.Int("dimension")),
		assessly.WithScoringWorkers(c.Int("workers")),
		assessly.WithContextChunks(c.Int("context-chunks")),
	}
	if c.Bool("judge-context") {
		opts = append(opts, assessly.WithJudgeContext())
	}

	if c.Bool("gemini") {
		provider, err := googleai.NewProvider(ctx,
			ai.WithAPIKey(c.String("api-key")),
			ai.WithGenerationModel(c.String("generation-model")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithDimension(c.Int("dimension")),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		opts = append(opts, assessly.WithProvider(provider))
	} else {
		opts = append(opts, assessly.WithAIOptions(
			ai.WithHost(c.String("host")),
			ai.WithGenerationModel(c.String("generation-model")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithAPIKey(c.String("api-key")),
		))
	}

	if addr := c.String("qdrant"); addr != "" {
		client, err := qdrant.Connect(ctx, addr, c.String("qdrant-collection"), c.Int("dimension"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
		}
		opts = append(opts, assessly.WithChunkRepository(qdrant.NewChunkRepository(client)))
	}

	return assessly.NewService(c.String("db"), opts...)
}

func serveCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := newService(ctx, c)
	if err != nil {
		return err
	}
	defer service.Close()

	srv := server.New(service, server.Config{
		AllowOrigins: c.StringSlice("allow-origin"),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(c.String("listen"))
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	ctx := context.Background()

	service, err := newService(ctx, c)
	if err != nil {
		return err
	}
	defer service.Close()

	files := make([]ingestion.File, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, ingestion.File{Name: path, Data: data})
	}

	report, err := service.IngestFiles(ctx, files)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d file(s), %d chunk(s)\n", len(report.ProcessedFiles), report.Chunks)
	for _, failure := range report.FailedFiles {
		fmt.Printf("Failed %s: %s\n", failure.Name, failure.Reason)
	}
	return nil
}

func generateCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one topic argument is required")
	}

	ctx := context.Background()

	service, err := newService(ctx, c)
	if err != nil {
		return err
	}
	defer service.Close()

	questions, err := service.GenerateAssessment(ctx,
		c.Args().First(),
		core.AssessmentType(c.String("type")),
		c.Int("count"))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(questions)
}

func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}

	// Office document loading needs a UniDoc key. Only metered keys are
	// supported; see https://cloud.unidoc.io.
	if key := os.Getenv("UNIDOC_LICENSE_API_KEY"); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			return fmt.Errorf("invalid UNIDOC_LICENSE_API_KEY: %w", err)
		}
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
