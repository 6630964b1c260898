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


package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	capsule "github.com/poiesic/capsule"
	"github.com/poiesic/capsule/ai"
	"github.com/poiesic/capsule/content"
	"github.com/poiesic/capsule/core"
	"github.com/poiesic/capsule/reembed"
)

func main() {
	// Optional .env file for host/model/token settings
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "capsule",
		Usage: "Topic extraction and deduplication over a persistent vector store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to BadgerDB database directory",
				EnvVars:  []string{"CAPSULE_DB"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "OpenAI-compatible service host URL",
				EnvVars: []string{"CAPSULE_HOST"},
				Value:   "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"CAPSULE_EMBEDDING_MODEL"},
				Value:   "all-minilm",
			},
			&cli.StringFlag{
				Name:    "extractor-model",
				Usage:   "Topic extraction model name",
				EnvVars: []string{"CAPSULE_EXTRACTOR_MODEL"},
				Value:   "qwen2.5:3b",
			},
			&cli.StringFlag{
				Name:    "api-token",
				Usage:   "API token for the AI services",
				EnvVars: []string{"CAPSULE_API_TOKEN"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract candidate topics from text, a URL, or a PDF file",
				ArgsUsage: "<text | url | pdf path>",
				Action:    extractCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Input type: text, url, or pdf (pdf reads the argument as a file path)",
						Value:   "text",
					},
					&cli.BoolFlag{
						Name:  "store",
						Usage: "Store the extracted topics immediately instead of just printing them",
					},
				},
			},
			{
				Name:      "reject",
				Usage:     "Delete stored topics by exact name",
				ArgsUsage: "<name>...",
				Action:    rejectCommand,
			},
			{
				Name:      "ask",
				Usage:     "Find the stored topics most similar to a query",
				ArgsUsage: "<query>",
				Action:    askCommand,
			},
			{
				Name:   "list",
				Usage:  "List all stored topics, most recent first",
				Action: listCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate the embeddings of all stored topics",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*capsule.Engine, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithExtractorModel(c.String("extractor-model")),
		ai.WithAPIToken(c.String("api-token")),
	)

	engine, err := capsule.NewEngine(c.String("db"), capsule.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func extractCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("input argument is required")
	}

	input := strings.Join(c.Args().Slice(), " ")
	var inputType content.InputType
	switch c.String("type") {
	case "text":
		inputType = content.InputTypeText
	case "url":
		inputType = content.InputTypeURL
		input = c.Args().First()
	case "pdf":
		inputType = content.InputTypePDF
		raw, err := os.ReadFile(c.Args().First())
		if err != nil {
			return fmt.Errorf("failed to read pdf file: %w", err)
		}
		input = base64.StdEncoding.EncodeToString(raw)
	default:
		return fmt.Errorf("invalid input type %q: must be text, url, or pdf", c.String("type"))
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	result := engine.ProcessInput(ctx, inputType, input)
	if result.Status != capsule.StatusSuccess {
		return fmt.Errorf("extraction failed: %s", result.Message)
	}

	fmt.Fprintln(os.Stderr, result.Message)
	if !c.Bool("store") {
		return printJSON(result.Topics)
	}

	stored := engine.StoreSelectedTopics(ctx, result.Topics)
	for _, msg := range stored.FailedMessages {
		fmt.Fprintln(os.Stderr, msg)
	}
	fmt.Fprintf(os.Stderr, "stored %d of %d topics\n", len(stored.SuccessfulTopics), len(result.Topics))
	return printJSON(stored.SuccessfulTopics)
}

func rejectCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("at least one topic name is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result := engine.RejectTopics(context.Background(), c.Args().Slice())
	for _, msg := range result.SuccessfulMessages {
		fmt.Println(msg)
	}
	for _, msg := range result.FailedMessages {
		fmt.Fprintln(os.Stderr, msg)
	}
	if result.Status != capsule.StatusSuccess {
		return fmt.Errorf("some rejections failed")
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("query argument is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	hits, err := engine.QueryTopics(context.Background(), strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	for i, hit := range hits {
		fmt.Printf("%d. %s (similarity %.3f)\n", i+1, hit.Record.Topic.Name, hit.Score)
		printTopicDetail(&hit.Record.Topic)
	}
	if len(hits) == 0 {
		fmt.Println("no topics stored yet")
	}
	return nil
}

func listCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	records, err := engine.AllTopics(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list topics: %w", err)
	}

	for _, record := range records {
		fmt.Printf("%s  %s\n", record.StoredAt.Format(time.RFC3339), record.Topic.Name)
		printTopicDetail(&record.Topic)
	}
	fmt.Fprintf(os.Stderr, "%d topics stored\n", len(records))
	return nil
}

func reembedCommand(c *cli.Context) error {
	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	reembedder := engine.NewReembedder(config, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func printTopicDetail(topic *core.Topic) {
	fmt.Printf("   field: %s / %s | hotness: %s\n",
		topic.Attributes.Field, topic.Attributes.SubField, topic.Attributes.Hotness)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
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
