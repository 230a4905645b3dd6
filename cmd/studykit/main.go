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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/studykit"
	"github.com/poiesic/studykit/ai"
	"github.com/poiesic/studykit/blob"
	"github.com/poiesic/studykit/config"
	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/queue"
	"github.com/poiesic/studykit/storage"
)

func main() {
	// Optional .env file for local development; absence is not an error.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "studykit",
		Usage: "Study material processing and tutoring backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "studykit.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest a document or video transcript and process it",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "owner",
						Aliases:  []string{"o"},
						Usage:    "Owner identifier for the material",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Blob reference for documents, video URL for transcripts",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Source kind (document, transcript)",
						Value: "document",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Material title (defaults to the source name)",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show processing status of a material or all of an owner's materials",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "id",
						Usage: "Material ID",
					},
					&cli.StringFlag{
						Name:    "owner",
						Aliases: []string{"o"},
						Usage:   "Owner identifier",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Print a generated artifact (summary, notes, flashcards, quiz)",
				ArgsUsage: "ARTIFACT",
				Action:    showCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Material ID",
						Required: true,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about a processed material",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Material ID",
						Required: true,
					},
				},
			},
			{
				Name:   "history",
				Usage:  "Show or clear a material's tutoring conversation",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Material ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Delete the conversation instead of printing it",
					},
				},
			},
			{
				Name:   "reprocess",
				Usage:  "Discard a material's artifacts and run the pipeline again",
				Action: reprocessCommand,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Material ID",
						Required: true,
					},
				},
			},
			{
				Name:   "run-worker",
				Usage:  "Process every pending material belonging to an owner",
				Action: runWorkerCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "owner",
						Aliases:  []string{"o"},
						Usage:    "Owner identifier",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDatabase loads the configuration and opens the database with the
// configured AI, blob, and caption settings.
func openDatabase(c *cli.Context) (*studykit.Database, *config.AppConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithChatHost(cfg.AI.ChatHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithChatModel(cfg.AI.ChatModel),
		ai.WithTemperature(cfg.AI.Temperature),
		ai.WithFlashcardCount(cfg.AI.FlashcardCount),
		ai.WithQuizCount(cfg.AI.QuizCount),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []studykit.DatabaseOption{
		studykit.WithAIConfig(aiConfig),
		studykit.WithBlobStore(blob.NewFSStore(cfg.Blobs.Root)),
	}
	if cfg.Captions.BaseURL != "" {
		opts = append(opts, studykit.WithCaptionBaseURL(cfg.Captions.BaseURL))
	}
	if cfg.Storage.InMemory {
		opts = append(opts, studykit.WithInMemoryStorage())
	}

	db, err := studykit.NewDatabase(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

func queueOptions(cfg *config.AppConfig) []queue.QueueOption {
	return []queue.QueueOption{
		queue.WithWorkers(cfg.Queue.Workers),
		queue.WithMaxAttempts(cfg.Queue.MaxAttempts),
		queue.WithBaseDelay(cfg.Queue.BaseDelay()),
		queue.WithStartLimit(cfg.Queue.StartLimit, cfg.Queue.StartWindow()),
		queue.WithRetention(cfg.Queue.Retention()),
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	kind, err := parseSourceKind(c.String("kind"))
	if err != nil {
		return err
	}

	source := c.String("source")
	title := c.String("title")
	if title == "" {
		title = path.Base(source)
	}

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	material := &core.Material{
		Owner:      c.String("owner"),
		SourceKind: kind,
		SourceRef:  source,
		Title:      title,
		State:      core.StateQueued,
	}

	added, err := db.MaterialRepository().AddMaterials(ctx, material)
	if err != nil {
		return fmt.Errorf("failed to add material: %w", err)
	}
	material = added[0]
	fmt.Fprintf(os.Stderr, "Material %d queued\n", material.Id)

	orchestrator, err := db.NewOrchestrator()
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	q, err := db.NewQueue(orchestrator, queueOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to create queue: %w", err)
	}
	defer q.Release()

	job, err := q.Enqueue(ctx, material.Id)
	if err != nil {
		return fmt.Errorf("failed to enqueue material: %w", err)
	}
	<-job.Done()

	material, err = db.MaterialRepository().GetMaterial(ctx, material.Id)
	if err != nil {
		return fmt.Errorf("failed to read material: %w", err)
	}
	printMaterial(os.Stdout, material)
	if material.State == core.StateFailed {
		return fmt.Errorf("processing failed: %s", material.ProcessingError)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Uint64("id")
	owner := c.String("owner")
	if id == 0 && owner == "" {
		return fmt.Errorf("either --id or --owner is required")
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if id != 0 {
		material, err := db.MaterialRepository().GetMaterial(ctx, core.ID(id))
		if err != nil {
			return fmt.Errorf("failed to read material: %w", err)
		}
		printMaterial(os.Stdout, material)
		return nil
	}

	materials, err := db.MaterialRepository().ListMaterialsByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to list materials: %w", err)
	}
	if len(materials) == 0 {
		fmt.Println("No materials found.")
		return nil
	}
	for _, material := range materials {
		fmt.Printf("%d\t%-16s %3d%%\t%s\n",
			material.Id, material.State, material.Progress, material.Title)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	ctx := context.Background()

	artifact := strings.ToLower(c.Args().First())
	if artifact == "" {
		artifact = "summary"
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	materialID := core.ID(c.Uint64("id"))
	artifacts := db.ArtifactRepository()

	switch artifact {
	case "summary":
		summary, err := artifacts.GetSummary(ctx, materialID)
		if err != nil {
			return describeArtifactError("summary", err)
		}
		fmt.Println(summary.Text)
	case "notes":
		notes, err := artifacts.GetNotes(ctx, materialID)
		if err != nil {
			return describeArtifactError("notes", err)
		}
		fmt.Println(notes.Text)
	case "flashcards":
		cards, err := artifacts.GetFlashcards(ctx, materialID)
		if err != nil {
			return describeArtifactError("flashcards", err)
		}
		for _, card := range cards {
			fmt.Printf("Q: %s\nA: %s\n\n", card.Question, card.Answer)
		}
	case "quiz":
		questions, err := artifacts.GetQuiz(ctx, materialID)
		if err != nil {
			return describeArtifactError("quiz", err)
		}
		for i, q := range questions {
			fmt.Printf("%d. %s\n   a) %s\n   b) %s\n   c) %s\n   d) %s\n   Answer: %s\n\n",
				i+1, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption)
		}
	default:
		return fmt.Errorf("unknown artifact %q: must be one of summary, notes, flashcards, quiz", artifact)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewRetrievalEngine()
	if err != nil {
		return fmt.Errorf("failed to create retrieval engine: %w", err)
	}

	answer, err := engine.Ask(ctx, core.ID(c.Uint64("id")), question)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}
	fmt.Println(answer)
	return nil
}

func historyCommand(c *cli.Context) error {
	ctx := context.Background()

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewRetrievalEngine()
	if err != nil {
		return fmt.Errorf("failed to create retrieval engine: %w", err)
	}

	materialID := core.ID(c.Uint64("id"))
	if c.Bool("clear") {
		if err := engine.ClearHistory(ctx, materialID); err != nil {
			return fmt.Errorf("failed to clear conversation: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Conversation cleared")
		return nil
	}

	turns, err := engine.History(ctx, materialID)
	if err != nil {
		return fmt.Errorf("failed to read conversation: %w", err)
	}
	if len(turns) == 0 {
		fmt.Println("No conversation yet.")
		return nil
	}
	for _, turn := range turns {
		role := "user"
		if turn.Role == core.TurnRoleAssistant {
			role = "assistant"
		}
		fmt.Printf("[%s] %s\n", role, turn.Content)
	}
	return nil
}

func reprocessCommand(c *cli.Context) error {
	ctx := context.Background()

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	orchestrator, err := db.NewOrchestrator()
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	materialID := core.ID(c.Uint64("id"))
	report, err := orchestrator.Reprocess(ctx, materialID)
	if err != nil {
		return fmt.Errorf("reprocessing failed: %w", err)
	}

	material, err := db.MaterialRepository().GetMaterial(ctx, materialID)
	if err != nil {
		return fmt.Errorf("failed to read material: %w", err)
	}
	printMaterial(os.Stdout, material)
	if report.FinalState == core.StateFailed {
		return fmt.Errorf("processing failed: %s", material.ProcessingError)
	}
	return nil
}

func runWorkerCommand(c *cli.Context) error {
	ctx := context.Background()

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	materials, err := db.MaterialRepository().ListMaterialsByOwner(ctx, c.String("owner"))
	if err != nil {
		return fmt.Errorf("failed to list materials: %w", err)
	}

	var pending []*core.Material
	for _, material := range materials {
		if !material.State.Terminal() {
			pending = append(pending, material)
		}
	}
	if len(pending) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to process")
		return nil
	}

	orchestrator, err := db.NewOrchestrator()
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	q, err := db.NewQueue(orchestrator, queueOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to create queue: %w", err)
	}
	defer q.Release()

	fmt.Fprintf(os.Stderr, "Processing %d materials with %d workers\n",
		len(pending), cfg.Queue.Workers)

	jobs := make([]*queue.Job, 0, len(pending))
	for _, material := range pending {
		job, err := q.Enqueue(ctx, material.Id)
		if err != nil {
			return fmt.Errorf("failed to enqueue material %d: %w", material.Id, err)
		}
		jobs = append(jobs, job)
	}

	failed := 0
	for _, job := range jobs {
		<-job.Done()
		status, err := q.Status(job.Id)
		if err != nil {
			continue
		}
		if status.State == queue.JobFailed {
			failed++
			fmt.Fprintf(os.Stderr, "Material %d failed after %d attempts: %s\n",
				status.MaterialId, status.Attempts, status.Error)
		} else {
			fmt.Fprintf(os.Stderr, "Material %d completed\n", status.MaterialId)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d materials failed", failed, len(jobs))
	}
	return nil
}

func parseSourceKind(kind string) (core.SourceKind, error) {
	switch strings.ToLower(kind) {
	case "document", "doc":
		return core.SourceKindDocument, nil
	case "transcript", "video":
		return core.SourceKindTranscript, nil
	default:
		return 0, fmt.Errorf("unknown source kind %q: must be document or transcript", kind)
	}
}

func printMaterial(w *os.File, material *core.Material) {
	fmt.Fprintf(w, "ID:       %d\n", material.Id)
	fmt.Fprintf(w, "Title:    %s\n", material.Title)
	fmt.Fprintf(w, "Owner:    %s\n", material.Owner)
	fmt.Fprintf(w, "State:    %s (%d%%)\n", material.State, material.Progress)
	if material.ProcessingError != "" {
		fmt.Fprintf(w, "Error:    %s\n", material.ProcessingError)
	}
}

func describeArtifactError(artifact string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no %s generated for this material", artifact)
	}
	return fmt.Errorf("failed to read %s: %w", artifact, err)
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
