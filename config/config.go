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

// Package config loads the application configuration from a YAML file with
// environment variable overrides. Missing files yield defaults, so a bare
// binary runs against local services without any setup.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// StorageConfig configures the BadgerDB backend.
type StorageConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// BlobConfig configures where document sources are read from.
type BlobConfig struct {
	Root string `yaml:"root"`
}

// AIConfig configures the OpenAI-compatible model services.
type AIConfig struct {
	EmbeddingHost  string  `yaml:"embedding_host"`
	ChatHost       string  `yaml:"chat_host"`
	EmbeddingModel string  `yaml:"embedding_model"`
	ChatModel      string  `yaml:"chat_model"`
	Temperature    float64 `yaml:"temperature"`
	FlashcardCount int     `yaml:"flashcard_count"`
	QuizCount      int     `yaml:"quiz_count"`
}

// QueueConfig configures the processing job queue.
type QueueConfig struct {
	Workers         int `yaml:"workers"`
	MaxAttempts     int `yaml:"max_attempts"`
	BaseDelaySecs   int `yaml:"base_delay_secs"`
	StartLimit      int `yaml:"start_limit"`
	StartWindowSecs int `yaml:"start_window_secs"`
	RetentionSecs   int `yaml:"retention_secs"`
}

// CaptionConfig configures the transcript caption service.
type CaptionConfig struct {
	BaseURL string `yaml:"base_url"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage  StorageConfig `yaml:"storage"`
	Blobs    BlobConfig    `yaml:"blobs"`
	AI       AIConfig      `yaml:"ai"`
	Queue    QueueConfig   `yaml:"queue"`
	Captions CaptionConfig `yaml:"captions"`
}

// BaseDelay returns the queue retry base delay as a duration.
func (q QueueConfig) BaseDelay() time.Duration {
	return time.Duration(q.BaseDelaySecs) * time.Second
}

// StartWindow returns the rate-limit window as a duration.
func (q QueueConfig) StartWindow() time.Duration {
	return time.Duration(q.StartWindowSecs) * time.Second
}

// Retention returns the finished-job retention as a duration.
func (q QueueConfig) Retention() time.Duration {
	return time.Duration(q.RetentionSecs) * time.Second
}

// Load reads a config from the given path. If the file does not exist,
// returns defaults. Environment overrides apply either way.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		applyConfigDefaults(cfg)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{Path: "studykit.db"},
		Blobs:   BlobConfig{Root: "materials"},
		AI: AIConfig{
			EmbeddingHost:  "http://localhost:11434/v1",
			ChatHost:       "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
			ChatModel:      "qwen2.5:3b",
			Temperature:    0.7,
			FlashcardCount: 15,
			QuizCount:      10,
		},
		Queue: QueueConfig{
			Workers:         3,
			MaxAttempts:     3,
			BaseDelaySecs:   2,
			StartLimit:      10,
			StartWindowSecs: 60,
			RetentionSecs:   3600,
		},
	}
}

// applyConfigDefaults fills fields a partial file left zero.
func applyConfigDefaults(cfg *AppConfig) {
	defaults := defaultConfig()
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaults.Storage.Path
	}
	if cfg.Blobs.Root == "" {
		cfg.Blobs.Root = defaults.Blobs.Root
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = defaults.AI.EmbeddingHost
	}
	if cfg.AI.ChatHost == "" {
		cfg.AI.ChatHost = defaults.AI.ChatHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = defaults.AI.EmbeddingModel
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = defaults.AI.ChatModel
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = defaults.AI.Temperature
	}
	if cfg.AI.FlashcardCount == 0 {
		cfg.AI.FlashcardCount = defaults.AI.FlashcardCount
	}
	if cfg.AI.QuizCount == 0 {
		cfg.AI.QuizCount = defaults.AI.QuizCount
	}
	if cfg.Queue.Workers == 0 {
		cfg.Queue.Workers = defaults.Queue.Workers
	}
	if cfg.Queue.MaxAttempts == 0 {
		cfg.Queue.MaxAttempts = defaults.Queue.MaxAttempts
	}
	if cfg.Queue.BaseDelaySecs == 0 {
		cfg.Queue.BaseDelaySecs = defaults.Queue.BaseDelaySecs
	}
	if cfg.Queue.StartLimit == 0 {
		cfg.Queue.StartLimit = defaults.Queue.StartLimit
	}
	if cfg.Queue.StartWindowSecs == 0 {
		cfg.Queue.StartWindowSecs = defaults.Queue.StartWindowSecs
	}
	if cfg.Queue.RetentionSecs == 0 {
		cfg.Queue.RetentionSecs = defaults.Queue.RetentionSecs
	}
}

// applyEnvOverrides lets the environment win over the file, matching how
// the deployment passes service endpoints around.
func applyEnvOverrides(cfg *AppConfig) {
	setString := func(target *string, key string) {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}
	setString(&cfg.Storage.Path, "STUDYKIT_DB_PATH")
	setString(&cfg.Blobs.Root, "STUDYKIT_BLOB_ROOT")
	setString(&cfg.AI.EmbeddingHost, "STUDYKIT_EMBEDDING_HOST")
	setString(&cfg.AI.ChatHost, "STUDYKIT_CHAT_HOST")
	setString(&cfg.AI.EmbeddingModel, "STUDYKIT_EMBEDDING_MODEL")
	setString(&cfg.AI.ChatModel, "STUDYKIT_CHAT_MODEL")
	setString(&cfg.Captions.BaseURL, "STUDYKIT_CAPTION_URL")

	if value := os.Getenv("STUDYKIT_TEMPERATURE"); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			cfg.AI.Temperature = parsed
		}
	}
	if value := os.Getenv("STUDYKIT_WORKERS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			cfg.Queue.Workers = parsed
		}
	}
}
