package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "studykit.db", cfg.Storage.Path)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.ChatHost)
	assert.Equal(t, 15, cfg.AI.FlashcardCount)
	assert.Equal(t, 3, cfg.Queue.Workers)
	assert.Equal(t, time.Minute, cfg.Queue.StartWindow())
	assert.Equal(t, time.Hour, cfg.Queue.Retention())
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  path: /var/lib/studykit
ai:
  chat_model: llama3.1:8b
queue:
  workers: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/studykit", cfg.Storage.Path)
	assert.Equal(t, "llama3.1:8b", cfg.AI.ChatModel)
	assert.Equal(t, 5, cfg.Queue.Workers)
	// Untouched fields keep defaults
	assert.Equal(t, "embeddinggemma", cfg.AI.EmbeddingModel)
	assert.Equal(t, 10, cfg.AI.QuizCount)
	assert.Equal(t, 2*time.Second, cfg.Queue.BaseDelay())
}

func TestLoadEnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  chat_model: from-file\n"), 0o644))

	t.Setenv("STUDYKIT_CHAT_MODEL", "from-env")
	t.Setenv("STUDYKIT_WORKERS", "7")
	t.Setenv("STUDYKIT_TEMPERATURE", "0.2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AI.ChatModel)
	assert.Equal(t, 7, cfg.Queue.Workers)
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 1e-9)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
