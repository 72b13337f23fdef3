package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "resume_screening", cfg.Database.DBName)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 2, cfg.Screening.Concurrency)
	assert.Equal(t, 20000, cfg.Screening.MaxPromptChars)
	assert.Equal(t, 10*time.Second, cfg.Worker.PollInterval)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SCREENING_CONCURRENCY", "5")
	t.Setenv("QDRANT_ENABLED", "false")
	t.Setenv("RETRY_INITIAL_DELAY", "500ms")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Screening.Concurrency)
	assert.False(t, cfg.Qdrant.Enabled)
	assert.Equal(t, 500*time.Millisecond, cfg.Screening.RetryInitialWait)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := Load()
	assert.Contains(t, cfg.GetDatabaseDSN(), "dbname=resume_screening")
	assert.Contains(t, cfg.GetDatabaseDSN(), "sslmode=disable")
}
