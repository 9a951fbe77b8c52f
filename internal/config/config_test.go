package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.Equal(t, "5678", cfg.TCPPort)
	assert.Equal(t, 100, cfg.HistorySize)
	assert.Equal(t, 1024, cfg.ReadBufferSize)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NEUROSYNC_HTTP_PORT", "9000")
	t.Setenv("NEUROSYNC_TCP_PORT", " 6789 ")
	t.Setenv("NEUROSYNC_HISTORY_SIZE", "50")
	t.Setenv("NEUROSYNC_IDLE_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "6789", cfg.TCPPort)
	assert.Equal(t, 50, cfg.HistorySize)
	assert.Equal(t, 5*time.Second, cfg.IdleTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("NEUROSYNC_HISTORY_SIZE", "-5")
	t.Setenv("NEUROSYNC_IDLE_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 100, cfg.HistorySize)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
}
