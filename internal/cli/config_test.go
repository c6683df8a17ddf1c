package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("SKYDUEL_SERVER", "")
	t.Setenv("SKYDUEL_ADMIN_TOKEN", "")

	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Empty(t, cfg.AdminToken)
	assert.Equal(t, "text", cfg.Output)
}

func TestConfigReadsEnvironment(t *testing.T) {
	t.Setenv("SKYDUEL_SERVER", "http://game.example.com:9090")
	t.Setenv("SKYDUEL_ADMIN_TOKEN", "hunter2")

	cfg := DefaultConfig()

	assert.Equal(t, "http://game.example.com:9090", cfg.ServerURL)
	assert.Equal(t, "hunter2", cfg.AdminToken)
}
