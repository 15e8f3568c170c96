package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhishekpnaik05/vigitrack/internal/middleware"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()

	assert.Equal(t, 3000, cfg.APIPort)
	assert.Equal(t, "postgres", cfg.StorageDriver)
	assert.Equal(t, "gemini-2.0-flash", cfg.GenAI.Model)
	assert.False(t, cfg.GenAI.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.OfflineAfter)
	assert.Equal(t, "sos@vigitrack.local", cfg.SOSContacts.Email)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_PORT", "8081")
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("GENAI_API_KEY", "k")
	t.Setenv("GENAI_TIMEOUT", "5s")
	t.Setenv("JETSTREAM_ENABLED", "true")
	t.Setenv("OFFLINE_AFTER", "bogus")

	cfg := Load()

	assert.Equal(t, 8081, cfg.APIPort)
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.True(t, cfg.GenAI.Enabled())
	assert.Equal(t, 5*time.Second, cfg.GenAI.Timeout)
	assert.True(t, cfg.JetStream)
	assert.Equal(t, 15*time.Minute, cfg.OfflineAfter, "invalid durations fall back to the default")
}

func TestGetRateLimitRuleForPath(t *testing.T) {
	cfg := &Config{RateLimit: loadRateLimitConfig()}

	login := cfg.GetRateLimitRuleForPath("/api/v1/auth/login")
	assert.Equal(t, middleware.RateLimitFixedWindow, login.Algorithm)
	assert.Equal(t, middleware.RateLimitByIP, login.Type)

	sos := cfg.GetRateLimitRuleForPath("/api/v1/assistant/sos")
	assert.Equal(t, middleware.RateLimitByUser, sos.Type)

	other := cfg.GetRateLimitRuleForPath("/api/v1/devices")
	assert.Equal(t, "*", other.Path)

	mc := sos.ToMiddlewareConfig()
	assert.Equal(t, 60, mc.Window)
}
