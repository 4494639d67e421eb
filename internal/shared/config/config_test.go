package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PUNCH_DEDUP_WINDOW", "")
	t.Setenv("LOCK_BACKEND", "")
	t.Setenv("PORT", "")

	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.PunchDedupWindow)
	assert.Equal(t, "local", cfg.LockBackend)
	assert.Equal(t, "3000", cfg.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PUNCH_DEDUP_WINDOW", "45s")
	t.Setenv("LOCK_BACKEND", "REDIS")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 45*time.Second, cfg.PunchDedupWindow)
	assert.Equal(t, "redis", cfg.LockBackend)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestConfig_Location(t *testing.T) {
	assert.Equal(t, time.Local, Config{TimeZone: "Local"}.Location())
	assert.Equal(t, time.Local, Config{TimeZone: "Nowhere/Invalid"}.Location())
	assert.Equal(t, "UTC", Config{TimeZone: "UTC"}.Location().String())
}
