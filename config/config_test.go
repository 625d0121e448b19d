package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "https://api.telegram.org", c.TelegramAPIBase)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	// no delete secret by default: deletion stays disabled
	assert.Empty(t, c.AdminPassword)
	// no redis host by default: caching stays disabled
	assert.Empty(t, c.RedisHost)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("DATABASE_URL", "postgres://app:pw@db:5432/site")
	t.Setenv("BOT_TOKEN", "tok")
	t.Setenv("CHAT_ID", "-100")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_COMPRESS", "true")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "hunter2", c.AdminPassword)
	assert.Equal(t, "postgres://app:pw@db:5432/site", c.DatabaseURI)
	assert.Equal(t, "tok", c.BotToken)
	assert.Equal(t, "-100", c.ChatID)
	assert.Equal(t, 10, c.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.True(t, c.LogCompress)
}

func TestReadListEnv(t *testing.T) {
	t.Setenv("TEST_LIST", " a ,, b ")
	assert.Equal(t, []string{"a", "b"}, readListEnv("TEST_LIST", nil))

	fallback := []string{"x"}
	assert.Equal(t, fallback, readListEnv("TEST_LIST_UNSET", fallback))
}

func TestMustParseInt(t *testing.T) {
	assert.Equal(t, 42, mustParseInt(" 42 "))
	assert.Equal(t, 0, mustParseInt("not a number"))
}
