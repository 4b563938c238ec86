package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "socialblog", cfg.MongoDatabase)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.FollowAllowSelf)
	assert.False(t, cfg.FollowAllowDuplicates)
	assert.Equal(t, []byte("secret"), cfg.JWTSecret)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("FOLLOW_ALLOW_SELF", "true")
	t.Setenv("FOLLOW_ALLOW_DUPLICATES", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.FollowAllowSelf)
	assert.True(t, cfg.FollowAllowDuplicates)
}

func TestLoadReportsEveryProblem(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"MONGO_URI", "REDIS_ADDR", "JWT_SECRET", "REQUEST_TIMEOUT"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{EnvDevelopment, EnvProduction} {
		logger, err := NewLogger(env)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
