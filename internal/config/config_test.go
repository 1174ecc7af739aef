package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_HOST", "AUTO_MIGRATE", "SEED_DATA", "LOG_LEVEL", "TIMEZONE", "DB_MAX_CONNS", "MIGRATIONS_DIR"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "9090")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("TIMEZONE", "Asia/Jakarta")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.SeedData)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level(), "empty level falls back to info")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "n", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", cfg.DatabaseURL())
}

func TestConfig_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, (&Config{LogLevel: "debug"}).Level())
	assert.Equal(t, zerolog.InfoLevel, (&Config{LogLevel: "loud"}).Level())
}

func TestConfig_LocationInvalid(t *testing.T) {
	_, err := (&Config{Timezone: "Mars/Olympus"}).Location()
	assert.Error(t, err)
}
