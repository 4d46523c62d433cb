package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "ledger")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("DB_SSLMODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "host=db user=ledger password=pw dbname=ledger port=5432 sslmode=disable", cfg.DSN())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?parseTime=true", cfg.DSN())
}

func TestGetDurationEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_TTL", "soon")
	assert.Equal(t, time.Minute, GetDurationEnv("SOME_TTL", time.Minute))
}
