package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults and env", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "from-env")
		path := writeConfig(t, `
[database]
host = "db"
user = "booking"
password = "from-file"
dbname = "experiences"

[catalog]
url = "http://wp.local"

[booking]
timezone = "Europe/Moscow"
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.HTTPPort)
		assert.Equal(t, "from-env", cfg.Database.Password)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 15*time.Minute, cfg.Booking.HoldTTL())
		assert.Equal(t, 365*24*time.Hour, cfg.Booking.Horizon())
		assert.Equal(t, 30, cfg.Limits.HoldsPerMinute)
		assert.Equal(t, "Europe/Moscow", cfg.Booking.Location().String())
		assert.Equal(t, "host=db port=5432 user=booking password=from-env dbname=experiences sslmode=disable", cfg.Database.DSN())
	})

	t.Run("unknown timezone", func(t *testing.T) {
		path := writeConfig(t, `
[database]
host = "db"
[catalog]
url = "http://wp.local"
[booking]
timezone = "Mars/Olympus"
`)

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("redis enabled without addr", func(t *testing.T) {
		path := writeConfig(t, `
[database]
host = "db"
[catalog]
url = "http://wp.local"
[redis]
enabled = true
`)

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("broken toml", func(t *testing.T) {
		_, err := Load(writeConfig(t, `[server`))
		assert.ErrorIs(t, err, ErrLoad)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorIs(t, err, ErrLoad)
	})
}
