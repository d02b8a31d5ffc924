package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsKept(t *testing.T) {
	cfg, err := Parse(`
[server]
http_port = 9090

[booking]
min_notice_minutes = 30
`)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 30, cfg.Booking.MinNoticeMinutes)
	assert.Equal(t, 60, cfg.Booking.AdvanceBookingDays)
	assert.True(t, cfg.Booking.EnforceAlignment)
	assert.Equal(t, "Idempotency-Key", cfg.Idempotency.HeaderName)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad port", data: "[server]\nhttp_port = 0"},
		{name: "bad timezone", data: "[booking]\ntimezone = \"Mars/Olympus\""},
		{name: "negative notice", data: "[booking]\nmin_notice_minutes = -5"},
		{name: "redis without addr", data: "[redis]\nenabled = true\naddr = \"\""},
		{name: "zero advance", data: "[booking]\nadvance_booking_days = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("[server\nhttp_port = ")
	assert.Error(t, err)
}

func TestLoad_PasswordFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database]\npassword = \"from-file\"\n"), 0o600))

	t.Setenv(envDatabasePassword, "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.toml"))
	require.NoError(t, err)
	assert.Equal(t, "appointment-service", cfg.Metrics.ServiceName)
}
