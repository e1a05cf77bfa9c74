package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("CONFIRMATION_CODE_TTL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("AUTH_RATE_LIMIT_RPS", "")
	t.Setenv("AUTH_RATE_LIMIT_BURST", "")

	cfg := Load()

	assert.Equal(t, "8010", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.ConfirmationCodeTTL)
	assert.Equal(t, float64(1), cfg.RateLimit.AuthRPS)
	assert.Equal(t, 5, cfg.RateLimit.AuthBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("CONFIRMATION_CODE_TTL", "15m")
	t.Setenv("AUTH_RATE_LIMIT_RPS", "2.5")
	t.Setenv("MINIO_ENABLED", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ConfirmationCodeTTL)
	assert.Equal(t, 2.5, cfg.RateLimit.AuthRPS)
	assert.False(t, cfg.MinIO.Enabled)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "JWT_SECRET"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"missing minio key", func(c *Config) { c.MinIO.AccessKeyID = "" }, "AWS_ACCESS_KEY_ID"},
		{"minio disabled skips keys", func(c *Config) { c.MinIO.Enabled = false; c.MinIO.AccessKeyID = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Host: "localhost"},
				Auth:     AuthConfig{JWTSecret: "secret"},
				MinIO: MinIOConfig{
					Enabled:         true,
					Endpoint:        "localhost:9000",
					AccessKeyID:     "key",
					SecretAccessKey: "secret",
				},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "reviews", SSLMode: "disable"}
	assert.Contains(t, d.DSN(), "host=db port=5432 user=u password=p dbname=reviews sslmode=disable")
}
