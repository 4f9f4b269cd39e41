package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:         "production",
		Port:        "8000",
		SecretKey:   "a-very-long-production-secret-key-0123456789",
		DBDriver:    "postgres",
		DBPassword:  "secure-password",
		DBSSLMode:   "require",
		PostsInPage: 10,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid production", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.SecretKey = "" }, true},
		{"default secret in production", func(c *Config) { c.SecretKey = defaultSecretKey }, true},
		{"short secret in production", func(c *Config) { c.SecretKey = "short" }, true},
		{"sqlite in production", func(c *Config) { c.DBDriver = "sqlite" }, true},
		{"default db password in production", func(c *Config) { c.DBPassword = "password" }, true},
		{"ssl disabled in production", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"zero page size", func(c *Config) { c.PostsInPage = 0 }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"development allows sqlite", func(c *Config) {
			c.Env = "development"
			c.DBDriver = "sqlite"
			c.SecretKey = "short"
			c.DBSSLMode = "disable"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_DefaultsAndNormalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLITE ")
	t.Setenv("POSTS_IN_PAGE", "10")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 10, c.PostsInPage)
	assert.Equal(t, "/auth/login/", c.LoginURL)
	assert.Equal(t, "yatube_session", c.SessionCookieName)
	assert.Equal(t, 20*time.Second, c.IndexCacheTTL())
	assert.False(t, c.IsProduction())
}

func TestConfig_SessionTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, (&Config{}).SessionTTL())
	assert.Equal(t, 48*time.Hour, (&Config{SessionTTLHours: 48}).SessionTTL())
}
