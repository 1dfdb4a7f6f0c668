package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Email:       "me@example.com",
		Key:         "secret",
		Size:        100,
		Concurrency: 10,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing email", mutate: func(c *Config) { c.Email = "" }, wantErr: "email"},
		{name: "missing key", mutate: func(c *Config) { c.Key = "" }, wantErr: "key"},
		{name: "zero size", mutate: func(c *Config) { c.Size = 0 }, wantErr: "page size"},
		{name: "negative size", mutate: func(c *Config) { c.Size = -5 }, wantErr: "page size"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "negative concurrency", mutate: func(c *Config) { c.Concurrency = -1 }, wantErr: "concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
