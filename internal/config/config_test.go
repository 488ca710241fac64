package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		cfg, err := FromEnv(envOf(map[string]string{"SESSION_SECRET": "s3cret"}))
		require.NoError(t, err)

		assert.Equal(t, Production, cfg.Env)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, DefaultProductionVerifyURL, cfg.VerifyURL)
		assert.False(t, cfg.AllowDevBypass)
		assert.False(t, cfg.AllowEndpointOverride)
		assert.False(t, cfg.Diagnostics)
		assert.Equal(t, "en", cfg.DefaultLocale)
		assert.Equal(t, 30, cfg.RateLimitPerMin)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("development", func(t *testing.T) {
		cfg, err := FromEnv(envOf(map[string]string{"APP_ENV": "Development"}))
		require.NoError(t, err)

		assert.True(t, cfg.IsDevelopment())
		assert.Equal(t, DefaultDevelopmentVerifyURL, cfg.VerifyURL)
		assert.True(t, cfg.AllowEndpointOverride)
		assert.True(t, cfg.Diagnostics)
		assert.False(t, cfg.AllowDevBypass, "bypass is never on by default")
		assert.NotEmpty(t, cfg.SessionSecret)
	})
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown env", map[string]string{"APP_ENV": "staging", "SESSION_SECRET": "x"}},
		{"missing secret in production", map[string]string{}},
		{"bad verify url", map[string]string{"APP_ENV": "development", "VERIFY_URL": "localhost/verify"}},
		{"bad rate limit", map[string]string{"APP_ENV": "development", "RATE_LIMIT_PER_MIN": "0"}},
		{"non numeric rate limit", map[string]string{"APP_ENV": "development", "RATE_LIMIT_PER_MIN": "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	locked, err := FromEnv(envOf(map[string]string{"SESSION_SECRET": "x"}))
	require.NoError(t, err)

	open, err := FromEnv(envOf(map[string]string{
		"APP_ENV":          "development",
		"ALLOW_DEV_BYPASS": "true",
	}))
	require.NoError(t, err)

	tests := []struct {
		name    string
		cfg     *Config
		query   url.Values
		want    Resolved
		wantErr error
	}{
		{
			name:  "defaults",
			cfg:   locked,
			query: url.Values{},
			want:  Resolved{Endpoint: DefaultProductionVerifyURL},
		},
		{
			name:  "same endpoint is not an override",
			cfg:   locked,
			query: url.Values{"endpoint": {DefaultProductionVerifyURL}},
			want:  Resolved{Endpoint: DefaultProductionVerifyURL},
		},
		{
			name:    "endpoint override refused",
			cfg:     locked,
			query:   url.Values{"endpoint": {"https://evil.example.com/verify"}},
			wantErr: ErrOverrideNotAllowed,
		},
		{
			name:    "dev bypass refused",
			cfg:     locked,
			query:   url.Values{"dev": {"1"}},
			wantErr: ErrOverrideNotAllowed,
		},
		{
			name:  "dev=0 is ignored",
			cfg:   locked,
			query: url.Values{"dev": {"0"}},
			want:  Resolved{Endpoint: DefaultProductionVerifyURL},
		},
		{
			name:  "override allowed",
			cfg:   open,
			query: url.Values{"endpoint": {"http://127.0.0.1:9000/check"}, "dev": {"true"}},
			want:  Resolved{Endpoint: "http://127.0.0.1:9000/check", Bypass: true, Diagnostics: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Resolve(tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid override url", func(t *testing.T) {
		_, err := open.Resolve(url.Values{"endpoint": {"javascript:alert(1)"}})
		assert.Error(t, err)
	})
}
