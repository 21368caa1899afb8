package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "GIN_MODE", "LOG_MODE", "GENERATION_PROVIDER", "GENERATION_MODEL",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "GEMINI_API_KEY", "ANTHROPIC_API_KEY",
		"AUDIT_BACKEND", "MONGO_URI", "DYNAMO_TABLE", "ASSETS_BACKEND", "ASSETS_BUCKET",
		"ASSETS_DIR", "AWS_REGION", "AWS_ENDPOINT_URL", "REDIS_ADDR", "REDIS_PASSWORD",
		"PORT", "GENERATION_TIMEOUT_SECONDS", "RATE_LIMIT_MAX_SUBMISSIONS",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ProviderOpenAI, cfg.Generation.Provider)
	assert.Equal(t, 90, cfg.Generation.TimeoutSeconds)
	assert.Equal(t, AuditBackendNone, cfg.Audit.Backend)
	assert.Equal(t, "submissions", cfg.Audit.MongoCollection)
	assert.Equal(t, AssetsBackendNone, cfg.Assets.Backend)
	assert.Equal(t, "roster.csv", cfg.Assets.RosterKey)
	assert.Equal(t, "banner.png", cfg.Assets.BannerKey)
}

func TestLoadConfigFromYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9000
generation:
  provider: Gemini
  timeoutSeconds: 30
gemini:
  apiKey: from-file
audit:
  backend: mongo
  mongoUri: mongodb://localhost:27017/journals
assets:
  backend: local
  localDir: ./assets
`)
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("PORT", "9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, ProviderGemini, cfg.Generation.Provider)
	assert.Equal(t, "from-env", cfg.Gemini.ApiKey)
	assert.Equal(t, 30, cfg.Generation.TimeoutSeconds)
	assert.Equal(t, AuditBackendMongo, cfg.Audit.Backend)
	assert.Equal(t, "./assets", cfg.Assets.LocalDir)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing provider key",
			yaml:    "generation:\n  provider: anthropic\n",
			wantErr: "anthropic.apiKey is required",
		},
		{
			name:    "unknown provider",
			yaml:    "generation:\n  provider: llama\n",
			wantErr: "generation.provider must be one of",
		},
		{
			name:    "mongo without uri",
			yaml:    "audit:\n  backend: mongo\n",
			env:     map[string]string{"OPENAI_API_KEY": "sk"},
			wantErr: "audit.mongoUri is required",
		},
		{
			name:    "s3 without bucket",
			yaml:    "assets:\n  backend: s3\n",
			env:     map[string]string{"OPENAI_API_KEY": "sk"},
			wantErr: "assets.bucket is required",
		},
		{
			name:    "redis without limit",
			yaml:    "rateLimit:\n  redisAddr: localhost:6379\n",
			env:     map[string]string{"OPENAI_API_KEY": "sk"},
			wantErr: "rateLimit.maxSubmissions",
		},
		{
			name:    "bad port env",
			env:     map[string]string{"OPENAI_API_KEY": "sk", "PORT": "eighty"},
			wantErr: "invalid PORT",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tc.yaml)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server: [port")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestSampleConfigLeavesModelToProvider(t *testing.T) {
	for _, provider := range []string{ProviderOpenAI, ProviderGemini, ProviderAnthropic} {
		t.Run(provider, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GENERATION_PROVIDER", provider)

			cfg, err := LoadConfig("config.sample.yml")
			require.NoError(t, err)
			assert.Equal(t, provider, cfg.Generation.Provider)
			assert.Empty(t, cfg.Generation.Model)
			assert.Equal(t, 90, cfg.Generation.TimeoutSeconds)
		})
	}
}
