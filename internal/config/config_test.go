package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/argumenta/backend/internal/llm/xai"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LLM_PROVIDER", "XAI_API_KEY", "XAI_BASE_URL", "XAI_MODEL", "XAI_TIMEOUT",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL", "CORS_ALLOW_CREDENTIALS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingSecretFails(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XAI_API_KEY", " xai-secret ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, ProviderXAI, cfg.AI.Provider)
	require.Equal(t, "xai-secret", cfg.AI.APIKey)
	require.Equal(t, xai.DefaultBaseURL, cfg.AI.BaseURL)
	require.Equal(t, xai.DefaultModel, cfg.AI.Model)
	require.Equal(t, 30*time.Second, cfg.AI.Timeout)
	require.True(t, cfg.CORS.AllowCredentials)

	chatModel, err := cfg.AI.NewChatModel(context.Background())
	require.NoError(t, err)
	require.IsType(t, &xai.ChatModel{}, chatModel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("XAI_API_KEY", "k")
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("XAI_TIMEOUT", "5")
	t.Setenv("XAI_MODEL", "grok-3-mini")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, 5*time.Second, cfg.AI.Timeout)
	require.Equal(t, "grok-3-mini", cfg.AI.Model)
	require.False(t, cfg.CORS.AllowCredentials)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"port":     {"PORT", "80 80"},
		"timeout":  {"XAI_TIMEOUT", "soon"},
		"zero":     {"XAI_TIMEOUT", "0"},
		"provider": {"LLM_PROVIDER", "openai"},
		"cors":     {"CORS_ALLOW_CREDENTIALS", "maybe"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("XAI_API_KEY", "k")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestArkProviderDoesNotNeedXAISecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "ark")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.AI.Ark.Enabled())

	_, err = cfg.AI.NewChatModel(context.Background())
	require.Error(t, err)
}

func TestArkConfigEnabled(t *testing.T) {
	require.True(t, ArkConfig{Model: "ep-1", APIKey: "k"}.Enabled())
	require.True(t, ArkConfig{Model: "ep-1", AccessKey: "ak", SecretKey: "sk"}.Enabled())
	require.False(t, ArkConfig{APIKey: "k"}.Enabled())
	require.False(t, ArkConfig{Model: "ep-1", AccessKey: "ak"}.Enabled())
}
