package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/argumenta/backend/internal/llm/xai"
)

const (
	ProviderXAI = "xai"
	ProviderArk = "ark"
)

// ErrMissingAPIKey is returned when the completion API secret is absent.
var ErrMissingAPIKey = errors.New("XAI_API_KEY environment variable is required")

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	CORS   CORSConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	cors, err := loadCORSConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, CORS: cors}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// CORSConfig 描述跨域配置。
type CORSConfig struct {
	AllowCredentials bool
}

func loadCORSConfig() (CORSConfig, error) {
	allow, err := parseBoolEnv("CORS_ALLOW_CREDENTIALS", true)
	if err != nil {
		return CORSConfig{}, err
	}
	return CORSConfig{AllowCredentials: allow}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	Ark      ArkConfig
}

// ArkConfig 描述备用的火山方舟模型配置。
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	switch c.Provider {
	case ProviderXAI:
		chatModel, err := xai.NewChatModel(&xai.Config{
			APIKey:  c.APIKey,
			BaseURL: c.BaseURL,
			Model:   c.Model,
			Timeout: c.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return chatModel, nil
	case ProviderArk:
		if !c.Ark.Enabled() {
			return nil, errors.New("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
		}
		return ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:   c.Ark.BaseURL,
			Region:    c.Ark.Region,
			APIKey:    c.Ark.APIKey,
			AccessKey: c.Ark.AccessKey,
			SecretKey: c.Ark.SecretKey,
			Model:     c.Ark.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", c.Provider)
	}
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderXAI))
	if provider != ProviderXAI && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q", provider)
	}

	timeout := xai.DefaultTimeout
	if seconds, err := parseOptionalIntEnv("XAI_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if seconds != nil {
		if *seconds < 1 {
			return AIConfig{}, fmt.Errorf("invalid XAI_TIMEOUT value %d: must be positive", *seconds)
		}
		timeout = time.Duration(*seconds) * time.Second
	}

	cfg := AIConfig{
		Provider: provider,
		APIKey:   strings.TrimSpace(os.Getenv("XAI_API_KEY")),
		BaseURL:  getEnvOrDefault("XAI_BASE_URL", xai.DefaultBaseURL),
		Model:    getEnvOrDefault("XAI_MODEL", xai.DefaultModel),
		Timeout:  timeout,
		Ark: ArkConfig{
			APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
			AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
			Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
			BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
			Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		},
	}

	if cfg.Provider == ProviderXAI && cfg.APIKey == "" {
		return AIConfig{}, ErrMissingAPIKey
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
