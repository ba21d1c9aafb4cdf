package llm

import (
	"context"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	"github.com/pkg/errors"
)

const (
	defaultMaxTokens = 16 * 1024
	defaultTimeout   = 600 * time.Second

	dashScopeBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	deepSeekBaseURL  = "https://api.deepseek.com"
)

// NewChatModel builds the provider client described by m.
func NewChatModel(ctx context.Context, m ModelConfig) (ChatModel, error) {
	if m.MaxTokens == 0 {
		m.MaxTokens = defaultMaxTokens
	}
	if m.Timeout == 0 {
		m.Timeout = defaultTimeout
	}

	var (
		cm  ChatModel
		err error
	)
	switch m.APIType {
	case ModelTypeARK:
		cm, err = ark.NewChatModel(ctx, &ark.ChatModelConfig{
			BaseURL:     m.BaseURL,
			APIKey:      m.APIKey,
			Model:       m.ModelName,
			Temperature: m.Temperature,
			MaxTokens:   &m.MaxTokens,
		})
	case ModelTypeOpenAI:
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     m.BaseURL,
			APIKey:      m.APIKey,
			Model:       m.ModelName,
			Temperature: m.Temperature,
			MaxTokens:   &m.MaxTokens,
			Timeout:     m.Timeout,
		})
	case ModelTypeDashScope:
		baseURL := m.BaseURL
		if baseURL == "" {
			baseURL = dashScopeBaseURL
		}
		cm, err = qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
			BaseURL:     baseURL,
			APIKey:      m.APIKey,
			Model:       m.ModelName,
			Temperature: m.Temperature,
			MaxTokens:   &m.MaxTokens,
			Timeout:     m.Timeout,
		})
	case ModelTypeDeepSeek:
		// OpenAI-compatible API.
		baseURL := m.BaseURL
		if baseURL == "" {
			baseURL = deepSeekBaseURL
		}
		cm, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     baseURL,
			APIKey:      m.APIKey,
			Model:       m.ModelName,
			Temperature: m.Temperature,
			MaxTokens:   &m.MaxTokens,
			Timeout:     m.Timeout,
		})
	case ModelTypeOllama:
		cm, err = ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: m.BaseURL,
			Model:   m.ModelName,
		})
	case ModelTypeClaude:
		cfg := &claude.Config{
			APIKey:      m.APIKey,
			Model:       m.ModelName,
			Temperature: m.Temperature,
			MaxTokens:   m.MaxTokens,
		}
		if m.BaseURL != "" {
			cfg.BaseURL = &m.BaseURL
		}
		cm, err = claude.NewChatModel(ctx, cfg)
	default:
		return nil, errors.Errorf("unsupported model type %q for model '%s'", m.APIType, m.Name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s model '%s'", m.APIType, m.Name)
	}
	return cm, nil
}
