// Package llm wraps the chat model providers used by the step agents. It
// builds an eino chat model from a ModelConfig and offers a small Client
// that sends a conversation and returns the reply text.
package llm

import (
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
)

// ModelConfig describes one configured model endpoint.
type ModelConfig struct {
	Name        string    `json:"name"` // alias used by agents, not the endpoint
	APIType     ModelType `json:"type"`
	BaseURL     string    `json:"base_url"`
	APIKey      string    `json:"api_key"`
	ModelName   string    `json:"model_name"`
	Temperature *float32  `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	// Timeout bounds a single request. Default: 600s.
	Timeout time.Duration `json:"timeout"`
}

// ModelType names a provider.
type ModelType string

const (
	ModelTypeUnknown   ModelType = ""
	ModelTypeOllama    ModelType = "ollama"
	ModelTypeARK       ModelType = "ark"
	ModelTypeOpenAI    ModelType = "openai"
	ModelTypeClaude    ModelType = "claude"
	ModelTypeDashScope ModelType = "dashscope"
	ModelTypeDeepSeek  ModelType = "deepseek"
)

// NewModelType maps a provider name or one of its aliases to a ModelType.
func NewModelType(t string) ModelType {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "ollama":
		return ModelTypeOllama
	case "ark", "doubao":
		return ModelTypeARK
	case "openai", "gpt":
		return ModelTypeOpenAI
	case "claude", "anthropic":
		return ModelTypeClaude
	case "dashscope", "qwen", "tongyi":
		return ModelTypeDashScope
	case "deepseek":
		return ModelTypeDeepSeek
	}
	return ModelTypeUnknown
}

// ChatModel is the part of an eino chat model the agents rely on.
type ChatModel interface {
	model.BaseChatModel
}
