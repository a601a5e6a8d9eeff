// Package llm shims between the engine's Turn/Part model and the OpenAI chat
// wire shape.
package llm

import (
	"github.com/obsidian-exchange/clerk-go/internal/config"
	"github.com/sashabaranov/go-openai"
)

// NewClient creates an OpenAI-compatible client from the LLM configuration.
func NewClient(cfg config.LLMConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(clientConfig)
}
